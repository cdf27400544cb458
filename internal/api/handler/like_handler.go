package handler

import (
	"context"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

type toggleFunc func(ctx context.Context, actorID, targetID int64) (*dto.LikeToggleResult, error)

// ToggleVideoLike 点赞/取消点赞视频
// @Summary 切换视频点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.LikeToggleResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /likes/toggle/v/{videoId} [post]
func (h *LikeHandler) ToggleVideoLike(c *gin.Context) {
	h.toggle(c, "videoId", "视频", h.likeService.ToggleVideoLike)
}

// ToggleCommentLike 点赞/取消点赞评论
// @Summary 切换评论点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param commentId path int true "评论ID"
// @Success 200 {object} response.Response{data=dto.LikeToggleResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "评论不存在"
// @Router /likes/toggle/c/{commentId} [post]
func (h *LikeHandler) ToggleCommentLike(c *gin.Context) {
	h.toggle(c, "commentId", "评论", h.likeService.ToggleCommentLike)
}

// ToggleTweetLike 点赞/取消点赞动态
// @Summary 切换动态点赞
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Param tweetId path int true "动态ID"
// @Success 200 {object} response.Response{data=dto.LikeToggleResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "动态不存在"
// @Router /likes/toggle/t/{tweetId} [post]
func (h *LikeHandler) ToggleTweetLike(c *gin.Context) {
	h.toggle(c, "tweetId", "动态", h.likeService.ToggleTweetLike)
}

func (h *LikeHandler) toggle(c *gin.Context, param, label string, fn toggleFunc) {
	targetID, ok := pathID(c, param, label)
	if !ok {
		return
	}

	res, err := fn(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "已取消点赞"
	if res.Liked {
		message = "点赞成功"
	}
	response.OK(c, message, res)
}

// LikedVideos 我点赞过的视频
// @Summary 获取点赞过的视频
// @Tags 点赞
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]dto.VideoInfo} "获取成功"
// @Router /likes/videos [get]
func (h *LikeHandler) LikedVideos(c *gin.Context) {
	videos, err := h.likeService.LikedVideos(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", videos)
}
