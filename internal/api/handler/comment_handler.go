package handler

import (
	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListByVideo GET /api/v1/comments/:videoId
// 评论按时间倒序，不支持自定义排序
func (h *CommentHandler) ListByVideo(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "视频")
	if !ok {
		return
	}
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.commentService.ListByVideo(c.Request.Context(), videoID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取评论列表成功", page)
}

// Create POST /api/v1/comments/:videoId
func (h *CommentHandler) Create(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "视频")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.commentService.Create(c.Request.Context(), currentUserID(c), videoID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "发表评论成功", info)
}

// Update PATCH /api/v1/comments/c/:commentId
func (h *CommentHandler) Update(c *gin.Context) {
	commentID, ok := pathID(c, "commentId", "评论")
	if !ok {
		return
	}
	var req dto.ContentRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.commentService.Update(c.Request.Context(), currentUserID(c), commentID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "更新评论成功", info)
}

// Delete DELETE /api/v1/comments/c/:commentId
func (h *CommentHandler) Delete(c *gin.Context) {
	commentID, ok := pathID(c, "commentId", "评论")
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), currentUserID(c), commentID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "删除评论成功", gin.H{})
}
