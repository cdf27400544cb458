package handler

import (
	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type TweetHandler struct {
	tweetService *service.TweetService
}

func NewTweetHandler(tweetService *service.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// Create POST /api/v1/tweets
func (h *TweetHandler) Create(c *gin.Context) {
	var req dto.CreateTweetRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.tweetService.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "发布动态成功", info)
}

// ListByUser GET /api/v1/tweets/user/:userId
func (h *TweetHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId", "用户")
	if !ok {
		return
	}
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.tweetService.ListByUser(c.Request.Context(), userID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取动态列表成功", page)
}

// Update PATCH /api/v1/tweets/:tweetId
func (h *TweetHandler) Update(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId", "动态")
	if !ok {
		return
	}
	var req dto.UpdateTweetRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.tweetService.Update(c.Request.Context(), currentUserID(c), tweetID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "更新动态成功", info)
}

// Delete DELETE /api/v1/tweets/:tweetId
func (h *TweetHandler) Delete(c *gin.Context) {
	tweetID, ok := pathID(c, "tweetId", "动态")
	if !ok {
		return
	}

	if err := h.tweetService.Delete(c.Request.Context(), currentUserID(c), tweetID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "删除动态成功", gin.H{})
}
