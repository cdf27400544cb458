package handler

import (
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Toggle 订阅/取消订阅频道
// @Summary 切换订阅
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param channelId path int true "频道(用户)ID"
// @Success 200 {object} response.Response{data=dto.SubscriptionToggleResult} "操作成功"
// @Failure 404 {object} response.ErrorResponse "频道不存在"
// @Router /subscriptions/{channelId}/toggle [post]
func (h *SubscriptionHandler) Toggle(c *gin.Context) {
	channelID, ok := pathID(c, "channelId", "频道")
	if !ok {
		return
	}

	res, err := h.subscriptionService.Toggle(c.Request.Context(), currentUserID(c), channelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "已取消订阅"
	if res.Subscribed {
		message = "订阅成功"
	}
	response.OK(c, message, res)
}

// Subscribers 频道的订阅者
// @Summary 获取频道订阅者
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param channelId path int true "频道ID"
// @Success 200 {object} response.Response{data=[]dto.ChannelBrief} "获取成功"
// @Router /subscriptions/c/{channelId} [get]
func (h *SubscriptionHandler) Subscribers(c *gin.Context) {
	channelID, ok := pathID(c, "channelId", "频道")
	if !ok {
		return
	}

	users, err := h.subscriptionService.Subscribers(c.Request.Context(), channelID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取订阅者成功", users)
}

// SubscribedChannels 用户订阅的频道
// @Summary 获取用户订阅的频道
// @Tags 订阅
// @Produce json
// @Security BearerAuth
// @Param subscriberId path int true "用户ID"
// @Success 200 {object} response.Response{data=[]dto.ChannelBrief} "获取成功"
// @Router /subscriptions/u/{subscriberId} [get]
func (h *SubscriptionHandler) SubscribedChannels(c *gin.Context) {
	subscriberID, ok := pathID(c, "subscriberId", "用户")
	if !ok {
		return
	}

	channels, err := h.subscriptionService.SubscribedChannels(c.Request.Context(), subscriberID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取订阅频道成功", channels)
}
