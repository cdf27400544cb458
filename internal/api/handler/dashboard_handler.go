package handler

import (
	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats GET /api/v1/dashboard/stats
// 结果有缓存，有效期内的新数据不可见
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取频道统计成功", stats)
}

// Videos GET /api/v1/dashboard/videos
func (h *DashboardHandler) Videos(c *gin.Context) {
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.dashboardService.GetVideos(c.Request.Context(), currentUserID(c), &q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取频道视频成功", page)
}
