package handler

import (
	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create 创建播放列表
// @Summary 创建播放列表
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePlaylistRequest true "播放列表"
// @Success 201 {object} response.Response{data=dto.PlaylistInfo} "创建成功"
// @Failure 409 {object} response.ErrorResponse "名称已存在"
// @Router /playlists [post]
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req dto.CreatePlaylistRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.playlistService.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "播放列表创建成功", info)
}

// Get 播放列表详情
// @Summary 获取播放列表及其视频
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param playlistId path int true "播放列表ID"
// @Success 200 {object} response.Response{data=dto.PlaylistDetail} "获取成功"
// @Failure 404 {object} response.ErrorResponse "播放列表不存在"
// @Router /playlists/{playlistId} [get]
func (h *PlaylistHandler) Get(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId", "播放列表")
	if !ok {
		return
	}

	detail, err := h.playlistService.Get(c.Request.Context(), playlistID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", detail)
}

// Update 修改播放列表
// @Summary 修改播放列表名称或描述
// @Tags 播放列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playlistId path int true "播放列表ID"
// @Param request body dto.UpdatePlaylistRequest true "修改内容"
// @Success 200 {object} response.Response{data=dto.PlaylistInfo} "修改成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /playlists/{playlistId} [patch]
func (h *PlaylistHandler) Update(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId", "播放列表")
	if !ok {
		return
	}
	var req dto.UpdatePlaylistRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.playlistService.Update(c.Request.Context(), currentUserID(c), playlistID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "播放列表已更新", info)
}

// Delete 删除播放列表
// @Summary 删除播放列表
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param playlistId path int true "播放列表ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /playlists/{playlistId} [delete]
func (h *PlaylistHandler) Delete(c *gin.Context) {
	playlistID, ok := pathID(c, "playlistId", "播放列表")
	if !ok {
		return
	}

	if err := h.playlistService.Delete(c.Request.Context(), currentUserID(c), playlistID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "播放列表已删除", gin.H{})
}

// AddVideo 向播放列表添加视频
// @Summary 添加视频到播放列表
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "视频ID"
// @Param playlistId path int true "播放列表ID"
// @Success 200 {object} response.Response{data=dto.PlaylistDetail} "添加成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 409 {object} response.ErrorResponse "视频已在列表中"
// @Router /playlists/add/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) AddVideo(c *gin.Context) {
	videoID, playlistID, ok := videoAndPlaylist(c)
	if !ok {
		return
	}

	detail, err := h.playlistService.AddVideo(c.Request.Context(), currentUserID(c), videoID, playlistID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "视频已添加到播放列表", detail)
}

// RemoveVideo 从播放列表移除视频
// @Summary 从播放列表移除视频
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "视频ID"
// @Param playlistId path int true "播放列表ID"
// @Success 200 {object} response.Response{data=dto.PlaylistDetail} "移除成功"
// @Failure 404 {object} response.ErrorResponse "视频不在列表中"
// @Router /playlists/remove/{videoId}/{playlistId} [patch]
func (h *PlaylistHandler) RemoveVideo(c *gin.Context) {
	videoID, playlistID, ok := videoAndPlaylist(c)
	if !ok {
		return
	}

	detail, err := h.playlistService.RemoveVideo(c.Request.Context(), currentUserID(c), videoID, playlistID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "视频已从播放列表移除", detail)
}

// ListByUser 用户的播放列表
// @Summary 获取用户的播放列表
// @Tags 播放列表
// @Produce json
// @Security BearerAuth
// @Param userId path int true "用户ID"
// @Param page query int false "页码"
// @Param limit query int false "每页数量(1-50)"
// @Param sortBy query string false "createdAt|updatedAt|name"
// @Param sortOrder query string false "asc|desc"
// @Success 200 {object} response.Response "获取成功"
// @Router /playlists/user/{userId} [get]
func (h *PlaylistHandler) ListByUser(c *gin.Context) {
	userID, ok := pathID(c, "userId", "用户")
	if !ok {
		return
	}
	var q dto.ListQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.playlistService.ListByUser(c.Request.Context(), userID, &q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取播放列表成功", page)
}

func videoAndPlaylist(c *gin.Context) (int64, int64, bool) {
	videoID, ok := pathID(c, "videoId", "视频")
	if !ok {
		return 0, 0, false
	}
	playlistID, ok := pathID(c, "playlistId", "播放列表")
	if !ok {
		return 0, 0, false
	}
	return videoID, playlistID, true
}
