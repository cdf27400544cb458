package handler

import (
	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type VideoHandler struct {
	videoService  *service.VideoService
	searchService *service.SearchService
	uploader      *Uploader
}

func NewVideoHandler(videoService *service.VideoService, searchService *service.SearchService, uploader *Uploader) *VideoHandler {
	return &VideoHandler{
		videoService:  videoService,
		searchService: searchService,
		uploader:      uploader,
	}
}

// List 搜索视频
// @Summary 搜索/列出已公开视频
// @Description 关键词匹配标题与描述，可按作者过滤；优先走 Elasticsearch，不可用时回退数据库
// @Tags 视频
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量(1-50)" default(10)
// @Param query query string false "关键词"
// @Param sortBy query string false "排序字段 createdAt|views|duration|title"
// @Param sortType query string false "asc|desc"
// @Param userId query int false "作者ID"
// @Success 200 {object} response.Response "获取成功"
// @Failure 400 {object} response.ErrorResponse "查询参数无效"
// @Router /videos [get]
func (h *VideoHandler) List(c *gin.Context) {
	var q dto.VideoSearchQuery
	if !bindQuery(c, &q) {
		return
	}

	page, err := h.searchService.SearchVideos(c.Request.Context(), &q)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取视频列表成功", page)
}

// Publish 发布视频
// @Summary 发布视频
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "标题"
// @Param description formData string true "描述"
// @Param videoFile formData file true "视频文件"
// @Param thumbnail formData file true "封面图"
// @Success 201 {object} response.Response{data=dto.VideoInfo} "发布成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 502 {object} response.ErrorResponse "上传失败"
// @Router /videos [post]
func (h *VideoHandler) Publish(c *gin.Context) {
	var form dto.PublishVideoForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "请求参数无效", err.Error())
		return
	}

	videoPath, err := h.uploader.SaveVideo(c, "videoFile")
	if err != nil {
		response.Error(c, err)
		return
	}
	thumbPath, err := h.uploader.SaveImage(c, "thumbnail")
	if err != nil {
		discard(videoPath)
		response.Error(c, err)
		return
	}

	info, err := h.videoService.Publish(c.Request.Context(), currentUserID(c), &dto.PublishVideoRequest{
		PublishVideoForm: form,
		VideoPath:        videoPath,
		ThumbnailPath:    thumbPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "视频发布成功", info)
}

// Get 视频详情
// @Summary 获取视频详情
// @Description 播放量加一；登录用户同时写入观看历史
// @Tags 视频
// @Produce json
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "获取成功"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/{videoId} [get]
func (h *VideoHandler) Get(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "视频")
	if !ok {
		return
	}

	info, err := h.videoService.Get(c.Request.Context(), currentUserID(c), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// Update 更新视频
// @Summary 更新视频信息
// @Description thumbnail 可以上传新文件，也可以直接给 URL
// @Tags 视频
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "视频ID"
// @Param title formData string false "标题"
// @Param description formData string false "描述"
// @Param thumbnail formData file false "封面图"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "更新成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/{videoId} [patch]
func (h *VideoHandler) Update(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "视频")
	if !ok {
		return
	}

	var form dto.UpdateVideoForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "请求参数无效", err.Error())
		return
	}
	thumbPath, err := h.uploader.SaveImage(c, "thumbnail")
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.videoService.Update(c.Request.Context(), currentUserID(c), videoID, &dto.UpdateVideoRequest{
		UpdateVideoForm: form,
		ThumbnailPath:   thumbPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "视频更新成功", info)
}

// Delete 删除视频
// @Summary 删除视频
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response "删除成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Failure 404 {object} response.ErrorResponse "视频不存在"
// @Router /videos/{videoId} [delete]
func (h *VideoHandler) Delete(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "视频")
	if !ok {
		return
	}

	if err := h.videoService.Delete(c.Request.Context(), currentUserID(c), videoID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "视频已删除", gin.H{})
}

// TogglePublish 切换公开状态
// @Summary 切换视频公开状态
// @Tags 视频
// @Produce json
// @Security BearerAuth
// @Param videoId path int true "视频ID"
// @Success 200 {object} response.Response{data=dto.VideoInfo} "切换成功"
// @Failure 403 {object} response.ErrorResponse "无权限"
// @Router /videos/toggle/publish/{videoId} [patch]
func (h *VideoHandler) TogglePublish(c *gin.Context) {
	videoID, ok := pathID(c, "videoId", "视频")
	if !ok {
		return
	}

	info, err := h.videoService.TogglePublish(c.Request.Context(), currentUserID(c), videoID)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "视频已设为私密"
	if info.IsPublished {
		message = "视频已公开"
	}
	response.OK(c, message, info)
}
