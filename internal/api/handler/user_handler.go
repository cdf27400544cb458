package handler

import (
	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
	uploader    *Uploader
}

func NewUserHandler(userService *service.UserService, uploader *Uploader) *UserHandler {
	return &UserHandler{
		userService: userService,
		uploader:    uploader,
	}
}

// CurrentUser 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=dto.UserInfo} "获取成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /users/current-user [get]
func (h *UserHandler) CurrentUser(c *gin.Context) {
	info, err := h.userService.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", info)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "新旧密码"
// @Success 200 {object} response.Response "修改成功"
// @Failure 400 {object} response.ErrorResponse "旧密码错误"
// @Router /users/change-password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "密码修改成功", gin.H{})
}

// UpdateAccount 修改账户信息
// @Summary 修改昵称与邮箱
// @Tags 用户
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAccountRequest true "账户信息"
// @Success 200 {object} response.Response{data=dto.UserInfo} "修改成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 409 {object} response.ErrorResponse "邮箱已被使用"
// @Router /users/update-account [patch]
func (h *UserHandler) UpdateAccount(c *gin.Context) {
	var req dto.UpdateAccountRequest
	if !bindJSON(c, &req) {
		return
	}

	info, err := h.userService.UpdateAccount(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "账户信息已更新", info)
}

// UpdateAvatar 更换头像
// @Summary 更换头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "头像"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更换成功"
// @Failure 400 {object} response.ErrorResponse "缺少图片"
// @Failure 502 {object} response.ErrorResponse "上传失败"
// @Router /users/avatar [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	path, err := h.uploader.SaveImage(c, "avatar")
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.userService.UpdateAvatar(c.Request.Context(), currentUserID(c), path)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "头像已更新", info)
}

// UpdateCoverImage 更换封面
// @Summary 更换封面
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param coverImage formData file true "封面"
// @Success 200 {object} response.Response{data=dto.UserInfo} "更换成功"
// @Failure 400 {object} response.ErrorResponse "缺少图片"
// @Router /users/cover-image [patch]
func (h *UserHandler) UpdateCoverImage(c *gin.Context) {
	path, err := h.uploader.SaveImage(c, "coverImage")
	if err != nil {
		response.Error(c, err)
		return
	}

	info, err := h.userService.UpdateCoverImage(c.Request.Context(), currentUserID(c), path)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "封面已更新", info)
}

// ChannelProfile 频道主页
// @Summary 获取频道信息
// @Description 订阅数、关注数以及当前用户是否已订阅
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=dto.ChannelProfile} "获取成功"
// @Failure 404 {object} response.ErrorResponse "频道不存在"
// @Router /users/channel/{username} [get]
func (h *UserHandler) ChannelProfile(c *gin.Context) {
	profile, err := h.userService.GetChannelProfile(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", profile)
}

// WatchHistory 观看历史
// @Summary 获取观看历史
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]dto.HistoryItem} "获取成功"
// @Router /users/history [get]
func (h *UserHandler) WatchHistory(c *gin.Context) {
	items, err := h.userService.GetWatchHistory(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "获取成功", items)
}
