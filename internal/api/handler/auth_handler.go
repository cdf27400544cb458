package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/api/middleware"
	"vidtube-go/internal/api/response"
	"vidtube-go/internal/config"
	"vidtube-go/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
	uploader    *Uploader
	cookie      config.CookieConfig
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthHandler(authService *service.AuthService, uploader *Uploader, cookie config.CookieConfig, jwtCfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		uploader:    uploader,
		cookie:      cookie,
		accessTTL:   jwtCfg.AccessExpireDuration(),
		refreshTTL:  jwtCfg.RefreshExpireDuration(),
	}
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户，avatar 必传，coverImage 可选
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Param fullName formData string true "昵称"
// @Param email formData string true "邮箱"
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Param avatar formData file true "头像"
// @Param coverImage formData file false "封面"
// @Success 201 {object} response.Response{data=dto.UserInfo} "注册成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 409 {object} response.ErrorResponse "用户名或邮箱已存在"
// @Router /users/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var form dto.RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		response.BadRequest(c, "请求参数无效", err.Error())
		return
	}

	avatarPath, err := h.uploader.SaveImage(c, "avatar")
	if err != nil {
		response.Error(c, err)
		return
	}
	coverPath, err := h.uploader.SaveImage(c, "coverImage")
	if err != nil {
		discard(avatarPath)
		response.Error(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &dto.RegisterRequest{
		RegisterForm: form,
		AvatarPath:   avatarPath,
		CoverPath:    coverPath,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "注册成功", user)
}

// Login 用户登录
// @Summary 用户登录
// @Description 使用用户名或邮箱登录，令牌同时写入 Cookie
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录信息"
// @Success 200 {object} response.Response{data=dto.LoginData} "登录成功"
// @Failure 400 {object} response.ErrorResponse "请求参数无效"
// @Failure 401 {object} response.ErrorResponse "用户名或密码错误"
// @Router /users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	data, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, data)
	response.OK(c, "登录成功", data)
}

// RefreshToken 刷新令牌
// @Summary 刷新访问令牌
// @Description 刷新令牌优先取 Cookie，其次取请求体，成功后两个令牌同时轮换
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest false "刷新令牌"
// @Success 200 {object} response.Response{data=dto.LoginData} "刷新成功"
// @Failure 401 {object} response.ErrorResponse "刷新令牌无效"
// @Router /users/refresh-token [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if token == "" {
		var req dto.RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(c, "请求参数无效", err.Error())
			return
		}
		token = req.RefreshToken
	}

	data, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookies(c, data)
	response.OK(c, "令牌已刷新", data)
}

// Logout 用户登出
// @Summary 用户登出
// @Description 清除服务端保存的刷新令牌以及两个会话 Cookie
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response "登出成功"
// @Failure 401 {object} response.ErrorResponse "未授权"
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), currentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	h.clearSessionCookies(c)
	response.OK(c, "登出成功", gin.H{})
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, data *dto.LoginData) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, data.AccessToken, int(h.accessTTL.Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, data.RefreshToken, int(h.refreshTTL.Seconds()), "/", h.cookie.Domain, h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", h.cookie.Domain, h.cookie.Secure, true)
}
