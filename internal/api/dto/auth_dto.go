package dto

import "time"

// RegisterForm 注册表单（multipart/form-data），avatar 必填、coverImage 可选
type RegisterForm struct {
	FullName string `form:"fullName"`
	Email    string `form:"email" binding:"omitempty,email,max=255"`
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterRequest 交给服务层的注册参数，文件已落到本地临时目录
type RegisterRequest struct {
	RegisterForm
	AvatarPath string
	CoverPath  string
}

// LoginRequest 用户名或邮箱任选其一
type LoginRequest struct {
	Username string `json:"username" binding:"omitempty,max=64"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

// RefreshRequest Cookie 中没有刷新令牌时从请求体读取
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6,max=255"`
}

// UpdateAccountRequest 修改昵称与邮箱，未传的字段保持不变
type UpdateAccountRequest struct {
	FullName *string `json:"fullName" binding:"omitempty,max=128"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
}

// UserInfo 用户信息（不含密码和刷新令牌）
type UserInfo struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Avatar     string    `json:"avatar"`
	CoverImage string    `json:"coverImage"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// LoginData 登录与刷新返回的数据，令牌同时写入 Cookie
type LoginData struct {
	User         *UserInfo `json:"user,omitempty"`
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
}
