package model

import "time"

// User 用户模型，username 与 email 统一小写存储
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex;comment:用户名" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex;comment:邮箱" json:"email"`
	FullName     string    `gorm:"size:128;not null;comment:昵称" json:"fullName"`
	Avatar       string    `gorm:"size:500;not null;comment:头像地址" json:"avatar"`
	AvatarObject string    `gorm:"size:255;comment:头像对象名" json:"-"`
	CoverImage   string    `gorm:"size:500;comment:主页背景地址" json:"coverImage"`
	CoverObject  string    `gorm:"size:255;comment:主页背景对象名" json:"-"`
	Password     string    `gorm:"size:255;not null;comment:密码哈希" json:"-"`
	RefreshToken *string   `gorm:"size:1024;comment:当前有效的刷新令牌" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime;comment:创建时间" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// WatchHistory 观看记录，按 ID 递增即追加顺序，同一视频可重复出现
type WatchHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_watch_histories_user_id;comment:观看用户ID" json:"userId"`
	VideoID   int64     `gorm:"not null;comment:视频ID" json:"videoId"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (WatchHistory) TableName() string {
	return "watch_histories"
}
