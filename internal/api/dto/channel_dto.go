package dto

import "time"

// ChannelProfile 频道主页
type ChannelProfile struct {
	FullName                  string `json:"fullName"`
	Username                  string `json:"username"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
	Email                     string `json:"email"`
}

// OwnerBrief 列表中嵌套的作者信息
type OwnerBrief struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// HistoryItem 观看记录中的视频
type HistoryItem struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	VideoFile   string     `json:"videoFile"`
	Thumbnail   string     `json:"thumbnail"`
	Duration    float64    `json:"duration"`
	Views       int64      `json:"views"`
	IsPublished bool       `json:"isPublished"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Owner       OwnerBrief `json:"owner"`
}

// SubscriptionToggleResult 切换后的订阅状态
type SubscriptionToggleResult struct {
	Subscribed bool `json:"subscribed"`
}

// ChannelBrief 订阅列表中的用户
type ChannelBrief struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}
