package dto

import "time"

// PublishVideoForm 发布视频表单，videoFile 与 thumbnail 两个文件必传
type PublishVideoForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

// PublishVideoRequest 文件已落到本地临时目录
type PublishVideoRequest struct {
	PublishVideoForm
	VideoPath     string
	ThumbnailPath string
}

// UpdateVideoForm 更新视频，thumbnail 可以是新文件，也可以是现成的 URL
type UpdateVideoForm struct {
	Title        *string `form:"title" json:"title"`
	Description  *string `form:"description" json:"description"`
	ThumbnailURL *string `form:"thumbnail" json:"thumbnail"`
}

// UpdateVideoRequest 更新视频参数
type UpdateVideoRequest struct {
	UpdateVideoForm
	ThumbnailPath string
}

// VideoInfo 视频详情
type VideoInfo struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	VideoFile   string      `json:"videoFile"`
	Thumbnail   string      `json:"thumbnail"`
	Duration    float64     `json:"duration"`
	Views       int64       `json:"views"`
	IsPublished bool        `json:"isPublished"`
	OwnerID     int64       `json:"ownerId"`
	Owner       *OwnerBrief `json:"owner,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// VideoSearchQuery GET /videos 的查询参数，排序方向用 sortType
type VideoSearchQuery struct {
	Page     string `form:"page"`
	Limit    string `form:"limit"`
	Query    string `form:"query"`
	SortBy   string `form:"sortBy"`
	SortType string `form:"sortType"`
	UserID   string `form:"userId"`
}

// ListQuery 其余分页列表的查询参数
type ListQuery struct {
	Page      string `form:"page"`
	Limit     string `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

// ChannelVideo 频道管理页的视频
type ChannelVideo struct {
	VideoInfo
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

// ChannelStats 频道统计
type ChannelStats struct {
	TotalVideos      int64      `json:"totalVideos"`
	TotalViews       int64      `json:"totalViews"`
	TotalSubscribers int64      `json:"totalSubscribers"`
	TotalLikes       int64      `json:"totalLikes"`
	RecentVideos     int64      `json:"recentVideos"`
	RecentViews      int64      `json:"recentViews"`
	AverageViews     int64      `json:"averageViews"`
	MostViewedVideo  *VideoInfo `json:"mostViewedVideo"`
}
