package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

// ContentRequest 评论与动态的正文，空白校验在权限检查之后进行
type ContentRequest struct {
	Content string `json:"content"`
}

// CommentInfo 评论
type CommentInfo struct {
	ID        int64       `json:"id"`
	Content   string      `json:"content"`
	VideoID   int64       `json:"videoId"`
	OwnerID   int64       `json:"ownerId"`
	Owner     *OwnerBrief `json:"owner,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// LikeToggleResult 切换后的点赞状态
type LikeToggleResult struct {
	Liked bool `json:"liked"`
}

// OptionalID 可选的关联 ID：字段缺省表示不修改，null 或 "" 表示清空，
// 数字或数字字符串表示设置
type OptionalID struct {
	Set   bool
	Value int64
}

var errInvalidOptionalID = errors.New("videoId must be a positive integer, an empty string or null")

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		o.Value = 0
		return nil
	}

	raw := string(data)
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			o.Value = 0
			return nil
		}
		raw = s
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return errInvalidOptionalID
	}
	o.Value = n
	return nil
}

// Cleared 显式清空
func (o OptionalID) Cleared() bool {
	return o.Set && o.Value == 0
}

// CreateTweetRequest 发布动态
type CreateTweetRequest struct {
	Content string     `json:"content"`
	VideoID OptionalID `json:"videoId"`
}

// UpdateTweetRequest 更新动态，content 缺省表示不修改
type UpdateTweetRequest struct {
	Content *string    `json:"content"`
	VideoID OptionalID `json:"videoId"`
}

// TweetInfo 动态
type TweetInfo struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	VideoID   *int64    `json:"videoId"`
	OwnerID   int64     `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePlaylistRequest 创建播放列表
type CreatePlaylistRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdatePlaylistRequest 至少修改一个字段
type UpdatePlaylistRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PlaylistInfo 播放列表
type PlaylistInfo struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PlaylistDetail 播放列表及其视频，视频按加入顺序排列
type PlaylistDetail struct {
	PlaylistInfo
	Videos []VideoInfo `json:"videos"`
}
