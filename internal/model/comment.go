package model

import "time"

// Comment 视频评论
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	VideoID   int64     `gorm:"not null;index:idx_comments_video_id;comment:视频ID" json:"videoId"`
	OwnerID   int64     `gorm:"not null;index:idx_comments_owner_id;comment:评论者ID" json:"ownerId"`
	Content   string    `gorm:"type:text;not null;comment:评论内容" json:"content"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comments_created_at;comment:创建时间" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`

	Owner *User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
