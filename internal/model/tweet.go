package model

import "time"

// Tweet 动态，可选关联一个视频
type Tweet struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:动态ID" json:"id"`
	OwnerID   int64     `gorm:"not null;index:idx_tweets_owner_id;comment:作者ID" json:"ownerId"`
	Content   string    `gorm:"type:text;not null;comment:内容" json:"content"`
	VideoID   *int64    `gorm:"comment:关联视频ID" json:"videoId"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:创建时间" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`
}

func (Tweet) TableName() string {
	return "tweets"
}
