package model

import "time"

// Subscription 订阅边，允许订阅自己
type Subscription struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;comment:订阅记录ID" json:"id"`
	SubscriberID int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair;comment:订阅者ID" json:"subscriberId"`
	ChannelID    int64     `gorm:"not null;uniqueIndex:uq_subscriptions_pair;index:idx_subscriptions_channel_id;comment:频道用户ID" json:"channelId"`
	CreatedAt    time.Time `gorm:"autoCreateTime;comment:订阅时间" json:"createdAt"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
