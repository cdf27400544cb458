package repository

import (
	"context"

	"vidtube-go/internal/model"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Toggle 返回切换后是否处于订阅状态
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	return toggleEdge(ctx, r.db, edge{
		model: &model.Subscription{},
		query: "subscriber_id = ? AND channel_id = ?",
		args:  []interface{}{subscriberID, channelID},
		build: func() interface{} {
			return &model.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
		},
	})
}

// Exists 是否已订阅
func (r *SubscriptionRepository) Exists(ctx context.Context, subscriberID, channelID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
		Count(&count).Error
	return count > 0, err
}

// ListSubscribers 频道的订阅者，最近订阅的在前
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID int64) ([]model.User, error) {
	users := make([]model.User, 0)
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN subscriptions ON subscriptions.subscriber_id = users.id").
		Where("subscriptions.channel_id = ?", channelID).
		Order("subscriptions.id DESC").
		Find(&users).Error
	return users, err
}

// ListSubscribedChannels 用户订阅的频道，最近订阅的在前
func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID int64) ([]model.User, error) {
	users := make([]model.User, 0)
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN subscriptions ON subscriptions.channel_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.id DESC").
		Find(&users).Error
	return users, err
}

// CountSubscribers 频道订阅者数
func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("channel_id = ?", channelID).Count(&count).Error
	return count, err
}
