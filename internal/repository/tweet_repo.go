package repository

import (
	"context"

	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"

	"gorm.io/gorm"
)

type TweetRepository struct {
	db *gorm.DB
}

func NewTweetRepository(db *gorm.DB) *TweetRepository {
	return &TweetRepository{db: db}
}

func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) error {
	return r.db.WithContext(ctx).Create(tweet).Error
}

func (r *TweetRepository) GetByID(ctx context.Context, id int64) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := r.db.WithContext(ctx).First(&tweet, id).Error; err != nil {
		return nil, err
	}
	return &tweet, nil
}

// Exists 动态是否存在
func (r *TweetRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Update 传入 map 以便把 video_id 置空
func (r *TweetRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.Tweet, error) {
	result := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete 删除动态及其点赞
func (r *TweetRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tweet_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Tweet{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ListByOwner 用户的动态列表
func (r *TweetRepository) ListByOwner(ctx context.Context, ownerID int64, p pagination.Params) ([]model.Tweet, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Tweet{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tweets := make([]model.Tweet, 0)
	err := query.Order(p.OrderClause()).Order("tweets.id DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&tweets).Error
	if err != nil {
		return nil, 0, err
	}
	return tweets, total, nil
}
