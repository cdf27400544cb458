package repository

import (
	"context"

	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *CommentRepository) GetByIDWithOwner(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.WithContext(ctx).Preload("Owner").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Exists 评论是否存在
func (r *CommentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// UpdateContent 评论已被删除时返回 gorm.ErrRecordNotFound
func (r *CommentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	result := r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除评论及其点赞
func (r *CommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ListByVideo 视频评论，最新的在前
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID int64, p pagination.Params) ([]model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).Where("video_id = ?", videoID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	comments := make([]model.Comment, 0)
	err := query.Preload("Owner").
		Order("created_at DESC").Order("id DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
