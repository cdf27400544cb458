package repository

import (
	"context"
	"strings"
	"time"

	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"

	"gorm.io/gorm"
)

// VideoFilter 视频列表筛选条件
type VideoFilter struct {
	Query         string
	OwnerID       int64
	PublishedOnly bool
}

// VideoWithCounts 频道管理页的视频及互动计数
type VideoWithCounts struct {
	model.Video
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
}

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// GetByID 根据 ID 获取视频
func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDWithOwner 根据 ID 获取视频（含作者信息）
func (r *VideoRepository) GetByIDWithOwner(ctx context.Context, id int64) (*model.Video, error) {
	var video model.Video
	if err := r.db.WithContext(ctx).Preload("Owner").First(&video, id).Error; err != nil {
		return nil, err
	}
	return &video, nil
}

// GetByIDsWithOwner 按传入 ID 的顺序返回，不存在的 ID 被跳过
func (r *VideoRepository) GetByIDsWithOwner(ctx context.Context, ids []int64) ([]model.Video, error) {
	if len(ids) == 0 {
		return []model.Video{}, nil
	}

	var found []model.Video
	if err := r.db.WithContext(ctx).Preload("Owner").Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Video, len(found))
	for _, v := range found {
		byID[v.ID] = v
	}
	ordered := make([]model.Video, 0, len(found))
	for _, id := range ids {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, v)
		}
	}
	return ordered, nil
}

// Exists 视频是否存在
func (r *VideoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 创建视频记录
func (r *VideoRepository) Create(ctx context.Context, video *model.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

// Update 更新视频字段，视频不存在返回 gorm.ErrRecordNotFound
func (r *VideoRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.Video, error) {
	result := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByIDWithOwner(ctx, id)
}

// Delete 硬删除视频及其评论、点赞（含评论上的点赞）。
// 观看记录与播放列表条目保留，读取时过滤。
func (r *VideoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("video_id = ?", id)
		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("video_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Video{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// IncrementViews 播放量 +1
func (r *VideoRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// SetDuration 探测完成后回填时长
func (r *VideoRepository) SetDuration(ctx context.Context, id int64, duration float64) error {
	result := r.db.WithContext(ctx).Model(&model.Video{}).Where("id = ?", id).
		UpdateColumn("duration", duration)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List 数据库检索，ES 不可用时使用
func (r *VideoRepository) List(ctx context.Context, f VideoFilter, p pagination.Params) ([]model.Video, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Video{})

	if f.PublishedOnly {
		query = query.Where("videos.is_published = ?", true)
	}
	if f.OwnerID > 0 {
		query = query.Where("videos.owner_id = ?", f.OwnerID)
	}
	if kw := strings.TrimSpace(f.Query); kw != "" {
		// LOWER + LIKE 在 PostgreSQL 与 SQLite 上行为一致
		pattern := "%" + strings.ToLower(kw) + "%"
		query = query.Where("LOWER(videos.title) LIKE ? OR LOWER(videos.description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	videos := make([]model.Video, 0)
	err := query.Preload("Owner").
		Order(p.OrderClause()).Order("videos.id DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&videos).Error
	if err != nil {
		return nil, 0, err
	}
	return videos, total, nil
}

// ListByOwnerWithCounts 作者自己的视频（含未公开），附带点赞数和评论数
func (r *VideoRepository) ListByOwnerWithCounts(ctx context.Context, ownerID int64, p pagination.Params) ([]VideoWithCounts, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Video{}).Where("videos.owner_id = ?", ownerID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := make([]VideoWithCounts, 0)
	err := base.
		Select(`videos.*,
			(SELECT COUNT(*) FROM likes WHERE likes.video_id = videos.id) AS likes_count,
			(SELECT COUNT(*) FROM comments WHERE comments.video_id = videos.id) AS comments_count`).
		Order(p.OrderClause()).Order("videos.id DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ChannelStats 频道统计原始数据
type ChannelStats struct {
	TotalVideos  int64
	TotalViews   int64
	TotalLikes   int64
	RecentVideos int64
	RecentViews  int64
}

// GetChannelStats since 之后创建的视频计入 Recent*
func (r *VideoRepository) GetChannelStats(ctx context.Context, ownerID int64, since time.Time) (*ChannelStats, error) {
	var stats ChannelStats
	db := r.db.WithContext(ctx)

	err := db.Model(&model.Video{}).
		Select(`COUNT(*) AS total_videos,
			COALESCE(SUM(views), 0) AS total_views,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS recent_videos,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN views ELSE 0 END), 0) AS recent_views`, since, since).
		Where("owner_id = ?", ownerID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&model.Like{}).
		Joins("JOIN videos ON videos.id = likes.video_id").
		Where("videos.owner_id = ?", ownerID).
		Count(&stats.TotalLikes).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetMostViewed 播放量最高的视频，没有视频时返回 gorm.ErrRecordNotFound
func (r *VideoRepository) GetMostViewed(ctx context.Context, ownerID int64) (*model.Video, error) {
	var video model.Video
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("views DESC").Order("id ASC").
		First(&video).Error
	if err != nil {
		return nil, err
	}
	return &video, nil
}
