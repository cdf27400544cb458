package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"vidtube-go/internal/api/dto"
	infraRedis "vidtube-go/internal/infra/redis"
	"vidtube-go/internal/pagination"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 近期统计窗口
const recentWindow = 30 * 24 * time.Hour

// StatsCache 频道统计缓存
type StatsCache interface {
	Get(ctx context.Context, key string, dst interface{}) error
	Set(ctx context.Context, key string, v interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// DashboardService 频道管理页
type DashboardService struct {
	videoRepo *repository.VideoRepository
	subRepo   *repository.SubscriptionRepository
	cache     StatsCache
	ttl       time.Duration
	now       func() time.Time
}

// NewDashboardService cache 为 nil 或 ttl 为 0 时每次都实时计算
func NewDashboardService(videoRepo *repository.VideoRepository, subRepo *repository.SubscriptionRepository, cache StatsCache, ttl time.Duration) *DashboardService {
	return &DashboardService{videoRepo: videoRepo, subRepo: subRepo, cache: cache, ttl: ttl, now: time.Now}
}

func statsCacheKey(ownerID int64) string {
	return "dashboard:stats:" + strconv.FormatInt(ownerID, 10)
}

// InvalidateStats 视频发布、删除或切换可见性后清掉旧统计
func (s *DashboardService) InvalidateStats(ctx context.Context, ownerID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, statsCacheKey(ownerID)); err != nil {
		logger.Warn("Invalidate dashboard cache failed", zap.Int64("owner_id", ownerID), zap.Error(err))
	}
}

// GetStats 频道统计，结果在 ttl 内缓存
func (s *DashboardService) GetStats(ctx context.Context, ownerID int64) (*dto.ChannelStats, error) {
	key := statsCacheKey(ownerID)
	if s.cache != nil && s.ttl > 0 {
		var cached dto.ChannelStats
		err := s.cache.Get(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, infraRedis.ErrCacheMiss) {
			logger.Warn("Read dashboard cache failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		}
	}

	stats, err := s.computeStats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
			logger.Warn("Write dashboard cache failed", zap.Int64("owner_id", ownerID), zap.Error(err))
		}
	}
	return stats, nil
}

func (s *DashboardService) computeStats(ctx context.Context, ownerID int64) (*dto.ChannelStats, error) {
	raw, err := s.videoRepo.GetChannelStats(ctx, ownerID, s.now().Add(-recentWindow))
	if err != nil {
		return nil, errcode.Internal(err)
	}
	subscribers, err := s.subRepo.CountSubscribers(ctx, ownerID)
	if err != nil {
		return nil, errcode.Internal(err)
	}

	stats := &dto.ChannelStats{
		TotalVideos:      raw.TotalVideos,
		TotalViews:       raw.TotalViews,
		TotalSubscribers: subscribers,
		TotalLikes:       raw.TotalLikes,
		RecentVideos:     raw.RecentVideos,
		RecentViews:      raw.RecentViews,
	}
	if raw.TotalVideos > 0 {
		stats.AverageViews = int64(math.Round(float64(raw.TotalViews) / float64(raw.TotalVideos)))
	}

	top, err := s.videoRepo.GetMostViewed(ctx, ownerID)
	switch {
	case err == nil:
		stats.MostViewedVideo = toVideoInfo(top)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errcode.Internal(err)
	}
	return stats, nil
}

// GetVideos 自己的全部视频（含未公开），附带点赞数和评论数
func (s *DashboardService) GetVideos(ctx context.Context, ownerID int64, q *dto.ListQuery) (*pagination.Page[dto.ChannelVideo], error) {
	p, err := pagination.Parse(pagination.Query{
		Page: q.Page, Limit: q.Limit, SortBy: q.SortBy, SortOrder: q.SortOrder,
	}, pagination.ChannelVideoSort)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.videoRepo.ListByOwnerWithCounts(ctx, ownerID, p)
	if err != nil {
		return nil, errcode.Internal(err)
	}

	items := make([]dto.ChannelVideo, 0, len(rows))
	for i := range rows {
		items = append(items, dto.ChannelVideo{
			VideoInfo:     *toVideoInfo(&rows[i].Video),
			LikesCount:    rows[i].LikesCount,
			CommentsCount: rows[i].CommentsCount,
		})
	}
	return pagination.NewPage(items, p, total), nil
}
