package service

import (
	"context"
	"strconv"
	"strings"

	"vidtube-go/internal/api/dto"
	infraES "vidtube-go/internal/infra/elasticsearch"
	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/logger"

	"go.uber.org/zap"
)

var ErrInvalidUserID = errcode.BadRequest("无效的用户ID")

const reindexBatchSize = pagination.MaxLimit

type SearchService struct {
	videoRepo *repository.VideoRepository
	searcher  VideoSearcher
	indexer   VideoIndexer
}

// NewSearchService searcher 为 nil 时直接走数据库
func NewSearchService(videoRepo *repository.VideoRepository, searcher VideoSearcher, indexer VideoIndexer) *SearchService {
	return &SearchService{videoRepo: videoRepo, searcher: searcher, indexer: indexer}
}

// SearchVideos 检索已公开的视频（ES 优先，失败则降级到 DB）
func (s *SearchService) SearchVideos(ctx context.Context, q *dto.VideoSearchQuery) (*pagination.Page[dto.VideoInfo], error) {
	p, err := pagination.Parse(pagination.Query{
		Page:      q.Page,
		Limit:     q.Limit,
		SortBy:    q.SortBy,
		SortOrder: q.SortType,
	}, pagination.VideoSearchSort)
	if err != nil {
		return nil, err
	}

	var ownerID int64
	if raw := strings.TrimSpace(q.UserID); raw != "" {
		ownerID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || ownerID <= 0 {
			return nil, ErrInvalidUserID
		}
	}
	keyword := strings.TrimSpace(q.Query)

	if s.searcher != nil {
		page, err := s.searchFromES(ctx, keyword, ownerID, p)
		if err == nil {
			return page, nil
		}
		logger.Warn("ES search failed, fallback to DB", zap.Error(err))
	}

	videos, total, err := s.videoRepo.List(ctx, repository.VideoFilter{
		Query:         keyword,
		OwnerID:       ownerID,
		PublishedOnly: true,
	}, p)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	return pagination.NewPage(toVideoInfos(videos), p, total), nil
}

func (s *SearchService) searchFromES(ctx context.Context, keyword string, ownerID int64, p pagination.Params) (*pagination.Page[dto.VideoInfo], error) {
	ids, total, err := s.searcher.Search(ctx, infraES.VideoSearch{
		Query:     keyword,
		OwnerID:   ownerID,
		SortBy:    p.SortBy,
		SortOrder: p.SortOrder,
		From:      p.Offset(),
		Size:      p.Limit,
	})
	if err != nil {
		return nil, err
	}

	videos, err := s.videoRepo.GetByIDsWithOwner(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 索引可能短暂落后于数据库，以数据库的公开状态为准。
	// 本页丢弃的命中从 total 中扣除；其他页里的过期命中要等下次同步才会修正
	visible := make([]model.Video, 0, len(videos))
	for _, v := range videos {
		if v.IsPublished {
			visible = append(visible, v)
		}
	}
	total -= int64(len(ids) - len(visible))
	if floor := int64(p.Offset() + len(visible)); total < floor {
		total = floor
	}
	return pagination.NewPage(toVideoInfos(visible), p, total), nil
}

// Reindex 把所有视频重新写入索引，启动时在后台执行
func (s *SearchService) Reindex(ctx context.Context) (success, failed int, err error) {
	if s.indexer == nil {
		return 0, 0, nil
	}

	for page := 1; ; page++ {
		p, err := pagination.Parse(pagination.Query{
			Page:  strconv.Itoa(page),
			Limit: strconv.Itoa(reindexBatchSize),
		}, pagination.VideoSearchSort)
		if err != nil {
			return success, failed, err
		}

		videos, _, err := s.videoRepo.List(ctx, repository.VideoFilter{}, p)
		if err != nil {
			return success, failed, errcode.Internal(err)
		}
		for i := range videos {
			if err := s.indexer.Upsert(ctx, infraES.NewVideoDoc(&videos[i])); err != nil {
				failed++
				logger.Warn("Reindex video failed", zap.Int64("video_id", videos[i].ID), zap.Error(err))
				continue
			}
			success++
		}
		if len(videos) < reindexBatchSize {
			return success, failed, nil
		}
	}
}
