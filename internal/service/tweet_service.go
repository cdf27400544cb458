package service

import (
	"context"
	"strings"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
)

var ErrTweetNoPermission = errcode.Forbidden("没有权限操作该动态")

type TweetService struct {
	tweetRepo *repository.TweetRepository
	videoRepo *repository.VideoRepository
	userRepo  *repository.UserRepository
}

func NewTweetService(tweetRepo *repository.TweetRepository, videoRepo *repository.VideoRepository, userRepo *repository.UserRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo, videoRepo: videoRepo, userRepo: userRepo}
}

// Create 发布动态，可选关联一个已存在的视频
func (s *TweetService) Create(ctx context.Context, actorID int64, req *dto.CreateTweetRequest) (*dto.TweetInfo, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrContentRequired
	}

	tweet := &model.Tweet{OwnerID: actorID, Content: content}
	if req.VideoID.Set && !req.VideoID.Cleared() {
		if err := s.requireVideo(ctx, req.VideoID.Value); err != nil {
			return nil, err
		}
		videoID := req.VideoID.Value
		tweet.VideoID = &videoID
	}

	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, errcode.Internal(err)
	}
	return toTweetInfo(tweet), nil
}

// ListByUser 用户的动态
func (s *TweetService) ListByUser(ctx context.Context, userID int64, q *dto.ListQuery) (*pagination.Page[dto.TweetInfo], error) {
	p, err := pagination.Parse(pagination.Query{
		Page: q.Page, Limit: q.Limit, SortBy: q.SortBy, SortOrder: q.SortOrder,
	}, pagination.TweetSort)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	tweets, total, err := s.tweetRepo.ListByOwner(ctx, userID, p)
	if err != nil {
		return nil, errcode.Internal(err)
	}

	items := make([]dto.TweetInfo, 0, len(tweets))
	for i := range tweets {
		items = append(items, *toTweetInfo(&tweets[i]))
	}
	return pagination.NewPage(items, p, total), nil
}

// Update 修改内容或关联视频；videoId 为 null 或 "" 时解除关联
func (s *TweetService) Update(ctx context.Context, actorID, tweetID int64, req *dto.UpdateTweetRequest) (*dto.TweetInfo, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return nil, lookupErr(err, ErrTweetNotFound)
	}
	if err := authorize(tweet.OwnerID, actorID, ErrTweetNoPermission); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			return nil, ErrContentRequired
		}
		updates["content"] = content
	}
	if req.VideoID.Set {
		if req.VideoID.Cleared() {
			updates["video_id"] = nil
		} else {
			updates["video_id"] = req.VideoID.Value
		}
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if req.VideoID.Set && !req.VideoID.Cleared() {
		if err := s.requireVideo(ctx, req.VideoID.Value); err != nil {
			return nil, err
		}
	}

	updated, err := s.tweetRepo.Update(ctx, tweetID, updates)
	if err != nil {
		return nil, lookupErr(err, ErrTweetNotFound)
	}
	return toTweetInfo(updated), nil
}

// Delete 删除动态及其点赞
func (s *TweetService) Delete(ctx context.Context, actorID, tweetID int64) error {
	tweet, err := s.tweetRepo.GetByID(ctx, tweetID)
	if err != nil {
		return lookupErr(err, ErrTweetNotFound)
	}
	if err := authorize(tweet.OwnerID, actorID, ErrTweetNoPermission); err != nil {
		return err
	}

	if _, err := s.tweetRepo.Delete(ctx, tweetID); err != nil {
		return errcode.Internal(err)
	}
	return nil
}

func (s *TweetService) requireVideo(ctx context.Context, videoID int64) error {
	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return errcode.Internal(err)
	}
	if !exists {
		return ErrVideoNotFound
	}
	return nil
}

func toTweetInfo(t *model.Tweet) *dto.TweetInfo {
	return &dto.TweetInfo{
		ID:        t.ID,
		Content:   t.Content,
		VideoID:   t.VideoID,
		OwnerID:   t.OwnerID,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
