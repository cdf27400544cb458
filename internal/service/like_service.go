package service

import (
	"context"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
)

var ErrTweetNotFound = errcode.NotFound("动态不存在")

// LikeService 视频、评论、动态三类点赞，各自独立切换
type LikeService struct {
	likeRepo    *repository.LikeRepository
	videoRepo   *repository.VideoRepository
	commentRepo *repository.CommentRepository
	tweetRepo   *repository.TweetRepository
}

func NewLikeService(
	likeRepo *repository.LikeRepository,
	videoRepo *repository.VideoRepository,
	commentRepo *repository.CommentRepository,
	tweetRepo *repository.TweetRepository,
) *LikeService {
	return &LikeService{likeRepo: likeRepo, videoRepo: videoRepo, commentRepo: commentRepo, tweetRepo: tweetRepo}
}

// ToggleVideoLike 点赞或取消点赞视频
func (s *LikeService) ToggleVideoLike(ctx context.Context, actorID, videoID int64) (*dto.LikeToggleResult, error) {
	return s.toggle(ctx, "video_like", ErrVideoNotFound,
		func() (bool, error) { return s.videoRepo.Exists(ctx, videoID) },
		func() (bool, error) { return s.likeRepo.ToggleVideo(ctx, actorID, videoID) },
	)
}

// ToggleCommentLike 点赞或取消点赞评论
func (s *LikeService) ToggleCommentLike(ctx context.Context, actorID, commentID int64) (*dto.LikeToggleResult, error) {
	return s.toggle(ctx, "comment_like", ErrCommentNotFound,
		func() (bool, error) { return s.commentRepo.Exists(ctx, commentID) },
		func() (bool, error) { return s.likeRepo.ToggleComment(ctx, actorID, commentID) },
	)
}

// ToggleTweetLike 点赞或取消点赞动态
func (s *LikeService) ToggleTweetLike(ctx context.Context, actorID, tweetID int64) (*dto.LikeToggleResult, error) {
	return s.toggle(ctx, "tweet_like", ErrTweetNotFound,
		func() (bool, error) { return s.tweetRepo.Exists(ctx, tweetID) },
		func() (bool, error) { return s.likeRepo.ToggleTweet(ctx, actorID, tweetID) },
	)
}

func (s *LikeService) toggle(
	ctx context.Context,
	kind string,
	notFound *errcode.AppError,
	exists func() (bool, error),
	flip func() (bool, error),
) (*dto.LikeToggleResult, error) {
	ok, err := exists()
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if !ok {
		return nil, notFound
	}

	liked, err := flip()
	if err != nil {
		return nil, toggleErr(err)
	}
	recordToggle(kind, liked)
	return &dto.LikeToggleResult{Liked: liked}, nil
}

// LikedVideos 当前用户点赞过的视频，最近点赞的在前
func (s *LikeService) LikedVideos(ctx context.Context, actorID int64) ([]dto.VideoInfo, error) {
	videos, err := s.likeRepo.ListLikedVideos(ctx, actorID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	return toVideoInfos(videos), nil
}
