package repository

import (
	"context"

	"vidtube-go/internal/model"

	"gorm.io/gorm"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// ToggleVideo 返回切换后是否处于点赞状态
func (r *LikeRepository) ToggleVideo(ctx context.Context, userID, videoID int64) (bool, error) {
	return r.toggle(ctx, userID, "video_id", videoID, func(l *model.Like) { l.VideoID = &videoID })
}

// ToggleComment 评论点赞切换
func (r *LikeRepository) ToggleComment(ctx context.Context, userID, commentID int64) (bool, error) {
	return r.toggle(ctx, userID, "comment_id", commentID, func(l *model.Like) { l.CommentID = &commentID })
}

// ToggleTweet 动态点赞切换
func (r *LikeRepository) ToggleTweet(ctx context.Context, userID, tweetID int64) (bool, error) {
	return r.toggle(ctx, userID, "tweet_id", tweetID, func(l *model.Like) { l.TweetID = &tweetID })
}

func (r *LikeRepository) toggle(ctx context.Context, userID int64, column string, targetID int64, setTarget func(*model.Like)) (bool, error) {
	return toggleEdge(ctx, r.db, edge{
		model: &model.Like{},
		query: "liked_by = ? AND " + column + " = ?",
		args:  []interface{}{userID, targetID},
		build: func() interface{} {
			like := &model.Like{LikedBy: userID}
			setTarget(like)
			return like
		},
	})
}

// ListLikedVideos 用户点赞过的视频（含作者），最近点赞的在前。
// 已删除的视频由内连接过滤。
func (r *LikeRepository) ListLikedVideos(ctx context.Context, userID int64) ([]model.Video, error) {
	videos := make([]model.Video, 0)
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Joins("JOIN likes ON likes.video_id = videos.id").
		Where("likes.liked_by = ?", userID).
		Order("likes.id DESC").
		Preload("Owner").
		Find(&videos).Error
	return videos, err
}

// CountVideoLikes 视频点赞数
func (r *LikeRepository) CountVideoLikes(ctx context.Context, videoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}
