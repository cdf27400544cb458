package model

import "time"

// Like 点赞边，VideoID/CommentID/TweetID 有且只有一个非空。
// 每种目标各有一个 (liked_by, target) 唯一索引，NULL 互不冲突。
type Like struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:点赞记录ID" json:"id"`
	LikedBy   int64     `gorm:"not null;uniqueIndex:uq_likes_user_video;uniqueIndex:uq_likes_user_comment;uniqueIndex:uq_likes_user_tweet;comment:点赞用户ID" json:"likedBy"`
	VideoID   *int64    `gorm:"uniqueIndex:uq_likes_user_video;index:idx_likes_video_id;comment:被点赞视频ID" json:"videoId,omitempty"`
	CommentID *int64    `gorm:"uniqueIndex:uq_likes_user_comment;index:idx_likes_comment_id;comment:被点赞评论ID" json:"commentId,omitempty"`
	TweetID   *int64    `gorm:"uniqueIndex:uq_likes_user_tweet;index:idx_likes_tweet_id;comment:被点赞动态ID" json:"tweetId,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_likes_created_at;comment:点赞时间" json:"createdAt"`
}

func (Like) TableName() string {
	return "likes"
}
