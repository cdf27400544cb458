package repository

import (
	"context"
	"strings"
	"time"

	"vidtube-go/internal/model"

	"gorm.io/gorm"
)

// ChannelProfileRow 频道主页聚合结果
type ChannelProfileRow struct {
	ID                        int64
	FullName                  string
	Username                  string
	Email                     string
	Avatar                    string
	CoverImage                string
	SubscribersCount          int64
	ChannelsSubscribedToCount int64
	IsSubscribed              int64
}

// HistoryRow 观看记录中的一个视频及其作者
type HistoryRow struct {
	ID            int64
	Title         string
	Description   string
	VideoFile     string
	Thumbnail     string
	Duration      float64
	Views         int64
	IsPublished   bool
	OwnerID       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OwnerFullName string
	OwnerUsername string
	OwnerAvatar   string
}

// 订阅者计数、被订阅计数与当前用户是否订阅在同一条语句中算出，
// 三个值来自同一个快照。
const channelProfileSQL = `
SELECT u.id, u.full_name, u.username, u.email, u.avatar, u.cover_image,
	COUNT(DISTINCT subscribers.id) AS subscribers_count,
	COUNT(DISTINCT subscribed_to.id) AS channels_subscribed_to_count,
	MAX(CASE WHEN subscribers.subscriber_id = ? THEN 1 ELSE 0 END) AS is_subscribed
FROM users u
LEFT JOIN subscriptions subscribers ON subscribers.channel_id = u.id
LEFT JOIN subscriptions subscribed_to ON subscribed_to.subscriber_id = u.id
WHERE LOWER(u.username) = ?
GROUP BY u.id, u.full_name, u.username, u.email, u.avatar, u.cover_image`

// 内连接会丢弃已删除的视频，其余条目保持追加顺序
const watchHistorySQL = `
SELECT v.id, v.title, v.description, v.video_file, v.thumbnail, v.duration, v.views,
	v.is_published, v.owner_id, v.created_at, v.updated_at,
	o.full_name AS owner_full_name, o.username AS owner_username, o.avatar AS owner_avatar
FROM watch_histories wh
JOIN videos v ON v.id = wh.video_id
JOIN users o ON o.id = v.owner_id
WHERE wh.user_id = ?
ORDER BY wh.id ASC`

// ChannelRepository 社交图谱查询：频道主页与观看记录
type ChannelRepository struct {
	db *gorm.DB
}

func NewChannelRepository(db *gorm.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// GetProfile actorID 为 0 表示未登录，此时 IsSubscribed 恒为 0
func (r *ChannelRepository) GetProfile(ctx context.Context, actorID int64, username string) (*ChannelProfileRow, error) {
	var row ChannelProfileRow
	result := r.db.WithContext(ctx).
		Raw(channelProfileSQL, actorID, strings.ToLower(username)).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

// GetWatchHistory 返回非 nil 切片
func (r *ChannelRepository) GetWatchHistory(ctx context.Context, userID int64) ([]HistoryRow, error) {
	rows := make([]HistoryRow, 0)
	if err := r.db.WithContext(ctx).Raw(watchHistorySQL, userID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AppendHistory 追加一条观看记录，允许重复
func (r *ChannelRepository) AppendHistory(ctx context.Context, userID, videoID int64) error {
	return r.db.WithContext(ctx).Create(&model.WatchHistory{UserID: userID, VideoID: videoID}).Error
}
