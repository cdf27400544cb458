package model

import "time"

// Playlist 播放列表，同一用户下名称唯一
type Playlist struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:播放列表ID" json:"id"`
	OwnerID     int64     `gorm:"not null;uniqueIndex:uq_playlists_owner_name;comment:所有者ID" json:"ownerId"`
	Name        string    `gorm:"size:200;not null;uniqueIndex:uq_playlists_owner_name;comment:名称" json:"name"`
	Description string    `gorm:"type:text;comment:描述" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:创建时间" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updatedAt"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistVideo 播放列表中的视频，按 Position 排序
type PlaylistVideo struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlaylistID int64     `gorm:"not null;uniqueIndex:uq_playlist_videos_pair;comment:播放列表ID" json:"playlistId"`
	VideoID    int64     `gorm:"not null;uniqueIndex:uq_playlist_videos_pair;comment:视频ID" json:"videoId"`
	Position   int64     `gorm:"not null;default:0;comment:排序位置" json:"position"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (PlaylistVideo) TableName() string {
	return "playlist_videos"
}
