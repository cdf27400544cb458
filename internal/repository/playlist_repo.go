package repository

import (
	"context"

	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"

	"gorm.io/gorm"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) Create(ctx context.Context, playlist *model.Playlist) error {
	return r.db.WithContext(ctx).Create(playlist).Error
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := r.db.WithContext(ctx).First(&playlist, id).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

// NameTaken 同一用户下是否已有同名播放列表，excludeID 用于重命名时排除自身
func (r *PlaylistRepository) NameTaken(ctx context.Context, ownerID int64, name string, excludeID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Playlist{}).
		Where("owner_id = ? AND name = ? AND id <> ?", ownerID, name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update 播放列表已被删除时返回 gorm.ErrRecordNotFound
func (r *PlaylistRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) (*model.Playlist, error) {
	result := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete 删除播放列表及其条目
func (r *PlaylistRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("playlist_id = ?", id).Delete(&model.PlaylistVideo{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Playlist{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	return deleted, err
}

// ListByOwner 用户的播放列表
func (r *PlaylistRepository) ListByOwner(ctx context.Context, ownerID int64, p pagination.Params) ([]model.Playlist, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Playlist{}).Where("owner_id = ?", ownerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	playlists := make([]model.Playlist, 0)
	err := query.Order(p.OrderClause()).Order("playlists.id DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&playlists).Error
	if err != nil {
		return nil, 0, err
	}
	return playlists, total, nil
}

// HasVideo 视频是否已在播放列表中
func (r *PlaylistRepository) HasVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PlaylistVideo{}).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Count(&count).Error
	return count > 0, err
}

// AppendVideo 追加到末尾；已存在时返回 gorm.ErrDuplicatedKey
func (r *PlaylistRepository) AppendVideo(ctx context.Context, playlistID, videoID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int64
		err := tx.Model(&model.PlaylistVideo{}).
			Where("playlist_id = ?", playlistID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error
		if err != nil {
			return err
		}
		return tx.Create(&model.PlaylistVideo{
			PlaylistID: playlistID,
			VideoID:    videoID,
			Position:   maxPos + 1,
		}).Error
	})
}

// RemoveVideo 返回是否确实删除了条目
func (r *PlaylistRepository) RemoveVideo(ctx context.Context, playlistID, videoID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("playlist_id = ? AND video_id = ?", playlistID, videoID).
		Delete(&model.PlaylistVideo{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListVideos 按加入顺序返回仍存在的视频（含作者）
func (r *PlaylistRepository) ListVideos(ctx context.Context, playlistID int64) ([]model.Video, error) {
	videos := make([]model.Video, 0)
	err := r.db.WithContext(ctx).Model(&model.Video{}).
		Joins("JOIN playlist_videos ON playlist_videos.video_id = videos.id").
		Where("playlist_videos.playlist_id = ?", playlistID).
		Order("playlist_videos.position ASC").
		Preload("Owner").
		Find(&videos).Error
	return videos, err
}
