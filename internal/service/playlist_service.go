package service

import (
	"context"
	"errors"
	"strings"

	"vidtube-go/internal/api/dto"
	"vidtube-go/internal/model"
	"vidtube-go/internal/pagination"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"

	"gorm.io/gorm"
)

var (
	ErrPlaylistNotFound       = errcode.NotFound("播放列表不存在")
	ErrPlaylistNoPermission   = errcode.Forbidden("没有权限操作该播放列表")
	ErrPlaylistNameRequired   = errcode.BadRequest("播放列表名称不能为空")
	ErrPlaylistNameTaken      = errcode.Conflict("已存在同名播放列表")
	ErrVideoAlreadyInPlaylist = errcode.Conflict("视频已在播放列表中")
	ErrVideoNotInPlaylist     = errcode.NotFound("视频不在播放列表中")
)

type PlaylistService struct {
	playlistRepo *repository.PlaylistRepository
	videoRepo    *repository.VideoRepository
	userRepo     *repository.UserRepository
}

func NewPlaylistService(playlistRepo *repository.PlaylistRepository, videoRepo *repository.VideoRepository, userRepo *repository.UserRepository) *PlaylistService {
	return &PlaylistService{playlistRepo: playlistRepo, videoRepo: videoRepo, userRepo: userRepo}
}

// Create 创建播放列表，同一用户下名称唯一
func (s *PlaylistService) Create(ctx context.Context, actorID int64, req *dto.CreatePlaylistRequest) (*dto.PlaylistInfo, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPlaylistNameRequired
	}

	taken, err := s.playlistRepo.NameTaken(ctx, actorID, name, 0)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if taken {
		return nil, ErrPlaylistNameTaken
	}

	playlist := &model.Playlist{
		OwnerID:     actorID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.playlistRepo.Create(ctx, playlist); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPlaylistNameTaken
		}
		return nil, errcode.Internal(err)
	}
	return toPlaylistInfo(playlist), nil
}

// Get 播放列表详情，视频按加入顺序排列
func (s *PlaylistService) Get(ctx context.Context, playlistID int64) (*dto.PlaylistDetail, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, lookupErr(err, ErrPlaylistNotFound)
	}
	return s.withVideos(ctx, playlist)
}

// Update 重命名或修改描述（仅所有者）
func (s *PlaylistService) Update(ctx context.Context, actorID, playlistID int64, req *dto.UpdatePlaylistRequest) (*dto.PlaylistInfo, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, lookupErr(err, ErrPlaylistNotFound)
	}
	if err := authorize(playlist.OwnerID, actorID, ErrPlaylistNoPermission); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	name := ""
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrPlaylistNameRequired
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	if name != "" {
		taken, err := s.playlistRepo.NameTaken(ctx, actorID, name, playlistID)
		if err != nil {
			return nil, errcode.Internal(err)
		}
		if taken {
			return nil, ErrPlaylistNameTaken
		}
	}

	updated, err := s.playlistRepo.Update(ctx, playlistID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPlaylistNameTaken
		}
		return nil, lookupErr(err, ErrPlaylistNotFound)
	}
	return toPlaylistInfo(updated), nil
}

// Delete 删除播放列表（仅所有者）
func (s *PlaylistService) Delete(ctx context.Context, actorID, playlistID int64) error {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return lookupErr(err, ErrPlaylistNotFound)
	}
	if err := authorize(playlist.OwnerID, actorID, ErrPlaylistNoPermission); err != nil {
		return err
	}

	if _, err := s.playlistRepo.Delete(ctx, playlistID); err != nil {
		return errcode.Internal(err)
	}
	return nil
}

// AddVideo 把视频追加到播放列表末尾，重复添加返回冲突
func (s *PlaylistService) AddVideo(ctx context.Context, actorID, videoID, playlistID int64) (*dto.PlaylistDetail, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, lookupErr(err, ErrPlaylistNotFound)
	}
	if err := authorize(playlist.OwnerID, actorID, ErrPlaylistNoPermission); err != nil {
		return nil, err
	}

	exists, err := s.videoRepo.Exists(ctx, videoID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if !exists {
		return nil, ErrVideoNotFound
	}

	present, err := s.playlistRepo.HasVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if present {
		return nil, ErrVideoAlreadyInPlaylist
	}

	if err := s.playlistRepo.AppendVideo(ctx, playlistID, videoID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrVideoAlreadyInPlaylist
		}
		return nil, errcode.Internal(err)
	}
	return s.withVideos(ctx, playlist)
}

// RemoveVideo 从播放列表移除视频，不在列表中返回 404
func (s *PlaylistService) RemoveVideo(ctx context.Context, actorID, videoID, playlistID int64) (*dto.PlaylistDetail, error) {
	playlist, err := s.playlistRepo.GetByID(ctx, playlistID)
	if err != nil {
		return nil, lookupErr(err, ErrPlaylistNotFound)
	}
	if err := authorize(playlist.OwnerID, actorID, ErrPlaylistNoPermission); err != nil {
		return nil, err
	}

	removed, err := s.playlistRepo.RemoveVideo(ctx, playlistID, videoID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	if !removed {
		return nil, ErrVideoNotInPlaylist
	}
	return s.withVideos(ctx, playlist)
}

// ListByUser 用户的播放列表（不含视频）
func (s *PlaylistService) ListByUser(ctx context.Context, userID int64, q *dto.ListQuery) (*pagination.Page[dto.PlaylistInfo], error) {
	p, err := pagination.Parse(pagination.Query{
		Page: q.Page, Limit: q.Limit, SortBy: q.SortBy, SortOrder: q.SortOrder,
	}, pagination.PlaylistSort)
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

	playlists, total, err := s.playlistRepo.ListByOwner(ctx, userID, p)
	if err != nil {
		return nil, errcode.Internal(err)
	}

	items := make([]dto.PlaylistInfo, 0, len(playlists))
	for i := range playlists {
		items = append(items, *toPlaylistInfo(&playlists[i]))
	}
	return pagination.NewPage(items, p, total), nil
}

func (s *PlaylistService) withVideos(ctx context.Context, playlist *model.Playlist) (*dto.PlaylistDetail, error) {
	videos, err := s.playlistRepo.ListVideos(ctx, playlist.ID)
	if err != nil {
		return nil, errcode.Internal(err)
	}
	return &dto.PlaylistDetail{PlaylistInfo: *toPlaylistInfo(playlist), Videos: toVideoInfos(videos)}, nil
}

func toPlaylistInfo(p *model.Playlist) *dto.PlaylistInfo {
	return &dto.PlaylistInfo{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
