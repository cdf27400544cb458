package service

import (
	"context"
	"errors"
	"strings"

	"vidtube-go/internal/api/dto"
	infraES "vidtube-go/internal/infra/elasticsearch"
	infraKafka "vidtube-go/internal/infra/kafka"
	infraMinio "vidtube-go/internal/infra/minio"
	"vidtube-go/internal/model"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrVideoNotFound      = errcode.NotFound("视频不存在")
	ErrVideoNoPermission  = errcode.Forbidden("没有权限操作该视频")
	ErrVideoFieldsMissing = errcode.BadRequest("标题和描述不能为空")
	ErrVideoFilesMissing  = errcode.BadRequest("视频文件和封面图必传")
	ErrTitleEmpty         = errcode.BadRequest("标题不能为空")
	ErrDescriptionEmpty   = errcode.BadRequest("描述不能为空")
)

type VideoService struct {
	videoRepo   *repository.VideoRepository
	channelRepo *repository.ChannelRepository
	storage     MediaStorage
	indexer     VideoIndexer
	probes      ProbePublisher
	stats       StatsInvalidator
}

// NewVideoService indexer、probes 与 stats 可以为 nil，对应的同步步骤会被跳过
func NewVideoService(
	videoRepo *repository.VideoRepository,
	channelRepo *repository.ChannelRepository,
	storage MediaStorage,
	indexer VideoIndexer,
	probes ProbePublisher,
	stats StatsInvalidator,
) *VideoService {
	return &VideoService{
		videoRepo:   videoRepo,
		channelRepo: channelRepo,
		storage:     storage,
		indexer:     indexer,
		probes:      probes,
		stats:       stats,
	}
}

// Publish 上传视频与封面后创建记录，随后异步探测时长
func (s *VideoService) Publish(ctx context.Context, ownerID int64, req *dto.PublishVideoRequest) (*dto.VideoInfo, error) {
	defer removeLocal(req.VideoPath, req.ThumbnailPath)

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return nil, ErrVideoFieldsMissing
	}
	if req.VideoPath == "" || req.ThumbnailPath == "" {
		return nil, ErrVideoFilesMissing
	}

	objects, err := uploadAll(ctx, s.storage,
		mediaFile{path: req.VideoPath, kind: infraMinio.KindVideo},
		mediaFile{path: req.ThumbnailPath, kind: infraMinio.KindThumbnail},
	)
	if err != nil {
		return nil, err
	}
	videoObj, thumbObj := objects[0], objects[1]

	video := &model.Video{
		OwnerID:         ownerID,
		Title:           title,
		Description:     description,
		VideoFile:       videoObj.URL,
		VideoObject:     videoObj.Name,
		Thumbnail:       thumbObj.URL,
		ThumbnailObject: thumbObj.Name,
		IsPublished:     true,
	}
	if err := s.videoRepo.Create(ctx, video); err != nil {
		removeObjects(ctx, s.storage, objects...)
		return nil, errcode.Internal(err)
	}

	s.syncIndex(ctx, video.ID)
	s.invalidateStats(ctx, ownerID)

	if s.probes != nil {
		task := &infraKafka.ProbeTask{VideoID: video.ID, ObjectName: video.VideoObject}
		if err := s.probes.PublishProbeTask(ctx, task); err != nil {
			logger.Warn("Publish probe task failed", zap.Int64("video_id", video.ID), zap.Error(err))
		}
	}

	logger.Info("Video published", zap.Int64("video_id", video.ID), zap.Int64("owner_id", ownerID))
	return toVideoInfo(video), nil
}

// Get 获取视频详情，播放量 +1；登录用户追加一条观看记录
func (s *VideoService) Get(ctx context.Context, actorID, videoID int64) (*dto.VideoInfo, error) {
	video, err := s.videoRepo.GetByIDWithOwner(ctx, videoID)
	if err != nil {
		return nil, lookupErr(err, ErrVideoNotFound)
	}

	if err := s.videoRepo.IncrementViews(ctx, videoID); err != nil {
		return nil, errcode.Internal(err)
	}
	video.Views++

	if actorID > 0 {
		if err := s.channelRepo.AppendHistory(ctx, actorID, videoID); err != nil {
			return nil, errcode.Internal(err)
		}
	}

	return toVideoInfo(video), nil
}

// Update 更新标题、描述或封面（新文件或现成 URL）
func (s *VideoService) Update(ctx context.Context, actorID, videoID int64, req *dto.UpdateVideoRequest) (*dto.VideoInfo, error) {
	defer removeLocal(req.ThumbnailPath)

	current, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, lookupErr(err, ErrVideoNotFound)
	}
	if err := authorize(current.OwnerID, actorID, ErrVideoNoPermission); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		updates["title"] = title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrDescriptionEmpty
		}
		updates["description"] = description
	}
	thumbnailURL := ""
	if req.ThumbnailURL != nil {
		thumbnailURL = strings.TrimSpace(*req.ThumbnailURL)
	}
	if req.ThumbnailPath == "" && thumbnailURL != "" {
		updates["thumbnail"] = thumbnailURL
		updates["thumbnail_object"] = ""
	}
	if len(updates) == 0 && req.ThumbnailPath == "" {
		return nil, ErrNoFieldsToUpdate
	}

	var uploaded *infraMinio.Object
	if req.ThumbnailPath != "" {
		objects, err := uploadAll(ctx, s.storage, mediaFile{path: req.ThumbnailPath, kind: infraMinio.KindThumbnail})
		if err != nil {
			return nil, err
		}
		uploaded = objects[0]
		updates["thumbnail"] = uploaded.URL
		updates["thumbnail_object"] = uploaded.Name
	}

	video, err := s.videoRepo.Update(ctx, videoID, updates)
	if err != nil {
		removeObjects(ctx, s.storage, uploaded)
		return nil, lookupErr(err, ErrVideoNotFound)
	}

	if _, replaced := updates["thumbnail_object"]; replaced {
		removeObject(ctx, s.storage, current.ThumbnailObject)
	}
	s.syncIndex(ctx, videoID)
	return toVideoInfo(video), nil
}

// Delete 删除视频及其评论、点赞和媒体文件；并发删除时视为成功
func (s *VideoService) Delete(ctx context.Context, actorID, videoID int64) error {
	current, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return lookupErr(err, ErrVideoNotFound)
	}
	if err := authorize(current.OwnerID, actorID, ErrVideoNoPermission); err != nil {
		return err
	}

	deleted, err := s.videoRepo.Delete(ctx, videoID)
	if err != nil {
		return errcode.Internal(err)
	}
	if !deleted {
		return nil
	}

	removeObject(ctx, s.storage, current.VideoObject)
	removeObject(ctx, s.storage, current.ThumbnailObject)
	s.invalidateStats(ctx, current.OwnerID)
	if s.indexer != nil {
		if err := s.indexer.Delete(ctx, videoID); err != nil {
			logger.Warn("Delete video from index failed", zap.Int64("video_id", videoID), zap.Error(err))
		}
	}
	return nil
}

// TogglePublish 切换公开状态
func (s *VideoService) TogglePublish(ctx context.Context, actorID, videoID int64) (*dto.VideoInfo, error) {
	current, err := s.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, lookupErr(err, ErrVideoNotFound)
	}
	if err := authorize(current.OwnerID, actorID, ErrVideoNoPermission); err != nil {
		return nil, err
	}

	video, err := s.videoRepo.Update(ctx, videoID, map[string]interface{}{"is_published": !current.IsPublished})
	if err != nil {
		return nil, lookupErr(err, ErrVideoNotFound)
	}

	s.syncIndex(ctx, videoID)
	s.invalidateStats(ctx, current.OwnerID)
	return toVideoInfo(video), nil
}

// HandleProbeResult 回填探测得到的时长，视频已被删除时忽略
func (s *VideoService) HandleProbeResult(ctx context.Context, result *infraKafka.ProbeResult) error {
	if result.Error != "" {
		logger.Warn("Media probe failed",
			zap.Int64("video_id", result.VideoID),
			zap.String("error", result.Error),
		)
		return nil
	}

	if err := s.videoRepo.SetDuration(ctx, result.VideoID, result.Duration); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Info("Probe result for deleted video ignored", zap.Int64("video_id", result.VideoID))
			return nil
		}
		return err
	}

	s.syncIndex(ctx, result.VideoID)
	logger.Info("Video duration updated",
		zap.Int64("video_id", result.VideoID),
		zap.Float64("duration", result.Duration),
	)
	return nil
}

func (s *VideoService) invalidateStats(ctx context.Context, ownerID int64) {
	if s.stats != nil {
		s.stats.InvalidateStats(ctx, ownerID)
	}
}

// syncIndex 把数据库中的最新状态写入搜索索引，失败只记录日志
func (s *VideoService) syncIndex(ctx context.Context, videoID int64) {
	if s.indexer == nil {
		return
	}
	video, err := s.videoRepo.GetByIDWithOwner(ctx, videoID)
	if err != nil {
		logger.Warn("Load video for indexing failed", zap.Int64("video_id", videoID), zap.Error(err))
		return
	}
	if err := s.indexer.Upsert(ctx, infraES.NewVideoDoc(video)); err != nil {
		logger.Warn("Sync video to index failed", zap.Int64("video_id", videoID), zap.Error(err))
	}
}
