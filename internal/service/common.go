package service

import (
	"context"
	"errors"
	"os"

	"vidtube-go/internal/api/dto"
	infraES "vidtube-go/internal/infra/elasticsearch"
	infraKafka "vidtube-go/internal/infra/kafka"
	infraMinio "vidtube-go/internal/infra/minio"
	"vidtube-go/internal/metrics"
	"vidtube-go/internal/model"
	"vidtube-go/internal/repository"
	"vidtube-go/pkg/errcode"
	"vidtube-go/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrNoFieldsToUpdate = errcode.BadRequest("没有需要更新的字段")
	ErrContentRequired  = errcode.BadRequest("内容不能为空")
	ErrUserNotFound     = errcode.NotFound("用户不存在")
	ErrMediaUpload      = errcode.Upstream("媒体文件上传失败", nil)
	ErrToggleConflict   = errcode.Conflict("操作过于频繁，请稍后重试")
)

// MediaStorage 媒体托管服务
type MediaStorage interface {
	Upload(ctx context.Context, localPath, kind string) (*infraMinio.Object, error)
	Remove(ctx context.Context, objectName string) error
}

// VideoIndexer 搜索索引的写入端
type VideoIndexer interface {
	Upsert(ctx context.Context, doc *infraES.VideoDoc) error
	Delete(ctx context.Context, videoID int64) error
}

// VideoSearcher 搜索索引的查询端
type VideoSearcher interface {
	Search(ctx context.Context, q infraES.VideoSearch) ([]int64, int64, error)
}

// ProbePublisher 投递媒体探测任务
// StatsInvalidator 频道统计缓存失效
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context, ownerID int64)
}

type ProbePublisher interface {
	PublishProbeTask(ctx context.Context, task *infraKafka.ProbeTask) error
}

// authorize 只有资源所有者可以修改资源
func authorize(ownerID, actorID int64, denied *errcode.AppError) error {
	if ownerID != actorID {
		return denied
	}
	return nil
}

// lookupErr 把"记录不存在"映射为业务哨兵，其余错误视为内部错误
func lookupErr(err error, notFound *errcode.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return errcode.Internal(err)
}

// toggleErr 切换引擎重试耗尽时返回冲突
func toggleErr(err error) error {
	if errors.Is(err, repository.ErrToggleContention) {
		return ErrToggleConflict
	}
	return errcode.Internal(err)
}

func recordToggle(kind string, on bool) {
	metrics.RecordToggle(kind, on)
}

// mediaFile 一次待上传的本地文件
type mediaFile struct {
	path string
	kind string
}

// uploadAll 并发上传同一操作中的多个文件。任何一个失败时，
// 已经成功的兄弟文件会被删除，调用方不会拿到半成品。
// 返回的切片与 files 一一对应。
func uploadAll(ctx context.Context, storage MediaStorage, files ...mediaFile) ([]*infraMinio.Object, error) {
	objects := make([]*infraMinio.Object, len(files))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			obj, err := storage.Upload(gctx, f.path, f.kind)
			if err != nil {
				metrics.MediaUploadsTotal.WithLabelValues(f.kind, "failed").Inc()
				return err
			}
			metrics.MediaUploadsTotal.WithLabelValues(f.kind, "ok").Inc()
			objects[i] = obj
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Media upload failed", zap.Error(err))
		removeObjects(ctx, storage, objects...)
		return nil, ErrMediaUpload.Wrap(err)
	}
	return objects, nil
}

// removeObjects 尽力删除远端对象，失败只记录日志
func removeObjects(ctx context.Context, storage MediaStorage, objects ...*infraMinio.Object) {
	ctx = context.WithoutCancel(ctx)
	for _, obj := range objects {
		if obj == nil || obj.Name == "" {
			continue
		}
		removeObject(ctx, storage, obj.Name)
	}
}

func removeObject(ctx context.Context, storage MediaStorage, name string) {
	if name == "" {
		return
	}
	if err := storage.Remove(context.WithoutCancel(ctx), name); err != nil {
		logger.Warn("Remove media object failed", zap.String("object", name), zap.Error(err))
	}
}

// removeLocal 删除请求落盘的临时文件，无论上传成功与否
func removeLocal(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Remove temp file failed", zap.String("path", p), zap.Error(err))
		}
	}
}

func toUserInfo(u *model.User) *dto.UserInfo {
	return &dto.UserInfo{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Avatar:     u.Avatar,
		CoverImage: u.CoverImage,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func toOwnerBrief(u *model.User) *dto.OwnerBrief {
	if u == nil {
		return nil
	}
	return &dto.OwnerBrief{FullName: u.FullName, Username: u.Username, Avatar: u.Avatar}
}

func toVideoInfo(v *model.Video) *dto.VideoInfo {
	return &dto.VideoInfo{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		OwnerID:     v.OwnerID,
		Owner:       toOwnerBrief(v.Owner),
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func toVideoInfos(videos []model.Video) []dto.VideoInfo {
	items := make([]dto.VideoInfo, 0, len(videos))
	for i := range videos {
		items = append(items, *toVideoInfo(&videos[i]))
	}
	return items
}

func toChannelBriefs(users []model.User) []dto.ChannelBrief {
	items := make([]dto.ChannelBrief, 0, len(users))
	for _, u := range users {
		items = append(items, dto.ChannelBrief{ID: u.ID, FullName: u.FullName, Username: u.Username, Avatar: u.Avatar})
	}
	return items
}
