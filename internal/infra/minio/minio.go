package minio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"vidtube-go/internal/config"
	"vidtube-go/pkg/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// 媒体类型，同时作为对象名前缀
const (
	KindVideo     = "videos"
	KindThumbnail = "thumbnails"
	KindAvatar    = "avatars"
	KindCover     = "covers"
)

// Object 已上传的媒体对象
type Object struct {
	Name string
	URL  string
}

// Storage 基于 MinIO 的媒体存储，所有对象放在同一个公开读的桶中
type Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// Init 创建客户端，确保桶存在且公开可读
func Init(cfg *config.MinIOConfig) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("MinIO bucket created", zap.String("bucket", cfg.Bucket))
	}

	// 前端直接通过 URL 播放视频、展示图片
	policy := fmt.Sprintf(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`, cfg.Bucket)
	if err := client.SetBucketPolicy(ctx, cfg.Bucket, policy); err != nil {
		return nil, fmt.Errorf("failed to set public policy for %s: %w", cfg.Bucket, err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = PublicBaseURL(cfg.Endpoint, cfg.UseSSL)
	}

	logger.Info("MinIO connected",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.Bucket),
	)

	return &Storage{client: client, bucket: cfg.Bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload 上传本地文件，返回对象名与公开地址
func (s *Storage) Upload(ctx context.Context, localPath, kind string) (*Object, error) {
	name := ObjectName(kind, localPath, time.Now())
	_, err := s.client.FPutObject(ctx, s.bucket, name, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s to minio: %w", name, err)
	}

	logger.Debug("Media uploaded", zap.String("object", name))

	return &Object{Name: name, URL: s.URL(name)}, nil
}

// Remove 删除对象，对象不存在时也返回 nil
func (s *Storage) Remove(ctx context.Context, objectName string) error {
	if objectName == "" {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s from minio: %w", objectName, err)
	}
	return nil
}

// Download 将对象下载到本地路径，供探测任务使用
func (s *Storage) Download(ctx context.Context, objectName, localPath string) error {
	if err := s.client.FGetObject(ctx, s.bucket, objectName, localPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to download %s: %w", objectName, err)
	}
	return nil
}

// URL 对象的公开访问地址
func (s *Storage) URL(objectName string) string {
	return s.baseURL + "/" + s.bucket + "/" + objectName
}

// PublicBaseURL 由 endpoint 推出访问前缀
func PublicBaseURL(endpoint string, useSSL bool) string {
	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, endpoint)
}

// ObjectName 形如 videos/2025/01/<uuid>.mp4
func ObjectName(kind, localPath string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return fmt.Sprintf("%s/%s/%s%s", kind, now.Format("2006/01"), uuid.NewString(), ext)
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".mkv":
		return "video/x-matroska"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
