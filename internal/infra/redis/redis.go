package redis

import (
	"context"
	"fmt"
	"time"

	"vidtube-go/internal/config"
	"vidtube-go/pkg/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

var Client *redis.Client

// NewClient 按配置创建客户端，不做连通性检查
func NewClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  connectTimeout,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// Init 初始化全局客户端；统计缓存依赖它，连不上时启动失败
func Init(cfg *config.RedisConfig) error {
	Client = NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", cfg.Addr()),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)
	return nil
}

// Ping 供健康检查使用
func Ping(ctx context.Context) error {
	if Client == nil {
		return fmt.Errorf("redis not initialized")
	}
	return Client.Ping(ctx).Err()
}

func Close() error {
	if Client == nil {
		return nil
	}
	logger.Info("Redis connection closed")
	return Client.Close()
}

func Get() *redis.Client {
	return Client
}
