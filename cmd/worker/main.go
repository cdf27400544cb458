package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"vidtube-go/internal/config"
	infraKafka "vidtube-go/internal/infra/kafka"
	infraMinio "vidtube-go/internal/infra/minio"
	"vidtube-go/internal/probe"
	"vidtube-go/pkg/logger"

	"go.uber.org/zap"
)

const groupID = "vidtube-probe-worker"

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	storage, err := infraMinio.Init(&cfg.MinIO)
	if err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	producer := infraKafka.NewProducer(&cfg.Kafka)
	defer producer.Close()

	// 监听系统信号，优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	topic := cfg.Kafka.Topic(infraKafka.TopicMediaProbe)
	logger.Info("Probe worker started",
		zap.String("topic", topic),
		zap.String("group", groupID),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	worker := probe.NewWorker(storage, producer, filepath.Join(cfg.Upload.TempDir, "probe"))
	reader := infraKafka.NewReader(cfg.Kafka.Brokers, topic, groupID)
	infraKafka.Consume(ctx, reader, worker.Handle)
}
