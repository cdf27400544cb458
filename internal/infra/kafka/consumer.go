package kafka

import (
	"context"
	"encoding/json"
	"time"

	"vidtube-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageReader kafka.Reader 的最小子集
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// NewReader 创建消费组读取器
func NewReader(brokers []string, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})
}

// Consume 循环读取消息并解码为 T 后交给 handle，阻塞直到 ctx 取消。
// 解码失败或处理失败只记录日志，不阻塞后续消息。
func Consume[T any](ctx context.Context, reader messageReader, handle func(context.Context, *T) error) {
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Error("Failed to close kafka consumer", zap.Error(err))
		}
		logger.Info("Kafka consumer stopped")
	}()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("Failed to read kafka message", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var payload T
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			logger.Error("Failed to unmarshal kafka message",
				zap.String("topic", msg.Topic),
				zap.Error(err),
				zap.ByteString("value", msg.Value),
			)
			continue
		}

		if err := handle(ctx, &payload); err != nil {
			logger.Error("Failed to handle kafka message",
				zap.String("topic", msg.Topic),
				zap.ByteString("key", msg.Key),
				zap.Error(err),
			)
		}
	}
}
