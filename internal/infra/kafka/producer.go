package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vidtube-go/internal/config"
	"vidtube-go/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// 逻辑 topic 名，实际名称由配置映射
const (
	TopicMediaProbe  = "media_probe"
	TopicMediaProbed = "media_probed"
)

// ProbeTask 视频上传后请求探测媒体信息
type ProbeTask struct {
	VideoID    int64  `json:"video_id"`
	ObjectName string `json:"object_name"`
}

// ProbeResult 探测结果，Error 非空表示探测失败
type ProbeResult struct {
	VideoID  int64   `json:"video_id"`
	Duration float64 `json:"duration"`
	Error    string  `json:"error,omitempty"`
}

// messageWriter kafka.Writer 的最小子集
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer 发送探测任务与探测结果
type Producer struct {
	writer messageWriter
	cfg    *config.KafkaConfig
}

// NewProducer 创建生产者
func NewProducer(cfg *config.KafkaConfig) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Brokers),
	)

	return &Producer{writer: writer, cfg: cfg}
}

// PublishProbeTask 发送探测任务
func (p *Producer) PublishProbeTask(ctx context.Context, task *ProbeTask) error {
	topic := p.cfg.Topic(TopicMediaProbe)
	if err := p.send(ctx, topic, task.VideoID, task); err != nil {
		return fmt.Errorf("failed to send probe task: %w", err)
	}

	logger.Info("Probe task sent",
		zap.Int64("video_id", task.VideoID),
		zap.String("topic", topic),
		zap.String("object", task.ObjectName),
	)
	return nil
}

// PublishProbeResult 发送探测结果
func (p *Producer) PublishProbeResult(ctx context.Context, result *ProbeResult) error {
	if err := p.send(ctx, p.cfg.Topic(TopicMediaProbed), result.VideoID, result); err != nil {
		return fmt.Errorf("failed to send probe result: %w", err)
	}
	return nil
}

func (p *Producer) send(ctx context.Context, topic string, videoID int64, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// 同一视频的消息落在同一分区，保证顺序
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(fmt.Sprintf("video-%d", videoID)),
		Value: payload,
	})
}

// Close 关闭生产者
func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	logger.Info("Kafka producer closed")
	return p.writer.Close()
}
