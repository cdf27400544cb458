// Package probe 视频上传后的媒体信息探测：从对象存储下载原文件，用 ffprobe 读取时长并回报结果
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	infraKafka "vidtube-go/internal/infra/kafka"
	"vidtube-go/pkg/logger"

	"go.uber.org/zap"
)

const taskTimeout = 10 * time.Minute

// ErrNoDuration ffprobe 输出中没有可用的时长
var ErrNoDuration = errors.New("ffprobe output has no duration")

// Downloader 从对象存储取回原始文件
type Downloader interface {
	Download(ctx context.Context, objectName, localPath string) error
}

// ResultPublisher 回报探测结果
type ResultPublisher interface {
	PublishProbeResult(ctx context.Context, result *infraKafka.ProbeResult) error
}

// CommandRunner 执行外部命令并返回标准输出
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Worker 处理单个探测任务
type Worker struct {
	storage Downloader
	results ResultPublisher
	workDir string
	run     CommandRunner
}

func NewWorker(storage Downloader, results ResultPublisher, workDir string) *Worker {
	if workDir == "" {
		workDir = filepath.Join(os.TempDir(), "vidtube-probe")
	}
	return &Worker{storage: storage, results: results, workDir: workDir, run: execRunner}
}

// Handle 无论探测成功与否都会回报一条结果，只有结果发送失败才返回错误
func (w *Worker) Handle(ctx context.Context, task *infraKafka.ProbeTask) error {
	ctx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	result := &infraKafka.ProbeResult{VideoID: task.VideoID}
	duration, err := w.probe(ctx, task)
	if err != nil {
		logger.Error("Probe task failed",
			zap.Int64("video_id", task.VideoID),
			zap.String("object", task.ObjectName),
			zap.Error(err),
		)
		result.Error = err.Error()
	} else {
		result.Duration = duration
		logger.Info("Probe task completed",
			zap.Int64("video_id", task.VideoID),
			zap.Float64("duration", duration),
		)
	}

	if err := w.results.PublishProbeResult(ctx, result); err != nil {
		return fmt.Errorf("publish probe result: %w", err)
	}
	return nil
}

func (w *Worker) probe(ctx context.Context, task *infraKafka.ProbeTask) (float64, error) {
	if err := os.MkdirAll(w.workDir, 0o755); err != nil {
		return 0, fmt.Errorf("create work dir: %w", err)
	}
	local := filepath.Join(w.workDir, fmt.Sprintf("%d%s", task.VideoID, filepath.Ext(task.ObjectName)))
	defer os.Remove(local)

	if err := w.storage.Download(ctx, task.ObjectName, local); err != nil {
		return 0, fmt.Errorf("download %s: %w", task.ObjectName, err)
	}

	output, err := w.run(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		local,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	return ParseDuration(output)
}

// ParseDuration 优先取容器时长，缺失时取最长的流时长，单位秒
func ParseDuration(output []byte) (float64, error) {
	var data struct {
		Streams []struct {
			Duration string `json:"duration"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(output, &data); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}

	if d, err := strconv.ParseFloat(data.Format.Duration, 64); err == nil && d > 0 {
		return d, nil
	}

	var longest float64
	for _, s := range data.Streams {
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil && d > longest {
			longest = d
		}
	}
	if longest == 0 {
		return 0, ErrNoDuration
	}
	return longest, nil
}
