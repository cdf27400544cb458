package elasticsearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vidtube-go/internal/config"
	"vidtube-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

// Init 创建客户端并 Ping，失败时调用方降级为数据库搜索
func Init(cfg *config.ElasticsearchConfig) (*elasticsearch.Client, error) {
	hosts := make([]string, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if !strings.HasPrefix(h, "http") {
			h = "http://" + h
		}
		hosts = append(hosts, h)
	}

	if len(hosts) == 0 {
		return nil, fmt.Errorf("elasticsearch hosts is empty")
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     hosts,
		RetryOnStatus: []int{502, 503, 504},
		MaxRetries:    3,
		RetryBackoff:  func(i int) time.Duration { return time.Duration(i) * time.Second },
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to ping elasticsearch: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, fmt.Errorf("elasticsearch ping failed: %s", resp.String())
	}

	logger.Info("Elasticsearch connected", zap.Strings("hosts", hosts))
	return es, nil
}

// IndexName 返回逻辑索引对应的实际名称
func IndexName(cfg *config.ElasticsearchConfig, name string) string {
	if n, ok := cfg.Index[name]; ok && n != "" {
		return n
	}
	return name
}
