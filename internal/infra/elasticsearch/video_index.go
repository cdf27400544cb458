package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vidtube-go/internal/model"
	"vidtube-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

const videosMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"owner_id": {"type": "long"},
			"owner_username": {"type": "keyword"},
			"title": {
				"type": "text",
				"fields": {"keyword": {"type": "keyword", "ignore_above": 200}}
			},
			"description": {"type": "text"},
			"is_published": {"type": "boolean"},
			"views": {"type": "long"},
			"duration": {"type": "float"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"},
			"updated_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// 排序字段到索引字段的映射
var sortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"views":     "views",
	"title":     "title.keyword",
	"duration":  "duration",
}

// VideoDoc 索引中的视频文档
type VideoDoc struct {
	ID            int64   `json:"id"`
	OwnerID       int64   `json:"owner_id"`
	OwnerUsername string  `json:"owner_username"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	IsPublished   bool    `json:"is_published"`
	Views         int64   `json:"views"`
	Duration      float64 `json:"duration"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// NewVideoDoc 从模型构建文档，Owner 需已加载
func NewVideoDoc(v *model.Video) *VideoDoc {
	doc := &VideoDoc{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		IsPublished: v.IsPublished,
		Views:       v.Views,
		Duration:    v.Duration,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.Format(time.RFC3339),
	}
	if v.Owner != nil {
		doc.OwnerUsername = v.Owner.Username
	}
	return doc
}

// VideoSearch 搜索条件
type VideoSearch struct {
	Query     string
	OwnerID   int64
	SortBy    string
	SortOrder string
	From      int
	Size      int
}

// VideoIndex 视频搜索索引
type VideoIndex struct {
	client *elasticsearch.Client
	index  string
}

// NewVideoIndex client 为 nil 时返回 nil，调用方据此降级
func NewVideoIndex(client *elasticsearch.Client, index string) *VideoIndex {
	if client == nil {
		return nil
	}
	return &VideoIndex{client: client, index: index}
}

// EnsureIndex 索引不存在则按 mapping 创建
func (x *VideoIndex) EnsureIndex(ctx context.Context) error {
	resp, err := x.client.Indices.Exists([]string{x.index}, x.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	resp, err = x.client.Indices.Create(
		x.index,
		x.client.Indices.Create.WithContext(ctx),
		x.client.Indices.Create.WithBody(strings.NewReader(videosMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch videos index created", zap.String("index", x.index))
	return nil
}

// Upsert 写入或覆盖视频文档
func (x *VideoIndex) Upsert(ctx context.Context, doc *VideoDoc) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	resp, err := x.client.Index(
		x.index,
		bytes.NewReader(body),
		x.client.Index.WithContext(ctx),
		x.client.Index.WithDocumentID(strconv.FormatInt(doc.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}

	logger.Debug("Video synced to ES", zap.Int64("video_id", doc.ID))
	return nil
}

// Delete 删除文档，文档不存在视为成功
func (x *VideoIndex) Delete(ctx context.Context, videoID int64) error {
	resp, err := x.client.Delete(
		x.index,
		strconv.FormatInt(videoID, 10),
		x.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete document failed: %s", resp.String())
	}
	return nil
}

// Search 返回命中的视频 ID（按排序）与总数，只检索已公开视频
func (x *VideoIndex) Search(ctx context.Context, q VideoSearch) ([]int64, int64, error) {
	body, err := json.Marshal(buildSearchBody(q))
	if err != nil {
		return nil, 0, err
	}

	resp, err := x.client.Search(
		x.client.Search.WithContext(ctx),
		x.client.Search.WithIndex(x.index),
		x.client.Search.WithBody(bytes.NewReader(body)),
		x.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("search failed: %s", resp.String())
	}

	var result struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, 0, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]int64, 0, len(result.Hits.Hits))
	for _, h := range result.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, result.Hits.Total.Value, nil
}

func buildSearchBody(q VideoSearch) map[string]interface{} {
	filter := []interface{}{
		map[string]interface{}{"term": map[string]interface{}{"is_published": true}},
	}
	if q.OwnerID > 0 {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"owner_id": q.OwnerID}})
	}

	boolQuery := map[string]interface{}{"filter": filter}
	if kw := strings.TrimSpace(q.Query); kw != "" {
		boolQuery["must"] = []interface{}{
			map[string]interface{}{
				"multi_match": map[string]interface{}{
					"query":  kw,
					"fields": []string{"title^3", "description"},
				},
			},
		}
	}

	field, ok := sortFields[q.SortBy]
	if !ok {
		field = sortFields["createdAt"]
	}
	order := q.SortOrder
	if order != "asc" {
		order = "desc"
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []interface{}{
			map[string]interface{}{field: map[string]interface{}{"order": order}},
			map[string]interface{}{"id": map[string]interface{}{"order": "desc"}},
		},
		"from": q.From,
		"size": q.Size,
	}
}
