// Package pagination 列表接口统一的分页与排序参数校验
package pagination

import (
	"math"
	"strconv"
	"strings"

	"vidtube-go/pkg/errcode"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 50

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var (
	ErrInvalidPage      = errcode.BadRequest("page 必须是大于等于 1 的整数")
	ErrInvalidLimit     = errcode.BadRequest("limit 必须是 1 到 50 之间的整数")
	ErrInvalidSortBy    = errcode.BadRequest("不支持的排序字段")
	ErrInvalidSortOrder = errcode.BadRequest("排序方向只能是 asc 或 desc")
)

// SortSpec 资源允许的排序字段，键为接口字段名，值为数据库列名
type SortSpec struct {
	Fields  map[string]string
	Default string
}

// Query 原始查询参数，空字符串表示未传
type Query struct {
	Page      string
	Limit     string
	SortBy    string
	SortOrder string
}

// Params 校验后的分页参数
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	// Column 排序字段对应的数据库列
	Column string
}

// Offset 跳过的记录数
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause 返回 gorm Order 可直接使用的排序子句
func (p Params) OrderClause() string {
	if p.Column == "" {
		return ""
	}
	return p.Column + " " + strings.ToUpper(p.SortOrder)
}

// Parse 超出范围的值直接报错，不做截断
func Parse(q Query, spec *SortSpec) (Params, error) {
	p := Params{Page: DefaultPage, Limit: DefaultLimit, SortOrder: OrderDesc}

	if q.Page != "" {
		n, err := strconv.Atoi(q.Page)
		if err != nil || n < 1 {
			return Params{}, ErrInvalidPage.WithDetails("page")
		}
		p.Page = n
	}

	if q.Limit != "" {
		n, err := strconv.Atoi(q.Limit)
		if err != nil || n < 1 || n > MaxLimit {
			return Params{}, ErrInvalidLimit.WithDetails("limit")
		}
		p.Limit = n
	}

	// Offset 必须能用 int 表示
	if p.Page-1 > math.MaxInt/p.Limit {
		return Params{}, ErrInvalidPage.WithDetails("page")
	}

	if q.SortOrder != "" {
		order := strings.ToLower(q.SortOrder)
		if order != OrderAsc && order != OrderDesc {
			return Params{}, ErrInvalidSortOrder.WithDetails("sortOrder")
		}
		p.SortOrder = order
	}

	if spec == nil {
		return p, nil
	}

	p.SortBy = spec.Default
	if q.SortBy != "" {
		p.SortBy = q.SortBy
	}
	col, ok := spec.Fields[p.SortBy]
	if !ok {
		return Params{}, ErrInvalidSortBy.WithDetails("sortBy")
	}
	p.Column = col

	return p, nil
}

// Meta 分页元信息
type Meta struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int64 `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// NewMeta totalPages 向上取整
func NewMeta(p Params, total int64) Meta {
	limit := int64(p.Limit)
	totalPages := (total + limit - 1) / limit
	return Meta{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: int64(p.Page) < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// Page 分页结果
type Page[T any] struct {
	Items      []T  `json:"items"`
	Pagination Meta `json:"pagination"`
}

// NewPage items 为 nil 时输出空数组
func NewPage[T any](items []T, p Params, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{Items: items, Pagination: NewMeta(p, total)}
}

// 各资源的排序白名单
var (
	VideoSearchSort = &SortSpec{
		Fields: map[string]string{
			"createdAt": "videos.created_at",
			"updatedAt": "videos.updated_at",
			"views":     "videos.views",
			"title":     "videos.title",
			"duration":  "videos.duration",
		},
		Default: "createdAt",
	}
	ChannelVideoSort = &SortSpec{
		Fields: map[string]string{
			"createdAt": "videos.created_at",
			"updatedAt": "videos.updated_at",
			"views":     "videos.views",
			"title":     "videos.title",
		},
		Default: "createdAt",
	}
	TweetSort = &SortSpec{
		Fields: map[string]string{
			"createdAt": "tweets.created_at",
			"updatedAt": "tweets.updated_at",
		},
		Default: "createdAt",
	}
	PlaylistSort = &SortSpec{
		Fields: map[string]string{
			"createdAt": "playlists.created_at",
			"updatedAt": "playlists.updated_at",
			"name":      "playlists.name",
		},
		Default: "createdAt",
	}
)
