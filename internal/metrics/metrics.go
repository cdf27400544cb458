// Package metrics 进程内的 Prometheus 指标，由 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal 按路由模板、方法和状态码统计请求数
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vidtube_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// TogglesTotal 点赞和订阅切换次数，result 为 on 或 off
	TogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_toggles_total",
		Help: "Total number of like and subscription toggles",
	}, []string{"kind", "result"})

	// MediaUploadsTotal 媒体上传结果
	MediaUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vidtube_media_uploads_total",
		Help: "Total number of media uploads by kind and outcome",
	}, []string{"kind", "outcome"})
)

// RecordToggle 记录一次切换
func RecordToggle(kind string, on bool) {
	result := "off"
	if on {
		result = "on"
	}
	TogglesTotal.WithLabelValues(kind, result).Inc()
}
