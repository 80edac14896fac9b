// Package metrics 基于Prometheus的指标收集
//
// 三类指标：
//   - HTTP：请求总数、耗时分布、处理中的请求数
//   - 借阅：借出/归还成功数、被拒绝次数（按错误种类）、借还耗时
//   - 事件：借阅事件发布结果
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只使用有限取值（method、path模板、operation、reason），不使用user_id/book_id。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(metrics.Handler()))
//
//	start := time.Now()
//	tx, err := ledger.Borrow(ctx, userID, bookID)
//	metrics.RecordLending(metrics.OperationBorrow, time.Since(start).Seconds(), err)
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 借阅操作标签值
const (
	OperationBorrow = "borrow"
	OperationReturn = "return"
)

var (
	initOnce sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（路由模板）、status（200/404）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 借阅业务指标

	// BorrowsTotal 借出成功总数
	BorrowsTotal prometheus.Counter

	// ReturnsTotal 归还成功总数
	ReturnsTotal prometheus.Counter

	// LendingRejectionsTotal 借还被拒绝次数
	// 标签：operation（borrow/return）、reason（错误种类：business/not_found/...）
	LendingRejectionsTotal *prometheus.CounterVec

	// LendingDuration 借还耗时（含行锁等待）
	LendingDuration *prometheus.HistogramVec

	// 事件指标

	// EventsPublishedTotal 借阅事件发布总数
	// 标签：type（lending.borrowed/lending.returned）、result（success/failure）
	EventsPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化并注册所有指标到默认Registry
// 可重复调用，只有第一次生效
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "http_request_duration_seconds",
				Help: "HTTP请求耗时（秒）",
				// 1ms、10ms、100ms、500ms、1s、5s、10s
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		BorrowsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "library_borrows_total",
				Help: "借出成功总数",
			},
		)

		ReturnsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "library_returns_total",
				Help: "归还成功总数",
			},
		)

		LendingRejectionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_lending_rejections_total",
				Help: "借还被拒绝次数",
			},
			[]string{"operation", "reason"},
		)

		LendingDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "library_lending_duration_seconds",
				Help: "借还耗时（秒）",
				// 借还需要持有行锁，耗时主要来自锁等待
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation"},
		)

		EventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_events_published_total",
				Help: "借阅事件发布总数",
			},
			[]string{"type", "result"},
		)
	})
}

// Handler /metrics端点
func Handler() http.Handler {
	InitMetrics()
	return promhttp.Handler()
}

// ObserveHTTPRequest 记录一次HTTP请求
func ObserveHTTPRequest(method, path, status string, seconds float64) {
	InitMetrics()
	HTTPRequestsTotal.With(prometheus.Labels{"method": method, "path": path, "status": status}).Inc()
	HTTPRequestDuration.With(prometheus.Labels{"method": method, "path": path}).Observe(seconds)
}

// RecordLending 记录一次借还操作的结果
// err为nil计入成功数，否则按错误种类计入拒绝数
func RecordLending(operation string, seconds float64, err error) {
	InitMetrics()
	LendingDuration.With(prometheus.Labels{"operation": operation}).Observe(seconds)

	if err != nil {
		LendingRejectionsTotal.With(prometheus.Labels{
			"operation": operation,
			"reason":    apperrors.KindOf(err).String(),
		}).Inc()
		return
	}

	switch operation {
	case OperationBorrow:
		BorrowsTotal.Inc()
	case OperationReturn:
		ReturnsTotal.Inc()
	}
}

// RecordEventPublished 记录事件发布结果
func RecordEventPublished(eventType string, ok bool) {
	InitMetrics()
	result := "success"
	if !ok {
		result = "failure"
	}
	EventsPublishedTotal.With(prometheus.Labels{"type": eventType, "result": result}).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}
