package metrics

import (
	"strconv"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goshop_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goshop_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goshop_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)
)

// Middleware 收集每个请求的计数与耗时
func Middleware() iris.Handler {
	return func(ctx iris.Context) {
		start := time.Now()
		ctx.Next()

		// 用路由模板做标签，避免 /orders/123 这类路径把基数打爆
		path := ctx.Path()
		if route := ctx.GetCurrentRoute(); route != nil {
			path = route.Path()
		}
		status := strconv.Itoa(ctx.GetStatusCode())

		httpRequestsTotal.WithLabelValues(ctx.Method(), path, status).Inc()
		httpRequestDuration.WithLabelValues(ctx.Method(), path, status).
			Observe(time.Since(start).Seconds())
	}
}

// RecordOrderOperation 记录订单操作指标
func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}
