// Package metrics 提供 Prometheus helper，包含服务的 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wyfcoding/optionpricer/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTP 请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// 业务指标
	// 单点定价请求计数
	QuotesTotal prometheus.Counter
	// 敏感度网格请求计数
	SurfacesTotal prometheus.Counter
	// 敏感度网格单元计数
	SurfaceCellsTotal prometheus.Counter
	// 到期收益曲线请求计数
	PayoffsTotal prometheus.Counter
	// 非法参数拒绝计数
	InvalidParamsTotal prometheus.Counter
	// 定价计算耗时
	PricingDuration prometheus.Histogram
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),

		QuotesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "quotes_total",
			Help:      "Total option quote computations",
		}),
		SurfacesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "surfaces_total",
			Help:      "Total sensitivity surface computations",
		}),
		SurfaceCellsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "surface_cells_total",
			Help:      "Total sensitivity surface grid cells computed",
		}),
		PayoffsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "payoffs_total",
			Help:      "Total payoff curve computations",
		}),
		InvalidParamsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "invalid_params_total",
			Help:      "Total requests rejected for invalid parameters",
		}),
		PricingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pricing",
			Subsystem: serviceName,
			Name:      "pricing_duration_seconds",
			Help:      "Pricing computation duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.QuotesTotal,
		m.SurfacesTotal,
		m.SurfaceCellsTotal,
		m.PayoffsTotal,
		m.InvalidParamsTotal,
		m.PricingDuration,
	}

	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}
	return nil
}

// ObservePricing 记录一次定价计算耗时
func (m *Metrics) ObservePricing(start time.Time) {
	m.PricingDuration.Observe(time.Since(start).Seconds())
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}

	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)
	return http.ListenAndServe(addr, mux)
}
