package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 予約確定の試行数（status: success, no_capacity, conflict, invalid, error）
	ReservationsTotal *prometheus.CounterVec

	// ホールドの作成数（vehicle_type）
	HoldsTotal *prometheus.CounterVec

	// 空き確認の回数（vehicle_type, result: available, full）
	AvailabilityChecksTotal *prometheus.CounterVec

	// スペースロックの操作時間（operation: acquire/release, status: success/failed）
	SpaceLockDuration *prometheus.HistogramVec

	// 掃除で削除した期限切れホールド数（vehicle_type）
	ExpiredHoldsPurged *prometheus.CounterVec
}

// 予約確定の結果ラベル
const (
	StatusSuccess    = "success"
	StatusNoCapacity = "no_capacity"
	StatusConflict   = "conflict"
	StatusInvalid    = "invalid"
	StatusError      = "error"
)

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parking_reservations_total",
				Help: "Total number of reservation commit attempts",
			},
			[]string{"status"},
		),
		HoldsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parking_holds_total",
				Help: "Total number of holds placed",
			},
			[]string{"vehicle_type"},
		),
		AvailabilityChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parking_availability_checks_total",
				Help: "Total number of availability checks",
			},
			[]string{"vehicle_type", "result"},
		),
		SpaceLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parking_space_lock_duration_seconds",
				Help:    "Time spent on space lock operations",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation", "status"},
		),
		ExpiredHoldsPurged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parking_expired_holds_purged_total",
				Help: "Total number of expired holds removed by the sweeper",
			},
			[]string{"vehicle_type"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ReservationsTotal,
		m.HoldsTotal,
		m.AvailabilityChecksTotal,
		m.SpaceLockDuration,
		m.ExpiredHoldsPurged,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
