// Package router はHTTPルーティングとミドルウェアを組み立てる
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-parking-reservation/internal/api"
	"github.com/sanosuguru/go-parking-reservation/internal/api/handler"
	"github.com/sanosuguru/go-parking-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-parking-reservation/internal/config"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/metrics"
)

// Deps はルーターが必要とする依存
type Deps struct {
	Reservations handler.ReservationServiceInterface
	Spaces       handler.SpaceServiceInterface
	Health       []handler.Dependency

	// Metrics が nil の場合はHTTPメトリクスを収集しない
	Metrics *metrics.Metrics
	// Gatherer が nil の場合は /metrics を公開しない
	Gatherer    prometheus.Gatherer
	MetricsAuth config.MetricsConfig
}

// New はミドルウェアとルートを設定したEchoを作成する
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, d.Metrics)

	Register(e, d)
	return e
}

// Register はルートを登録する
func Register(e *echo.Echo, d Deps) {
	healthHandler := handler.NewHealthHandler(d.Health...)
	e.GET("/health", healthHandler.Check)
	e.HEAD("/health", healthHandler.Check)

	if d.Gatherer != nil {
		e.GET("/metrics",
			echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})),
			middleware.MetricsBasicAuth(d.MetricsAuth),
		)
	}

	v1 := e.Group("/api/v1")

	if d.Spaces != nil {
		spaceHandler := handler.NewSpaceHandler(d.Spaces)
		v1.POST("/spaces", spaceHandler.Create)
		v1.GET("/spaces", spaceHandler.List)
		v1.GET("/spaces/:id", spaceHandler.GetByID)
	}

	if d.Reservations != nil {
		availabilityHandler := handler.NewAvailabilityHandler(d.Reservations)
		holdHandler := handler.NewHoldHandler(d.Reservations)
		reservationHandler := handler.NewReservationHandler(d.Reservations)

		v1.GET("/availability", availabilityHandler.Check)
		v1.POST("/holds", holdHandler.Create)
		v1.POST("/reservations", reservationHandler.Create)
		v1.GET("/reservations/:code", reservationHandler.GetByCode)
	}
}
