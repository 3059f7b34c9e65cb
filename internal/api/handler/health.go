package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// healthCheckTimeout は依存先ごとの確認のタイムアウト
const healthCheckTimeout = 2 * time.Second

// Dependency はヘルスチェック対象の依存先
type Dependency struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	deps []Dependency
}

// NewHealthHandler はHealthHandlerを作成する
func NewHealthHandler(deps ...Dependency) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check はヘルスチェックを行う
// @Summary ヘルスチェック
// @Description アプリケーションと依存先（DB・Redis）の健全性を確認する
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	resp := HealthResponse{Status: "ok", Timestamp: time.Now().Format(time.RFC3339)}
	code := http.StatusOK

	if len(h.deps) > 0 {
		resp.Checks = make(map[string]string, len(h.deps))
		for _, d := range h.deps {
			ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
			err := d.Check(ctx)
			cancel()
			if err != nil {
				resp.Checks[d.Name] = "unavailable"
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[d.Name] = "ok"
		}
	}
	return c.JSON(code, resp)
}
