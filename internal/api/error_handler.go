package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// エラー種別のラベル
const (
	KindValidation       = "validation"
	KindCapacity         = "capacity"
	KindConflict         = "conflict"
	KindNotFound         = "not_found"
	KindStoreUnavailable = "store_unavailable"
)

// StatusCode はドメインのエラーをHTTPステータスと種別ラベルに変換する
func StatusCode(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, ""
	}
	switch {
	case errors.Is(err, reservation.ErrReservationNotFound), errors.Is(err, space.ErrSpaceNotFound):
		return http.StatusNotFound, KindNotFound
	}
	switch apperror.Kind(err) {
	case apperror.ErrValidation:
		return http.StatusBadRequest, KindValidation
	case apperror.ErrCapacity:
		return http.StatusConflict, KindCapacity
	case apperror.ErrConcurrencyConflict:
		return http.StatusConflict, KindConflict
	case apperror.ErrStoreUnavailable:
		return http.StatusServiceUnavailable, KindStoreUnavailable
	}
	return http.StatusInternalServerError, ""
}

// NewHTTPError はドメインのエラーを echo.HTTPError に変換する
// 5xx の場合は内部の詳細をメッセージに含めない
func NewHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	code, _ := StatusCode(err)
	msg := err.Error()
	switch code {
	case http.StatusServiceUnavailable:
		msg = apperror.ErrStoreUnavailable.Error()
	case http.StatusInternalServerError:
		msg = "内部サーバーエラー"
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var (
		code    = http.StatusInternalServerError
		message = "内部サーバーエラー"
		kind    string
		cause   = err
	)

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		he = NewHTTPError(err)
	}
	code = he.Code
	if m, ok := he.Message.(string); ok {
		message = m
	} else {
		message = http.StatusText(code)
	}
	if he.Internal != nil {
		cause = he.Internal
		_, kind = StatusCode(he.Internal)
	}

	// エラーログを出力（5xx エラーの場合）
	if code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(cause),
		)
	}

	// HEAD はボディを返さない
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: message, Code: code, Kind: kind})
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
