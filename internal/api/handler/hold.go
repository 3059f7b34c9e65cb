package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-parking-reservation/internal/api"
	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
)

type HoldHandler struct {
	service ReservationServiceInterface
}

func NewHoldHandler(s ReservationServiceInterface) *HoldHandler {
	return &HoldHandler{service: s}
}

type HoldResponse struct {
	VehicleType string    `json:"vehicle_type" example:"car"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func toHoldResponse(h *hold.Hold) HoldResponse {
	return HoldResponse{
		VehicleType: h.VehicleType.String(),
		Start:       h.Window.Start, End: h.Window.End,
		ExpiresAt: h.ExpiresAt,
	}
}

// Create godoc
// @Summary ホールドを追加
// @Description 車種単位で容量を5分間確保します。空きの確認は行いません
// @Tags holds
// @Accept json
// @Produce json
// @Param request body api.WindowRequest true "車種と時間帯"
// @Success 202 {object} HoldResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /holds [post]
func (h *HoldHandler) Create(c echo.Context) error {
	vt, req, err := bindWindowRequest(c)
	if err != nil {
		return err
	}
	created, err := h.service.Hold(c.Request().Context(), application.HoldInput{
		VehicleType: vt, Start: req.Start, End: req.End,
	})
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusAccepted, toHoldResponse(created))
}
