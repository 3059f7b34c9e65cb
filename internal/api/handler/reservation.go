package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-parking-reservation/internal/api"
	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

type ReservationResponse struct {
	ID            int64     `json:"id" example:"42"`
	ExternalID    string    `json:"external_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	SpaceID       int64     `json:"space_id" example:"3"`
	Code          string    `json:"code" example:"PK-3F2A9C1B"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours" example:"2"`
	CreatedAt     time.Time `json:"created_at"`
}

func toReservationResponse(r *reservation.Reservation) ReservationResponse {
	return ReservationResponse{
		ID: r.ID, ExternalID: r.ExternalID, SpaceID: r.SpaceID, Code: r.Code,
		Start: r.Window.Start, End: r.Window.End,
		DurationHours: r.Duration.Hours(), CreatedAt: r.CreatedAt,
	}
}

// bindWindowRequest はリクエストボディを読み込んで検証し、車種を解釈する
func bindWindowRequest(c echo.Context) (vehicle.Type, *api.WindowRequest, error) {
	var req api.WindowRequest
	if err := c.Bind(&req); err != nil {
		return "", nil, echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return "", nil, err
	}
	vt, err := vehicle.Parse(req.VehicleType)
	if err != nil {
		return "", nil, api.NewHTTPError(err)
	}
	return vt, &req, nil
}

// Create godoc
// @Summary 予約を確定
// @Description 空きを確認し、専用スペースを優先して1つのスペースに予約を確定します
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body api.WindowRequest true "車種と時間帯"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "満車または競合"
// @Failure 503 {object} api.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	vt, req, err := bindWindowRequest(c)
	if err != nil {
		return err
	}
	r, err := h.service.CreateReservation(c.Request().Context(), application.CreateReservationInput{
		VehicleType: vt, Start: req.Start, End: req.End,
	})
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toReservationResponse(r))
}

// GetByCode godoc
// @Summary 予約を取得
// @Description 確認コードから予約を取得します
// @Tags reservations
// @Produce json
// @Param code path string true "確認コード"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /reservations/{code} [get]
func (h *ReservationHandler) GetByCode(c echo.Context) error {
	r, err := h.service.GetReservation(c.Request().Context(), c.Param("code"))
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, toReservationResponse(r))
}
