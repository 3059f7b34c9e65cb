package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-parking-reservation/internal/api"
	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

type AvailabilityHandler struct {
	service ReservationServiceInterface
}

func NewAvailabilityHandler(s ReservationServiceInterface) *AvailabilityHandler {
	return &AvailabilityHandler{service: s}
}

type AvailabilityResponse struct {
	VehicleType string    `json:"vehicle_type" example:"car"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Available   bool      `json:"available"`
	FreeCount   int       `json:"free_count" example:"3"`
}

// Check godoc
// @Summary 空き確認
// @Description 指定車種・時間帯に空きがあるかを返します（確定済み予約と有効なホールドを考慮）
// @Tags availability
// @Produce json
// @Param vehicle_type query string true "車種（car / motorcycle）"
// @Param start query string true "開始時刻（RFC3339）"
// @Param end query string true "終了時刻（RFC3339）"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c echo.Context) error {
	var (
		rawType    string
		start, end time.Time
	)
	if err := echo.QueryParamsBinder(c).
		MustString("vehicle_type", &rawType).
		MustTime("start", &start, time.RFC3339).
		MustTime("end", &end, time.RFC3339).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "クエリパラメータが不正です: "+err.Error())
	}

	vt, err := vehicle.Parse(rawType)
	if err != nil {
		return api.NewHTTPError(err)
	}
	res, err := h.service.CheckAvailability(c.Request().Context(), application.AvailabilityInput{
		VehicleType: vt, Start: start, End: end,
	})
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, AvailabilityResponse{
		VehicleType: res.VehicleType.String(),
		Start:       res.Window.Start,
		End:         res.Window.End,
		Available:   res.Available,
		FreeCount:   res.FreeCount,
	})
}
