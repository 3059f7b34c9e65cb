package api

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// WindowRequest は車種と時間帯を受け取るリクエストボディ
// 車種の値そのものの検証はサービス層で行う
type WindowRequest struct {
	VehicleType string    `json:"vehicle_type" validate:"required" example:"car"`
	Start       time.Time `json:"start" validate:"required" example:"2025-01-10T09:00:00Z"`
	End         time.Time `json:"end" validate:"required" example:"2025-01-10T11:00:00Z"`
}

func validateWindowRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(WindowRequest)
	if !req.Start.IsZero() && !req.End.IsZero() && req.End.Before(req.Start) {
		sl.ReportError(req.End, "End", "end", "gtefield", "Start")
	}
}
