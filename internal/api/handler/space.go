package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-parking-reservation/internal/api"
	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
)

type SpaceHandler struct {
	service SpaceServiceInterface
}

func NewSpaceHandler(s SpaceServiceInterface) *SpaceHandler {
	return &SpaceHandler{service: s}
}

type CreateSpaceRequest struct {
	CarCapable        bool `json:"car_capable" example:"true"`
	MotorcycleCapable bool `json:"motorcycle_capable" example:"false"`
	// Count を指定すると同じ構成のスペースを一括作成する
	Count int `json:"count" validate:"omitempty,min=1,max=1000" example:"10"`
}

type SpaceResponse struct {
	ID                int64     `json:"id" example:"1"`
	ExternalID        string    `json:"external_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	CarCapable        bool      `json:"car_capable"`
	MotorcycleCapable bool      `json:"motorcycle_capable"`
	Hybrid            bool      `json:"hybrid"`
	CreatedAt         time.Time `json:"created_at"`
}

func toSpaceResponse(s *space.Space) SpaceResponse {
	return SpaceResponse{
		ID: s.ID, ExternalID: s.ExternalID,
		CarCapable: s.CarCapable, MotorcycleCapable: s.MotorcycleCapable,
		Hybrid: s.IsHybrid(), CreatedAt: s.CreatedAt,
	}
}

func toSpaceResponses(spaces []*space.Space) []SpaceResponse {
	resp := make([]SpaceResponse, len(spaces))
	for i, s := range spaces {
		resp[i] = toSpaceResponse(s)
	}
	return resp
}

// Create godoc
// @Summary 駐車スペースを作成
// @Description 駐車スペースを作成します。count を指定すると一括作成します
// @Tags spaces
// @Accept json
// @Produce json
// @Param request body CreateSpaceRequest true "スペース情報"
// @Success 201 {array} SpaceResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /spaces [post]
func (h *SpaceHandler) Create(c echo.Context) error {
	var req CreateSpaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	if req.Count > 1 {
		spaces, err := h.service.CreateBulkSpaces(ctx, application.CreateBulkSpacesInput{
			CarCapable: req.CarCapable, MotorcycleCapable: req.MotorcycleCapable, Count: req.Count,
		})
		if err != nil {
			return api.NewHTTPError(err)
		}
		return c.JSON(http.StatusCreated, toSpaceResponses(spaces))
	}

	sp, err := h.service.CreateSpace(ctx, application.CreateSpaceInput{
		CarCapable: req.CarCapable, MotorcycleCapable: req.MotorcycleCapable,
	})
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusCreated, []SpaceResponse{toSpaceResponse(sp)})
}

// List godoc
// @Summary 駐車スペース一覧
// @Tags spaces
// @Produce json
// @Param limit query int false "取得件数" default(100)
// @Param offset query int false "オフセット" default(0)
// @Success 200 {array} SpaceResponse
// @Router /spaces [get]
func (h *SpaceHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	spaces, err := h.service.ListSpaces(c.Request().Context(), limit, offset)
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSpaceResponses(spaces))
}

// GetByID godoc
// @Summary 駐車スペースを取得
// @Tags spaces
// @Produce json
// @Param id path int true "スペースID"
// @Success 200 {object} SpaceResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /spaces/{id} [get]
func (h *SpaceHandler) GetByID(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なスペースID")
	}
	sp, err := h.service.GetSpace(c.Request().Context(), id)
	if err != nil {
		return api.NewHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSpaceResponse(sp))
}
