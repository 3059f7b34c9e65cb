package handler

import (
	"context"

	"github.com/sanosuguru/go-parking-reservation/internal/application"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
)

// ReservationServiceInterface は予約サービスのインターフェース
type ReservationServiceInterface interface {
	Hold(ctx context.Context, input application.HoldInput) (*hold.Hold, error)
	CheckAvailability(ctx context.Context, input application.AvailabilityInput) (*application.AvailabilityResult, error)
	CreateReservation(ctx context.Context, input application.CreateReservationInput) (*reservation.Reservation, error)
	GetReservation(ctx context.Context, code string) (*reservation.Reservation, error)
}

// SpaceServiceInterface は駐車スペースサービスのインターフェース
type SpaceServiceInterface interface {
	CreateSpace(ctx context.Context, input application.CreateSpaceInput) (*space.Space, error)
	CreateBulkSpaces(ctx context.Context, input application.CreateBulkSpacesInput) ([]*space.Space, error)
	GetSpace(ctx context.Context, id int64) (*space.Space, error)
	ListSpaces(ctx context.Context, limit, offset int) ([]*space.Space, error)
}

var (
	_ ReservationServiceInterface = (*application.ReservationService)(nil)
	_ SpaceServiceInterface       = (*application.SpaceService)(nil)
)
