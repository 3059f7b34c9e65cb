package application

import (
	"context"
	"errors"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
)

const (
	defaultSpaceListLimit = 100
	maxBulkSpaces         = 1000
)

var ErrInvalidBulkCount = apperror.Validation("一括作成数は1〜1000の範囲で指定してください")

// SpaceService は駐車スペース在庫の管理を行う
// 台帳には書き込まない
type SpaceService struct {
	inventory space.Inventory
}

func NewSpaceService(inv space.Inventory) *SpaceService {
	return &SpaceService{inventory: inv}
}

type CreateSpaceInput struct {
	CarCapable        bool
	MotorcycleCapable bool
}

func (s *SpaceService) CreateSpace(ctx context.Context, input CreateSpaceInput) (*space.Space, error) {
	sp := space.NewSpace(input.CarCapable, input.MotorcycleCapable)
	if err := sp.Validate(); err != nil {
		return nil, err
	}
	if err := s.inventory.Create(ctx, sp); err != nil {
		return nil, apperror.StoreUnavailable("駐車スペースの作成", err)
	}
	return sp, nil
}

type CreateBulkSpacesInput struct {
	CarCapable        bool
	MotorcycleCapable bool
	Count             int
}

func (s *SpaceService) CreateBulkSpaces(ctx context.Context, input CreateBulkSpacesInput) ([]*space.Space, error) {
	if input.Count < 1 || input.Count > maxBulkSpaces {
		return nil, ErrInvalidBulkCount
	}
	spaces := make([]*space.Space, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		sp := space.NewSpace(input.CarCapable, input.MotorcycleCapable)
		if err := sp.Validate(); err != nil {
			return nil, err
		}
		spaces = append(spaces, sp)
	}
	if err := s.inventory.CreateBulk(ctx, spaces); err != nil {
		return nil, apperror.StoreUnavailable("駐車スペースの一括作成", err)
	}
	return spaces, nil
}

func (s *SpaceService) GetSpace(ctx context.Context, id int64) (*space.Space, error) {
	sp, err := s.inventory.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, space.ErrSpaceNotFound) {
			return nil, err
		}
		return nil, apperror.StoreUnavailable("駐車スペースの取得", err)
	}
	return sp, nil
}

func (s *SpaceService) ListSpaces(ctx context.Context, limit, offset int) ([]*space.Space, error) {
	if limit <= 0 || limit > defaultSpaceListLimit {
		limit = defaultSpaceListLimit
	}
	if offset < 0 {
		offset = 0
	}
	spaces, err := s.inventory.List(ctx, limit, offset)
	if err != nil {
		return nil, apperror.StoreUnavailable("駐車スペース一覧の取得", err)
	}
	return spaces, nil
}
