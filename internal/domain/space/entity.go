package space

import (
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

// Space は駐車スペースエンティティを表す
// 車・バイクの駐車可否は独立したフラグで、両方が立っているものをハイブリッドと呼ぶ
type Space struct {
	ID                int64
	ExternalID        string
	CarCapable        bool
	MotorcycleCapable bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewSpace は新しい駐車スペースを作成する
func NewSpace(carCapable, motorcycleCapable bool) *Space {
	now := time.Now()
	return &Space{
		ExternalID:        uuid.NewString(),
		CarCapable:        carCapable,
		MotorcycleCapable: motorcycleCapable,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Serves は指定車種を駐車できるかを返す
func (s *Space) Serves(vt vehicle.Type) bool {
	switch vt {
	case vehicle.Car:
		return s.CarCapable
	case vehicle.Motorcycle:
		return s.MotorcycleCapable
	}
	return false
}

// IsHybrid は車・バイク両方に対応しているかを返す
func (s *Space) IsHybrid() bool {
	return s.CarCapable && s.MotorcycleCapable
}

// ServesOnly は指定車種専用のスペースかを返す
func (s *Space) ServesOnly(vt vehicle.Type) bool {
	if !s.Serves(vt) {
		return false
	}
	for _, other := range vehicle.All() {
		if other != vt && s.Serves(other) {
			return false
		}
	}
	return true
}

// Validate は駐車スペースの検証を行う
func (s *Space) Validate() error {
	if !s.CarCapable && !s.MotorcycleCapable {
		return ErrNoCapability
	}
	return nil
}

// IDs はスペースIDの一覧を返す
func IDs(spaces []*Space) []int64 {
	ids := make([]int64, len(spaces))
	for i, s := range spaces {
		ids[i] = s.ID
	}
	return ids
}
