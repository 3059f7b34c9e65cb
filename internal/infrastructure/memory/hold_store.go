package memory

import (
	"context"
	"sync"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
)

// HoldStore はプロセス内でホールドを保持する
// 単一インスタンス構成とテスト向け。複数インスタンス間では共有されない
type HoldStore struct {
	mu    sync.RWMutex
	clock clock.Clock
	holds map[vehicle.Type][]hold.Hold
}

// NewHoldStore は新しいHoldStoreを作成する
func NewHoldStore(clk clock.Clock) *HoldStore {
	return &HoldStore{clock: clk, holds: make(map[vehicle.Type][]hold.Hold)}
}

// Put はホールドを追加する
func (s *HoldStore) Put(_ context.Context, h *hold.Hold) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[h.VehicleType] = append(s.holds[h.VehicleType], *h)
	return nil
}

// LiveHolds は指定車種の有効なホールドのコピーを返す
func (s *HoldStore) LiveHolds(_ context.Context, vt vehicle.Type) ([]*hold.Hold, error) {
	now := s.clock.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	live := make([]*hold.Hold, 0, len(s.holds[vt]))
	for i := range s.holds[vt] {
		h := s.holds[vt][i]
		if h.IsLive(now) {
			live = append(live, &h)
		}
	}
	return live, nil
}

// PurgeExpired は期限切れのホールドを削除する
func (s *HoldStore) PurgeExpired(_ context.Context, vt vehicle.Type) (int, error) {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.holds[vt][:0]
	for _, h := range s.holds[vt] {
		if h.IsLive(now) {
			kept = append(kept, h)
		}
	}
	purged := len(s.holds[vt]) - len(kept)
	s.holds[vt] = kept
	return purged, nil
}

var _ hold.Store = (*HoldStore)(nil)
