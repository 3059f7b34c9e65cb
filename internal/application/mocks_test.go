package application

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockLedger implements reservation.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Create(ctx context.Context, tx transaction.Tx, r *reservation.Reservation) error {
	args := m.Called(ctx, tx, r)
	return args.Error(0)
}

func (m *MockLedger) ListOverlapping(ctx context.Context, spaceIDs []int64, w window.Window) ([]*reservation.Reservation, error) {
	args := m.Called(ctx, spaceIDs, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reservation.Reservation), args.Error(1)
}

func (m *MockLedger) GetByCode(ctx context.Context, code string) (*reservation.Reservation, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

func (m *MockLedger) GetByExternalID(ctx context.Context, externalID string) (*reservation.Reservation, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.Reservation), args.Error(1)
}

// MockInventory implements space.Inventory
type MockInventory struct {
	mock.Mock
}

func (m *MockInventory) Create(ctx context.Context, s *space.Space) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockInventory) CreateBulk(ctx context.Context, spaces []*space.Space) error {
	args := m.Called(ctx, spaces)
	return args.Error(0)
}

func (m *MockInventory) GetByID(ctx context.Context, id int64) (*space.Space, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*space.Space), args.Error(1)
}

func (m *MockInventory) List(ctx context.Context, limit, offset int) ([]*space.Space, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*space.Space), args.Error(1)
}

func (m *MockInventory) ListByCapability(ctx context.Context, vt vehicle.Type) ([]*space.Space, error) {
	args := m.Called(ctx, vt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*space.Space), args.Error(1)
}

// MockHoldStore implements hold.Store
type MockHoldStore struct {
	mock.Mock
}

func (m *MockHoldStore) Put(ctx context.Context, h *hold.Hold) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockHoldStore) LiveHolds(ctx context.Context, vt vehicle.Type) ([]*hold.Hold, error) {
	args := m.Called(ctx, vt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*hold.Hold), args.Error(1)
}

func (m *MockHoldStore) PurgeExpired(ctx context.Context, vt vehicle.Type) (int, error) {
	args := m.Called(ctx, vt)
	return args.Int(0), args.Error(1)
}

// === In-memory fakes ===

// fakeInventory は固定のスペース一覧を持つ在庫
type fakeInventory struct {
	mu     sync.Mutex
	spaces []*space.Space
	nextID int64
}

func newFakeInventory(spaces ...*space.Space) *fakeInventory {
	inv := &fakeInventory{}
	for _, s := range spaces {
		_ = inv.Create(context.Background(), s)
	}
	return inv
}

func (f *fakeInventory) Create(_ context.Context, s *space.Space) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	s.ID = f.nextID
	f.spaces = append(f.spaces, s)
	return nil
}

func (f *fakeInventory) CreateBulk(ctx context.Context, spaces []*space.Space) error {
	for _, s := range spaces {
		_ = f.Create(ctx, s)
	}
	return nil
}

func (f *fakeInventory) GetByID(_ context.Context, id int64) (*space.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.spaces {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, space.ErrSpaceNotFound
}

func (f *fakeInventory) List(_ context.Context, limit, offset int) ([]*space.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offset >= len(f.spaces) {
		return []*space.Space{}, nil
	}
	end := min(offset+limit, len(f.spaces))
	return append([]*space.Space(nil), f.spaces[offset:end]...), nil
}

func (f *fakeInventory) ListByCapability(_ context.Context, vt vehicle.Type) ([]*space.Space, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*space.Space{}
	for _, s := range f.spaces {
		if s.Serves(vt) {
			result = append(result, s)
		}
	}
	return result, nil
}

// fakeLedger はスペースごとの重複を排他的に確認してから追加する台帳
type fakeLedger struct {
	mu           sync.Mutex
	reservations []*reservation.Reservation
	nextID       int64
	creates      int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{}
}

// seed は確定済み予約を直接追加する
func (f *fakeLedger) seed(spaceID int64, w window.Window) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r := reservation.NewReservation(spaceID, w)
	r.ID = f.nextID
	f.reservations = append(f.reservations, r)
}

func (f *fakeLedger) Create(_ context.Context, _ transaction.Tx, r *reservation.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	for _, existing := range f.reservations {
		if existing.SpaceID == r.SpaceID && existing.Overlaps(r.Window) {
			return apperror.ErrConcurrencyConflict
		}
	}
	f.nextID++
	r.ID = f.nextID
	f.reservations = append(f.reservations, r)
	return nil
}

func (f *fakeLedger) ListOverlapping(_ context.Context, spaceIDs []int64, w window.Window) ([]*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[int64]struct{}, len(spaceIDs))
	for _, id := range spaceIDs {
		ids[id] = struct{}{}
	}
	result := []*reservation.Reservation{}
	for _, r := range f.reservations {
		if _, ok := ids[r.SpaceID]; ok && r.Overlaps(w) {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeLedger) GetByCode(_ context.Context, code string) (*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, reservation.ErrReservationNotFound
}

func (f *fakeLedger) GetByExternalID(_ context.Context, externalID string) (*reservation.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.ExternalID == externalID {
			return r, nil
		}
	}
	return nil, reservation.ErrReservationNotFound
}

func (f *fakeLedger) all() []*reservation.Reservation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*reservation.Reservation(nil), f.reservations...)
}

type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeTxManager struct{}

func (fakeTxManager) Begin(context.Context) (transaction.Tx, error) { return fakeTx{}, nil }
