package application

import (
	"context"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
)

// Availability はある車種・時間帯の空き状況のスナップショット
type Availability struct {
	VehicleType vehicle.Type
	Window      window.Window
	// Candidates は車種に対応するスペース（在庫順）
	Candidates []*space.Space
	// Overlapping は候補スペース上で時間帯が重なる確定済み予約
	Overlapping []*reservation.Reservation
	// LiveHolds は時間帯が重なる有効なホールド数
	LiveHolds int
	// Free は 候補数 - 重なる予約数 - 有効ホールド数（負になりうる）
	Free int
}

// Available は空きがあるかを返す
func (a *Availability) Available() bool {
	return a.Free > 0
}

// FreeSpaces は重なる予約を持たない候補スペースを在庫順で返す
// ホールドは特定のスペースを押さえないため、ここでは除外しない
func (a *Availability) FreeSpaces() []*space.Space {
	occupied := reservation.SpaceIDs(a.Overlapping)
	free := make([]*space.Space, 0, len(a.Candidates))
	for _, s := range a.Candidates {
		if _, ok := occupied[s.ID]; !ok {
			free = append(free, s)
		}
	}
	return free
}

// AvailabilityEngine は在庫・台帳・ホールドを突き合わせて空きを計算する
// 副作用を持たず、並行に呼び出してよい
type AvailabilityEngine struct {
	inventory space.Inventory
	ledger    reservation.Ledger
	holds     hold.Store
	clock     clock.Clock
}

// EngineOption は AvailabilityEngine のオプション
type EngineOption func(*AvailabilityEngine)

// WithEngineClock は現在時刻の取得元を差し替える
func WithEngineClock(c clock.Clock) EngineOption {
	return func(e *AvailabilityEngine) { e.clock = c }
}

func NewAvailabilityEngine(inv space.Inventory, ledger reservation.Ledger, holds hold.Store, opts ...EngineOption) *AvailabilityEngine {
	e := &AvailabilityEngine{inventory: inv, ledger: ledger, holds: holds, clock: clock.NewSystem()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot は空き状況を計算する
// 未対応の車種は候補なしとして扱い、エラーにはしない
func (e *AvailabilityEngine) Snapshot(ctx context.Context, vt vehicle.Type, w window.Window) (*Availability, error) {
	a := &Availability{VehicleType: vt, Window: w}
	if !vt.Valid() {
		return a, nil
	}

	candidates, err := e.inventory.ListByCapability(ctx, vt)
	if err != nil {
		return nil, apperror.StoreUnavailable("駐車スペースの取得", err)
	}
	// 在庫側のフィルタに関係なく、対応フラグで絞り直す
	for _, s := range candidates {
		if s.Serves(vt) {
			a.Candidates = append(a.Candidates, s)
		}
	}
	if len(a.Candidates) == 0 {
		return a, nil
	}

	reservations, err := e.ledger.ListOverlapping(ctx, space.IDs(a.Candidates), w)
	if err != nil {
		return nil, apperror.StoreUnavailable("重複予約の取得", err)
	}
	for _, r := range reservations {
		if r.Overlaps(w) {
			a.Overlapping = append(a.Overlapping, r)
		}
	}

	holds, err := e.holds.LiveHolds(ctx, vt)
	if err != nil {
		return nil, apperror.StoreUnavailable("ホールドの取得", err)
	}
	a.LiveHolds = hold.CountOverlapping(holds, w, e.clock.Now())

	a.Free = len(a.Candidates) - len(a.Overlapping) - a.LiveHolds
	return a, nil
}

// IsAvailable は指定車種・時間帯に空きがあるかを返す
func (e *AvailabilityEngine) IsAvailable(ctx context.Context, vt vehicle.Type, w window.Window) (bool, error) {
	a, err := e.Snapshot(ctx, vt, w)
	if err != nil {
		return false, err
	}
	return a.Available(), nil
}
