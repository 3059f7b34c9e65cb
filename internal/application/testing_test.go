package application

import (
	"testing"
	"time"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
	"github.com/sanosuguru/go-parking-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
)

var baseTime = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

// testWindow は baseTime から offset 後に始まる hours 時間の時間帯を返す
func testWindow(offset time.Duration, hours int) window.Window {
	start := baseTime.Add(offset)
	return window.New(start, start.Add(time.Duration(hours)*time.Hour))
}

type testEnv struct {
	clock     *clock.Manual
	inventory *fakeInventory
	ledger    *fakeLedger
	holds     *memory.HoldStore
	engine    *AvailabilityEngine
	service   *ReservationService
}

func newTestEnv(t testing.TB, spaces []*space.Space, opts ...ReservationOption) *testEnv {
	t.Helper()
	clk := clock.NewManual(baseTime.Add(-24 * time.Hour))
	env := &testEnv{
		clock:     clk,
		inventory: newFakeInventory(spaces...),
		ledger:    newFakeLedger(),
		holds:     memory.NewHoldStore(clk),
	}
	env.engine = NewAvailabilityEngine(env.inventory, env.ledger, env.holds, WithEngineClock(clk))
	env.service = NewReservationService(env.engine, env.holds, env.ledger, fakeTxManager{},
		append([]ReservationOption{WithClock(clk)}, opts...)...)
	return env
}

// mixedLotSpaces は 車専用2・バイク専用2・ハイブリッド2 の在庫を返す
// ID は順に 1,2 が車専用、3,4 がバイク専用、5,6 がハイブリッド
func mixedLotSpaces() []*space.Space {
	return []*space.Space{
		space.NewSpace(true, false),
		space.NewSpace(true, false),
		space.NewSpace(false, true),
		space.NewSpace(false, true),
		space.NewSpace(true, true),
		space.NewSpace(true, true),
	}
}
