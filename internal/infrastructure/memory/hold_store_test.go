package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
)

var (
	now = time.Date(2025, 8, 4, 12, 0, 0, 0, time.UTC)
	w   = window.New(now.Add(24*time.Hour), now.Add(27*time.Hour))
)

func TestHoldStore(t *testing.T) {
	clk := clock.NewManual(now)
	store := NewHoldStore(clk)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, w, clk.Now())))
	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, w, clk.Now())))
	require.NoError(t, store.Put(ctx, hold.New(vehicle.Motorcycle, w, clk.Now())))

	holds, err := store.LiveHolds(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Len(t, holds, 2)

	holds, err = store.LiveHolds(ctx, vehicle.Motorcycle)
	require.NoError(t, err)
	assert.Len(t, holds, 1)

	clk.Advance(hold.TTL)

	holds, err = store.LiveHolds(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Empty(t, holds)

	n, err := store.PurgeExpired(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = store.PurgeExpired(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestHoldStore_ReturnedHoldsAreCopies(t *testing.T) {
	store := NewHoldStore(clock.NewManual(now))
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, w, now)))

	holds, err := store.LiveHolds(ctx, vehicle.Car)
	require.NoError(t, err)
	holds[0].ExpiresAt = now.Add(-time.Hour)

	holds, err = store.LiveHolds(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Len(t, holds, 1)
}

func TestHoldStore_ConcurrentPut(t *testing.T) {
	store := NewHoldStore(clock.NewManual(now))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, hold.New(vehicle.Car, w, now))
		}()
	}
	wg.Wait()

	holds, err := store.LiveHolds(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Len(t, holds, 50)
}
