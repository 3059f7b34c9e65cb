package redis

import (
	"context"
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
	holdNow    = time.Date(2025, 8, 4, 12, 0, 0, 0, time.UTC)
	holdWindow = window.New(holdNow.Add(7*24*time.Hour), holdNow.Add(7*24*time.Hour+3*time.Hour))
)

func TestHoldStore_PutAndLiveHolds(t *testing.T) {
	client, _ := setupTestRedis(t)
	clk := clock.NewManual(holdNow)
	store := NewHoldStore(client, clk)
	ctx := context.Background()

	t.Run("保存したホールドを取得できる", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))

		holds, err := store.LiveHolds(ctx, vehicle.Car)
		require.NoError(t, err)
		require.Len(t, holds, 1)
		assert.Equal(t, vehicle.Car, holds[0].VehicleType)
		assert.True(t, holds[0].Window.Start.Equal(holdWindow.Start))
		assert.True(t, holds[0].ExpiresAt.Equal(holdNow.Add(hold.TTL)))
	})

	t.Run("同じ内容のホールドも重複排除しない", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))

		holds, err := store.LiveHolds(ctx, vehicle.Car)
		require.NoError(t, err)
		assert.Len(t, holds, 2)
	})

	t.Run("車種ごとに分離されている", func(t *testing.T) {
		holds, err := store.LiveHolds(ctx, vehicle.Motorcycle)
		require.NoError(t, err)
		assert.Empty(t, holds)
	})
}

func TestHoldStore_ExpiredHoldsAreNeverReturned(t *testing.T) {
	client, _ := setupTestRedis(t)
	clk := clock.NewManual(holdNow)
	store := NewHoldStore(client, clk)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, hold.New(vehicle.Motorcycle, holdWindow, clk.Now())))

	clk.Advance(hold.TTL - time.Second)
	holds, err := store.LiveHolds(ctx, vehicle.Motorcycle)
	require.NoError(t, err)
	assert.Len(t, holds, 1)

	// expires_at ちょうどで期限切れ（削除前でも返さない）
	clk.Advance(time.Second)
	holds, err = store.LiveHolds(ctx, vehicle.Motorcycle)
	require.NoError(t, err)
	assert.Empty(t, holds)
}

func TestHoldStore_PurgeExpired(t *testing.T) {
	client, mr := setupTestRedis(t)
	clk := clock.NewManual(holdNow)
	store := NewHoldStore(client, clk)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))
	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))

	clk.Advance(2 * time.Minute)
	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))

	clk.Advance(4 * time.Minute)
	n, err := store.PurgeExpired(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	members, err := mr.ZMembers("holds:car")
	require.NoError(t, err)
	assert.Len(t, members, 1)

	holds, err := store.LiveHolds(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Len(t, holds, 1)
}

func TestHoldStore_PutRemovesExpiredLazily(t *testing.T) {
	client, mr := setupTestRedis(t)
	clk := clock.NewManual(holdNow)
	store := NewHoldStore(client, clk)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))
	clk.Advance(10 * time.Minute)
	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))

	members, err := mr.ZMembers("holds:car")
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.True(t, mr.TTL("holds:car") > 0)
}

func TestHoldStore_SkipsCorruptMembers(t *testing.T) {
	client, mr := setupTestRedis(t)
	clk := clock.NewManual(holdNow)
	store := NewHoldStore(client, clk)
	ctx := context.Background()

	_, err := mr.ZAdd("holds:car", float64(holdNow.Add(time.Minute).UnixMilli()), "{broken")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, hold.New(vehicle.Car, holdWindow, clk.Now())))

	holds, err := store.LiveHolds(ctx, vehicle.Car)
	require.NoError(t, err)
	assert.Len(t, holds, 1)
}

func TestHoldStore_StoreError(t *testing.T) {
	client, mr := setupTestRedis(t)
	store := NewHoldStore(client, clock.NewManual(holdNow))
	mr.Close()

	_, err := store.LiveHolds(context.Background(), vehicle.Car)
	assert.Error(t, err)
	assert.Error(t, store.Put(context.Background(), hold.New(vehicle.Car, holdWindow, holdNow)))
}
