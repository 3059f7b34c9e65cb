package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-parking-reservation/internal/config"
	"github.com/sanosuguru/go-parking-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["migrate"])
	assert.True(t, names["version"])
}

func TestVersionCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "parking dev")
}

func TestMigrateDown_RejectsZeroSteps(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"migrate", "down", "--steps", "0"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}

func TestNeedsRedis(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ReservationConfig
		want bool
	}{
		{"Redisのホールドストア", config.ReservationConfig{HoldStore: config.HoldStoreRedis}, true},
		{"メモリのみ", config.ReservationConfig{HoldStore: config.HoldStoreMemory}, false},
		{"キャッシュ有効", config.ReservationConfig{HoldStore: config.HoldStoreMemory, InventoryCacheTTL: 1}, true},
		{"ロック有効", config.ReservationConfig{HoldStore: config.HoldStoreMemory, SpaceLockTTL: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsRedis(&config.Config{Reservation: tt.cfg}))
		})
	}
}

func TestNewHoldStore(t *testing.T) {
	clk := clock.NewSystem()

	t.Run("memory", func(t *testing.T) {
		s, err := newHoldStore(&config.Config{Reservation: config.ReservationConfig{HoldStore: config.HoldStoreMemory}}, nil, clk)
		require.NoError(t, err)
		assert.IsType(t, &memory.HoldStore{}, s)
	})

	t.Run("未対応の値はエラー", func(t *testing.T) {
		_, err := newHoldStore(&config.Config{Reservation: config.ReservationConfig{HoldStore: "etcd"}}, nil, clk)
		assert.Error(t, err)
	})
}

func TestHealthDependencies_WithoutRedis(t *testing.T) {
	deps := healthDependencies(nil, nil)

	require.Len(t, deps, 1)
	assert.Equal(t, "postgres", deps[0].Name)
}
