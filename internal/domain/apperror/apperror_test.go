package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidation(t *testing.T) {
	err := Validation("車種は必須です")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "車種は必須です")
}

func TestStoreUnavailable(t *testing.T) {
	cause := errors.New("connection refused")

	err := StoreUnavailable("台帳検索", cause)

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "台帳検索")
	assert.Nil(t, StoreUnavailable("noop", nil))
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"入力エラー", Validation("x"), ErrValidation},
		{"容量不足", fmt.Errorf("wrap: %w", ErrCapacity), ErrCapacity},
		{"競合", fmt.Errorf("wrap: %w", ErrConcurrencyConflict), ErrConcurrencyConflict},
		{"再試行後の競合は容量不足として扱う", fmt.Errorf("%w: %w", ErrCapacity, ErrConcurrencyConflict), ErrCapacity},
		{"ストア障害", StoreUnavailable("op", errors.New("x")), ErrStoreUnavailable},
		{"未分類", errors.New("unknown"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
