package reservation

import (
	"context"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
)

// Ledger は確定済み予約台帳のインターフェース
type Ledger interface {
	// Create は予約を作成する（トランザクション必須）
	// 同じスペースに重なる予約が既にある場合は apperror.ErrConcurrencyConflict を返す
	Create(ctx context.Context, tx transaction.Tx, r *Reservation) error

	// ListOverlapping は指定スペース群で時間帯が重なる予約を取得する
	ListOverlapping(ctx context.Context, spaceIDs []int64, w window.Window) ([]*Reservation, error)

	// GetByCode は確認コードから予約を取得する
	GetByCode(ctx context.Context, code string) (*Reservation, error)

	// GetByExternalID は外部IDから予約を取得する
	GetByExternalID(ctx context.Context, externalID string) (*Reservation, error)
}
