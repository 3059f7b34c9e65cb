package hold

import (
	"context"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

// Store は期限付きホールドを保持するストアのインターフェース
type Store interface {
	// Put はホールドを追加する。重複排除は行わない
	Put(ctx context.Context, h *Hold) error

	// LiveHolds は指定車種の有効なホールドを返す
	// 期限切れのホールドは削除前であっても返さない
	LiveHolds(ctx context.Context, vt vehicle.Type) ([]*Hold, error)

	// PurgeExpired は期限切れのホールドを削除し、削除件数を返す
	PurgeExpired(ctx context.Context, vt vehicle.Type) (int, error)
}
