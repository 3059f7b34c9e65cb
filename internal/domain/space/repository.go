package space

import (
	"context"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

// Inventory は駐車スペース在庫のインターフェース
type Inventory interface {
	// Create は新しい駐車スペースを作成する
	Create(ctx context.Context, space *Space) error

	// CreateBulk は複数の駐車スペースを一括作成する
	CreateBulk(ctx context.Context, spaces []*Space) error

	// GetByID はIDから駐車スペースを取得する
	GetByID(ctx context.Context, id int64) (*Space, error)

	// List は駐車スペース一覧をID順で取得する
	List(ctx context.Context, limit, offset int) ([]*Space, error)

	// ListByCapability は指定車種を駐車できるスペースをID順で取得する
	ListByCapability(ctx context.Context, vt vehicle.Type) ([]*Space, error)
}
