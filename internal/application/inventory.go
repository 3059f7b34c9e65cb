package application

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	redisinfra "github.com/sanosuguru/go-parking-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
)

// CachedInventory は車種別スペース一覧を読み込み時にキャッシュする在庫
// キャッシュの障害は警告ログのみで、元の在庫にフォールバックする
type CachedInventory struct {
	space.Inventory
	cache redisinfra.InventoryCacheInterface
	ttl   time.Duration
}

// NewCachedInventory は inv をキャッシュでラップする
// cache が nil または ttl が0以下ならキャッシュしない
func NewCachedInventory(inv space.Inventory, cache redisinfra.InventoryCacheInterface, ttl time.Duration) *CachedInventory {
	return &CachedInventory{Inventory: inv, cache: cache, ttl: ttl}
}

func (c *CachedInventory) enabled() bool {
	return c.cache != nil && c.ttl > 0
}

func (c *CachedInventory) ListByCapability(ctx context.Context, vt vehicle.Type) ([]*space.Space, error) {
	if c.enabled() {
		spaces, err := c.cache.Get(ctx, vt)
		if err == nil {
			logger.Debug("キャッシュヒット", zap.String("vehicle_type", vt.String()), zap.Int("count", len(spaces)))
			return spaces, nil
		}
		if !errors.Is(err, redisinfra.ErrCacheMiss) {
			logger.Warn("キャッシュ取得エラー", zap.Error(err))
		}
	}

	spaces, err := c.Inventory.ListByCapability(ctx, vt)
	if err != nil {
		return nil, err
	}

	if c.enabled() {
		if err := c.cache.Set(ctx, vt, spaces, c.ttl); err != nil {
			logger.Warn("キャッシュ保存エラー", zap.Error(err))
		}
	}
	return spaces, nil
}

func (c *CachedInventory) Create(ctx context.Context, s *space.Space) error {
	if err := c.Inventory.Create(ctx, s); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedInventory) CreateBulk(ctx context.Context, spaces []*space.Space) error {
	if err := c.Inventory.CreateBulk(ctx, spaces); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// invalidate は全車種のキャッシュを破棄する
func (c *CachedInventory) invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx, vehicle.All()...); err != nil {
		logger.Warn("キャッシュ無効化エラー", zap.Error(err))
	}
}

var _ space.Inventory = (*CachedInventory)(nil)
