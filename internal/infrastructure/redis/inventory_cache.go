package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// InventoryCacheInterface は車種別スペース一覧キャッシュのインターフェース
type InventoryCacheInterface interface {
	Get(ctx context.Context, vt vehicle.Type) ([]*space.Space, error)
	Set(ctx context.Context, vt vehicle.Type, spaces []*space.Space, ttl time.Duration) error
	Invalidate(ctx context.Context, vts ...vehicle.Type) error
}

// InventoryCache は車種ごとの駐車可能スペース一覧をキャッシュする
// 予約・ホールドの状態は含めない（在庫は不変のためキャッシュしても空き判定は狂わない）
type InventoryCache struct {
	client redis.Cmdable
}

type cachedSpace struct {
	ID                int64     `json:"id"`
	ExternalID        string    `json:"external_id"`
	CarCapable        bool      `json:"car_capable"`
	MotorcycleCapable bool      `json:"motorcycle_capable"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewInventoryCache は新しいInventoryCacheインスタンスを作成する
func NewInventoryCache(client redis.Cmdable) *InventoryCache {
	return &InventoryCache{client: client}
}

// Get は車種別のスペース一覧をキャッシュから取得する
func (c *InventoryCache) Get(ctx context.Context, vt vehicle.Type) ([]*space.Space, error) {
	data, err := c.client.Get(ctx, c.key(vt)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	var rows []cachedSpace
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("キャッシュのデコードに失敗: %w", err)
	}
	spaces := make([]*space.Space, len(rows))
	for i, r := range rows {
		spaces[i] = &space.Space{
			ID: r.ID, ExternalID: r.ExternalID,
			CarCapable: r.CarCapable, MotorcycleCapable: r.MotorcycleCapable,
			CreatedAt: r.CreatedAt, UpdatedAt: r.CreatedAt,
		}
	}
	return spaces, nil
}

// Set は車種別のスペース一覧をキャッシュに保存する
func (c *InventoryCache) Set(ctx context.Context, vt vehicle.Type, spaces []*space.Space, ttl time.Duration) error {
	rows := make([]cachedSpace, len(spaces))
	for i, s := range spaces {
		rows[i] = cachedSpace{
			ID: s.ID, ExternalID: s.ExternalID,
			CarCapable: s.CarCapable, MotorcycleCapable: s.MotorcycleCapable,
			CreatedAt: s.CreatedAt,
		}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("キャッシュのエンコードに失敗: %w", err)
	}
	if err := c.client.Set(ctx, c.key(vt), data, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は指定車種のキャッシュを無効化する。未指定なら全車種
func (c *InventoryCache) Invalidate(ctx context.Context, vts ...vehicle.Type) error {
	if len(vts) == 0 {
		vts = vehicle.All()
	}
	keys := make([]string, len(vts))
	for i, vt := range vts {
		keys[i] = c.key(vt)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *InventoryCache) key(vt vehicle.Type) string {
	return "spaces:capable:" + string(vt)
}

var _ InventoryCacheInterface = (*InventoryCache)(nil)
