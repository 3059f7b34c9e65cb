package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
)

// HoldStore は車種ごとのソート済みセットにホールドを保持する
// スコアは expires_at（ミリ秒）。読み取り時は必ず expires_at で絞り込む
type HoldStore struct {
	client redis.Cmdable
	clock  clock.Clock
}

// NewHoldStore は新しいHoldStoreを作成する
func NewHoldStore(client redis.Cmdable, clk clock.Clock) *HoldStore {
	return &HoldStore{client: client, clock: clk}
}

// Put はホールドを追加する
// 同じ内容のホールドも別メンバーになるよう nonce を付与する
func (s *HoldStore) Put(ctx context.Context, h *hold.Hold) error {
	member, err := hold.Encode(h, uuid.NewString())
	if err != nil {
		return err
	}
	key := s.key(h.VehicleType)
	now := s.clock.Now()

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(h.ExpiresAt.UnixMilli()), Member: string(member)})
		// ついでに期限切れを掃除する（正しさには影響しない）
		pipe.ZRemRangeByScore(ctx, key, "-inf", expiredBefore(now))
		// 最後のホールドが切れたらキーごと消える
		pipe.PExpire(ctx, key, hold.TTL+time.Minute)
		return nil
	})
	if err != nil {
		return fmt.Errorf("ホールド保存に失敗: %w", err)
	}
	return nil
}

// LiveHolds は指定車種の有効なホールドを返す
func (s *HoldStore) LiveHolds(ctx context.Context, vt vehicle.Type) ([]*hold.Hold, error) {
	now := s.clock.Now()
	members, err := s.client.ZRangeByScore(ctx, s.key(vt), &redis.ZRangeBy{
		Min: strconv.FormatInt(now.UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("ホールド取得に失敗: %w", err)
	}

	holds := make([]*hold.Hold, 0, len(members))
	for _, m := range members {
		h, err := hold.Decode([]byte(m))
		if err != nil {
			logger.Warn("壊れたホールドを無視します", zap.String("vehicle_type", string(vt)), zap.Error(err))
			continue
		}
		// スコアはミリ秒に丸めているため expires_at 本体でも判定する
		if !h.IsLive(now) {
			continue
		}
		holds = append(holds, h)
	}
	return holds, nil
}

// PurgeExpired は期限切れのホールドを削除する
func (s *HoldStore) PurgeExpired(ctx context.Context, vt vehicle.Type) (int, error) {
	now := s.clock.Now()
	n, err := s.client.ZRemRangeByScore(ctx, s.key(vt), "-inf", expiredBefore(now)).Result()
	if err != nil {
		return 0, fmt.Errorf("期限切れホールドの削除に失敗: %w", err)
	}
	return int(n), nil
}

// expiredBefore は確実に期限切れと言えるスコアの上限（排他）を返す
// スコアはミリ秒に切り捨てているため now と同じミリ秒のものは残す
func expiredBefore(now time.Time) string {
	return "(" + strconv.FormatInt(now.UnixMilli(), 10)
}

func (s *HoldStore) key(vt vehicle.Type) string {
	return "holds:" + string(vt)
}

var _ hold.Store = (*HoldStore)(nil)
