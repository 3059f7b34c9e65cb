package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-parking-reservation/internal/pkg/logger"
)

// HoldPurger は期限切れホールドを削除するインターフェース
type HoldPurger interface {
	PurgeExpiredHolds(ctx context.Context) (int, error)
}

// ExpiredHoldSweeper は期限切れホールドを定期的に削除するワーカー
// 読み取り側は常に有効期限で絞り込むため、掃除が止まっても空き判定は変わらない
type ExpiredHoldSweeper struct {
	purger   HoldPurger
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewExpiredHoldSweeper は新しいスイーパーを作成
func NewExpiredHoldSweeper(p HoldPurger, interval time.Duration) *ExpiredHoldSweeper {
	return &ExpiredHoldSweeper{
		purger:   p,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はスイーパーを開始（呼び出し元をブロックする）
func (s *ExpiredHoldSweeper) Start(ctx context.Context) {
	defer close(s.doneCh)
	if s.interval <= 0 {
		logger.Info("期限切れホールドの掃除は無効")
		return
	}

	logger.Info("期限切れホールドスイーパー開始", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("期限切れホールドスイーパー停止（コンテキストキャンセル）")
			return
		case <-s.stopCh:
			logger.Info("期限切れホールドスイーパー停止（シグナル受信）")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// Stop はスイーパーを停止し、終了を待つ
func (s *ExpiredHoldSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
}

// sweep は期限切れホールドを削除
func (s *ExpiredHoldSweeper) sweep(ctx context.Context) {
	log := logger.Get()

	count, err := s.purger.PurgeExpiredHolds(ctx)
	if err != nil {
		log.Error("期限切れホールドの削除失敗", zap.Error(err))
		return
	}

	if count > 0 {
		log.Info("期限切れホールドを削除", zap.Int("count", count))
	} else {
		log.Debug("期限切れホールドなし")
	}
}
