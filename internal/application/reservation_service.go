package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/hold"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
	redisinfra "github.com/sanosuguru/go-parking-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/clock"
	"github.com/sanosuguru/go-parking-reservation/internal/pkg/metrics"
)

const (
	defaultSpaceLockTTL = 10 * time.Second
	lockMaxRetries      = 3
	lockRetryDelay      = 50 * time.Millisecond
	// 確認コードが衝突した場合の再採番回数
	maxCodeAttempts = 3
)

// ReservationService はホールド・空き確認・予約確定の入口
// 台帳への書き込みはこのサービスの CreateReservation からのみ行う
type ReservationService struct {
	engine      *AvailabilityEngine
	holds       hold.Store
	ledger      reservation.Ledger
	txManager   transaction.Manager
	lockManager redisinfra.LockManagerInterface
	lockTTL     time.Duration
	clock       clock.Clock
	metrics     *metrics.Metrics
}

// ReservationOption は ReservationService のオプション
type ReservationOption func(*ReservationService)

// WithSpaceLock は確定時にスペース単位の分散ロックを取る
func WithSpaceLock(lm redisinfra.LockManagerInterface, ttl time.Duration) ReservationOption {
	return func(s *ReservationService) {
		s.lockManager = lm
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithMetrics はメトリクスの記録先を設定する
func WithMetrics(m *metrics.Metrics) ReservationOption {
	return func(s *ReservationService) { s.metrics = m }
}

// WithClock は現在時刻の取得元を差し替える
func WithClock(c clock.Clock) ReservationOption {
	return func(s *ReservationService) { s.clock = c }
}

func NewReservationService(
	engine *AvailabilityEngine,
	holds hold.Store,
	ledger reservation.Ledger,
	txManager transaction.Manager,
	opts ...ReservationOption,
) *ReservationService {
	s := &ReservationService{
		engine:    engine,
		holds:     holds,
		ledger:    ledger,
		txManager: txManager,
		lockTTL:   defaultSpaceLockTTL,
		clock:     clock.NewSystem(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type HoldInput struct {
	VehicleType vehicle.Type
	Start       time.Time
	End         time.Time
}

type AvailabilityInput struct {
	VehicleType vehicle.Type
	Start       time.Time
	End         time.Time
}

type CreateReservationInput struct {
	VehicleType vehicle.Type
	Start       time.Time
	End         time.Time
}

// AvailabilityResult は空き確認の結果
type AvailabilityResult struct {
	VehicleType vehicle.Type
	Window      window.Window
	Available   bool
	FreeCount   int
}

// validateRequest はストアにアクセスする前に入力を検証する
func validateRequest(vt vehicle.Type, w window.Window) error {
	if err := vt.Validate(); err != nil {
		return err
	}
	return w.Validate()
}

// Hold は車種単位の一時的な容量確保を追加する
// 空きの確認は行わない。重複排除もしない
func (s *ReservationService) Hold(ctx context.Context, input HoldInput) (*hold.Hold, error) {
	w := window.New(input.Start, input.End)
	if err := validateRequest(input.VehicleType, w); err != nil {
		return nil, err
	}

	h := hold.New(input.VehicleType, w, s.clock.Now())
	if err := s.holds.Put(ctx, h); err != nil {
		return nil, apperror.StoreUnavailable("ホールドの保存", err)
	}

	if s.metrics != nil {
		s.metrics.HoldsTotal.WithLabelValues(h.VehicleType.String()).Inc()
	}
	return h, nil
}

// IsAvailable は指定車種・時間帯に空きがあるかを返す
func (s *ReservationService) IsAvailable(ctx context.Context, vt vehicle.Type, w window.Window) (bool, error) {
	res, err := s.CheckAvailability(ctx, AvailabilityInput{VehicleType: vt, Start: w.Start, End: w.End})
	if err != nil {
		return false, err
	}
	return res.Available, nil
}

// CheckAvailability は空き状況を返す
func (s *ReservationService) CheckAvailability(ctx context.Context, input AvailabilityInput) (*AvailabilityResult, error) {
	w := window.New(input.Start, input.End)
	if err := validateRequest(input.VehicleType, w); err != nil {
		return nil, err
	}

	snap, err := s.engine.Snapshot(ctx, input.VehicleType, w)
	if err != nil {
		return nil, err
	}

	result := &AvailabilityResult{
		VehicleType: input.VehicleType,
		Window:      w,
		Available:   snap.Available(),
		FreeCount:   max(snap.Free, 0),
	}
	if s.metrics != nil {
		label := "full"
		if result.Available {
			label = "available"
		}
		s.metrics.AvailabilityChecksTotal.WithLabelValues(input.VehicleType.String(), label).Inc()
	}
	return result, nil
}

// CreateReservation は空きを確認してスペースを選び、台帳に予約を確定する
// 並行確定に負けた場合は1回だけやり直し、再度負けたら満車として返す
func (s *ReservationService) CreateReservation(ctx context.Context, input CreateReservationInput) (*reservation.Reservation, error) {
	w := window.New(input.Start, input.End)
	if err := validateRequest(input.VehicleType, w); err != nil {
		s.recordReservation(err)
		return nil, err
	}

	res, err := s.reserve(ctx, input.VehicleType, w)
	if errors.Is(err, apperror.ErrConcurrencyConflict) {
		res, err = s.reserve(ctx, input.VehicleType, w)
		if errors.Is(err, apperror.ErrConcurrencyConflict) {
			err = fmt.Errorf("%w: %w", apperror.ErrCapacity, err)
		}
	}
	s.recordReservation(err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// reserve は1回分の 空き確認 → スペース選択 → ロック → 台帳書き込み を行う
func (s *ReservationService) reserve(ctx context.Context, vt vehicle.Type, w window.Window) (*reservation.Reservation, error) {
	snap, err := s.engine.Snapshot(ctx, vt, w)
	if err != nil {
		return nil, err
	}
	if !snap.Available() {
		return nil, apperror.ErrCapacity
	}

	selected := SelectSpace(vt, snap.FreeSpaces())
	if selected == nil {
		return nil, apperror.ErrCapacity
	}

	if s.lockManager != nil {
		lock, err := s.acquireSpaceLock(ctx, selected.ID)
		if err != nil {
			return nil, err
		}
		defer s.releaseSpaceLock(ctx, lock)
	}

	return s.commit(ctx, selected.ID, w)
}

// commit は台帳に予約を書き込む
// 台帳側でスペース行のロックと重複の再確認を行い、負けた場合は ErrConcurrencyConflict
func (s *ReservationService) commit(ctx context.Context, spaceID int64, w window.Window) (*reservation.Reservation, error) {
	for attempt := 1; ; attempt++ {
		res := reservation.NewReservation(spaceID, w)
		res.CreatedAt = s.clock.Now()
		if err := res.Validate(); err != nil {
			return nil, err
		}

		err := transaction.Run(ctx, s.txManager, func(tx transaction.Tx) error {
			return s.ledger.Create(ctx, tx, res)
		})
		switch {
		case err == nil:
			return res, nil
		case errors.Is(err, apperror.ErrConcurrencyConflict):
			return nil, err
		case errors.Is(err, reservation.ErrCodeAlreadyExists) && attempt < maxCodeAttempts:
			continue
		default:
			return nil, apperror.StoreUnavailable("予約の作成", err)
		}
	}
}

func (s *ReservationService) acquireSpaceLock(ctx context.Context, spaceID int64) (redisinfra.Lock, error) {
	start := time.Now()
	lock, err := s.lockManager.AcquireLockWithRetry(ctx, redisinfra.SpaceLockKey(spaceID), s.lockTTL, lockMaxRetries, lockRetryDelay)
	s.observeLock("acquire", start, err)
	if err != nil {
		if errors.Is(err, redisinfra.ErrLockNotAcquired) {
			return nil, fmt.Errorf("%w: %w", apperror.ErrConcurrencyConflict, err)
		}
		return nil, apperror.StoreUnavailable("スペースロックの取得", err)
	}
	return lock, nil
}

// releaseSpaceLock はロックを解放する。期限切れで失われていても確定結果には影響しない
func (s *ReservationService) releaseSpaceLock(ctx context.Context, lock redisinfra.Lock) {
	start := time.Now()
	err := lock.Release(context.WithoutCancel(ctx))
	s.observeLock("release", start, err)
}

func (s *ReservationService) observeLock(op string, start time.Time, err error) {
	if s.metrics == nil {
		return
	}
	status := metrics.StatusSuccess
	if err != nil {
		status = "failed"
	}
	s.metrics.SpaceLockDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

func (s *ReservationService) recordReservation(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.ReservationsTotal.WithLabelValues(reservationStatus(err)).Inc()
}

// reservationStatus は確定結果をメトリクスのラベルに変換する
// やり直し後の競合は満車として返すが、ラベルは conflict で数える
func reservationStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusSuccess
	case errors.Is(err, apperror.ErrValidation):
		return metrics.StatusInvalid
	case errors.Is(err, apperror.ErrConcurrencyConflict):
		return metrics.StatusConflict
	case errors.Is(err, apperror.ErrCapacity):
		return metrics.StatusNoCapacity
	default:
		return metrics.StatusError
	}
}

// GetReservation は確認コードから予約を取得する
func (s *ReservationService) GetReservation(ctx context.Context, code string) (*reservation.Reservation, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, reservation.ErrCodeRequired
	}
	res, err := s.ledger.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, reservation.ErrReservationNotFound) {
			return nil, err
		}
		return nil, apperror.StoreUnavailable("予約の取得", err)
	}
	return res, nil
}

// PurgeExpiredHolds は全車種の期限切れホールドを削除し、削除件数を返す
// 掃除は省メモリのためだけで、空き判定の正しさには関係しない
func (s *ReservationService) PurgeExpiredHolds(ctx context.Context) (int, error) {
	total := 0
	for _, vt := range vehicle.All() {
		n, err := s.holds.PurgeExpired(ctx, vt)
		if err != nil {
			return total, apperror.StoreUnavailable("期限切れホールドの削除", err)
		}
		if s.metrics != nil && n > 0 {
			s.metrics.ExpiredHoldsPurged.WithLabelValues(vt.String()).Add(float64(n))
		}
		total += n
	}
	return total, nil
}
