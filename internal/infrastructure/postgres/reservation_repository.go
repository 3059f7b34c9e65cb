package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/transaction"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
)

// PostgreSQL のエラーコード
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

const reservationColumns = `id, external_id, parking_space_id, reservation_start_at, reservation_end_at, duration, code, created_at`

type reservationRow struct {
	ID         int64     `db:"id"`
	ExternalID string    `db:"external_id"`
	SpaceID    int64     `db:"parking_space_id"`
	StartAt    time.Time `db:"reservation_start_at"`
	EndAt      time.Time `db:"reservation_end_at"`
	Duration   float64   `db:"duration"`
	Code       string    `db:"code"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *reservationRow) toEntity() *reservation.Reservation {
	return &reservation.Reservation{
		ID: r.ID, ExternalID: r.ExternalID, SpaceID: r.SpaceID,
		Window:   window.New(r.StartAt, r.EndAt),
		Duration: time.Duration(r.Duration * float64(time.Hour)),
		Code:     r.Code, CreatedAt: r.CreatedAt,
	}
}

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create はスペース行をロックして重複を再確認してから予約を挿入する
// 並行して同じスペースに確定しようとした側は apperror.ErrConcurrencyConflict になる
// 最終的な保証はテーブルの排他制約（EXCLUDE USING gist）が担う
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlTx := UnwrapTx(tx)
	if sqlTx == nil {
		return errors.New("PostgreSQLのトランザクションではありません")
	}

	var spaceID int64
	if err := sqlTx.GetContext(ctx, &spaceID, `SELECT id FROM parking_spaces WHERE id = $1 FOR UPDATE`, res.SpaceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return space.ErrSpaceNotFound
		}
		return fmt.Errorf("駐車スペースのロックに失敗: %w", err)
	}

	var overlapping int
	if err := sqlTx.GetContext(ctx, &overlapping,
		`SELECT COUNT(*) FROM parking_reservations WHERE parking_space_id = $1 AND reservation_start_at <= $3 AND reservation_end_at >= $2`,
		res.SpaceID, res.Window.Start, res.Window.End,
	); err != nil {
		return fmt.Errorf("重複予約の確認に失敗: %w", err)
	}
	if overlapping > 0 {
		return apperror.ErrConcurrencyConflict
	}

	query := `INSERT INTO parking_reservations (external_id, parking_space_id, reservation_start_at, reservation_end_at, duration, code, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := sqlTx.QueryRowContext(ctx, query,
		res.ExternalID, res.SpaceID, res.Window.Start, res.Window.End, res.Duration.Hours(), res.Code, res.CreatedAt,
	).Scan(&res.ID)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgExclusionViolation:
				return apperror.ErrConcurrencyConflict
			case pgUniqueViolation:
				return reservation.ErrCodeAlreadyExists
			}
		}
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	return nil
}

// ListOverlapping は指定スペース群で [start, end] と重なる予約を返す
func (r *ReservationRepository) ListOverlapping(ctx context.Context, spaceIDs []int64, w window.Window) ([]*reservation.Reservation, error) {
	if len(spaceIDs) == 0 {
		return []*reservation.Reservation{}, nil
	}
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM parking_reservations WHERE parking_space_id = ANY($1) AND reservation_start_at <= $3 AND reservation_end_at >= $2 ORDER BY parking_space_id, reservation_start_at`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(spaceIDs), w.Start, w.End); err != nil {
		return nil, fmt.Errorf("重複予約の検索に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result, nil
}

func (r *ReservationRepository) GetByCode(ctx context.Context, code string) (*reservation.Reservation, error) {
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM parking_reservations WHERE code = $1`, code)
}

func (r *ReservationRepository) GetByExternalID(ctx context.Context, externalID string) (*reservation.Reservation, error) {
	return r.getOne(ctx, `SELECT `+reservationColumns+` FROM parking_reservations WHERE external_id = $1`, externalID)
}

func (r *ReservationRepository) getOne(ctx context.Context, query string, arg interface{}) (*reservation.Reservation, error) {
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

var _ reservation.Ledger = (*ReservationRepository)(nil)
