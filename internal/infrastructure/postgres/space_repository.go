package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/space"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
)

const spaceColumns = `id, external_id, can_park_car, can_park_motorcycle, created_at, updated_at`

type spaceRow struct {
	ID                int64     `db:"id"`
	ExternalID        string    `db:"external_id"`
	CanParkCar        bool      `db:"can_park_car"`
	CanParkMotorcycle bool      `db:"can_park_motorcycle"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

func (r *spaceRow) toEntity() *space.Space {
	return &space.Space{
		ID: r.ID, ExternalID: r.ExternalID,
		CarCapable: r.CanParkCar, MotorcycleCapable: r.CanParkMotorcycle,
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type SpaceRepository struct{ db *sqlx.DB }

func NewSpaceRepository(db *sqlx.DB) *SpaceRepository { return &SpaceRepository{db: db} }

func (r *SpaceRepository) Create(ctx context.Context, s *space.Space) error {
	query := `INSERT INTO parking_spaces (external_id, can_park_car, can_park_motorcycle, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.ExternalID, s.CarCapable, s.MotorcycleCapable, s.CreatedAt, s.UpdatedAt).Scan(&s.ID); err != nil {
		return fmt.Errorf("駐車スペース作成に失敗: %w", err)
	}
	return nil
}

func (r *SpaceRepository) CreateBulk(ctx context.Context, spaces []*space.Space) error {
	if len(spaces) == 0 {
		return nil
	}

	// バッチサイズごとに分割してマルチバリューINSERTを実行
	const batchSize = 1000
	for i := 0; i < len(spaces); i += batchSize {
		end := i + batchSize
		if end > len(spaces) {
			end = len(spaces)
		}
		if err := r.createBulkBatch(ctx, spaces[i:end]); err != nil {
			return err
		}
	}
	return nil
}

// createBulkBatch はバッチ単位でINSERTし、採番されたIDを書き戻す
func (r *SpaceRepository) createBulkBatch(ctx context.Context, spaces []*space.Space) error {
	const cols = 5
	args := make([]interface{}, 0, len(spaces)*cols)
	placeholders := make([]string, 0, len(spaces))
	for i, s := range spaces {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5))
		args = append(args, s.ExternalID, s.CarCapable, s.MotorcycleCapable, s.CreatedAt, s.UpdatedAt)
	}

	query := `INSERT INTO parking_spaces (external_id, can_park_car, can_park_motorcycle, created_at, updated_at) VALUES ` +
		strings.Join(placeholders, ", ") + ` RETURNING id, external_id`

	var rows []struct {
		ID         int64  `db:"id"`
		ExternalID string `db:"external_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return fmt.Errorf("駐車スペース一括作成に失敗: %w", err)
	}
	ids := make(map[string]int64, len(rows))
	for _, row := range rows {
		ids[row.ExternalID] = row.ID
	}
	for _, s := range spaces {
		s.ID = ids[s.ExternalID]
	}
	return nil
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*space.Space, error) {
	var row spaceRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+spaceColumns+` FROM parking_spaces WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, space.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("駐車スペース取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SpaceRepository) List(ctx context.Context, limit, offset int) ([]*space.Space, error) {
	var rows []spaceRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+spaceColumns+` FROM parking_spaces ORDER BY id LIMIT $1 OFFSET $2`, limit, offset); err != nil {
		return nil, fmt.Errorf("駐車スペース一覧取得に失敗: %w", err)
	}
	return toSpaces(rows), nil
}

// ListByCapability は車種に対応するフラグが立っているスペースをID順で返す
// 未対応の車種は空集合
func (r *SpaceRepository) ListByCapability(ctx context.Context, vt vehicle.Type) ([]*space.Space, error) {
	var column string
	switch vt {
	case vehicle.Car:
		column = "can_park_car"
	case vehicle.Motorcycle:
		column = "can_park_motorcycle"
	default:
		return []*space.Space{}, nil
	}

	var rows []spaceRow
	query := `SELECT ` + spaceColumns + ` FROM parking_spaces WHERE ` + column + ` = TRUE ORDER BY id`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("駐車スペース検索に失敗: %w", err)
	}
	return toSpaces(rows), nil
}

func toSpaces(rows []spaceRow) []*space.Space {
	spaces := make([]*space.Space, len(rows))
	for i := range rows {
		spaces[i] = rows[i].toEntity()
	}
	return spaces
}

var _ space.Inventory = (*SpaceRepository)(nil)
