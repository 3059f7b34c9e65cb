package reservation

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
)

// codePrefix は確認コードの接頭辞
const codePrefix = "PK-"

// Reservation は確定済み予約エンティティを表す
// 必ず1つの駐車スペースに紐づき、作成後は変更しない
type Reservation struct {
	ID         int64
	ExternalID string
	SpaceID    int64
	Window     window.Window
	Duration   time.Duration
	Code       string
	CreatedAt  time.Time
}

// NewReservation は指定スペースへの新しい予約を作成する
// ExternalID と確認コードはこの時点で採番する
func NewReservation(spaceID int64, w window.Window) *Reservation {
	return &Reservation{
		ExternalID: uuid.NewString(),
		SpaceID:    spaceID,
		Window:     w,
		Duration:   w.Duration(),
		Code:       NewCode(),
		CreatedAt:  time.Now(),
	}
}

// NewCode は利用者向けの確認コードを生成する（例: PK-3F2A9C1B）
func NewCode() string {
	id := uuid.New()
	return codePrefix + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}

// Validate は予約の検証を行う
func (r *Reservation) Validate() error {
	if r.SpaceID == 0 {
		return ErrSpaceIDRequired
	}
	if r.Code == "" {
		return ErrCodeRequired
	}
	return r.Window.Validate()
}

// Overlaps は予約の時間帯が指定時間帯と重なるかを返す
func (r *Reservation) Overlaps(w window.Window) bool {
	return r.Window.Overlaps(w)
}

// SpaceIDs は予約が占有しているスペースIDの集合を返す
func SpaceIDs(reservations []*Reservation) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(reservations))
	for _, r := range reservations {
		ids[r.SpaceID] = struct{}{}
	}
	return ids
}
