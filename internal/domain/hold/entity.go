package hold

import (
	"time"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
)

// TTL はホールドの有効期間（固定）
const TTL = 5 * time.Minute

// Hold は車種単位の一時的な容量確保を表す
// 特定のスペースには紐づかず、台帳にも保存しない
type Hold struct {
	VehicleType vehicle.Type
	Window      window.Window
	ExpiresAt   time.Time
}

// New は now を基準に有効期限を設定したホールドを作成する
func New(vt vehicle.Type, w window.Window, now time.Time) *Hold {
	return &Hold{
		VehicleType: vt,
		Window:      w,
		ExpiresAt:   now.Add(TTL),
	}
}

// IsLive は now 時点でホールドが有効かを返す
func (h *Hold) IsLive(now time.Time) bool {
	return h.ExpiresAt.After(now)
}

// Validate はホールドの検証を行う
func (h *Hold) Validate() error {
	if err := h.VehicleType.Validate(); err != nil {
		return err
	}
	return h.Window.Validate()
}

// CountOverlapping は now 時点で有効かつ w と重なるホールドの件数を返す
func CountOverlapping(holds []*Hold, w window.Window, now time.Time) int {
	n := 0
	for _, h := range holds {
		if h.IsLive(now) && h.Window.Overlaps(w) {
			n++
		}
	}
	return n
}
