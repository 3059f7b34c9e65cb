package hold

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/vehicle"
	"github.com/sanosuguru/go-parking-reservation/internal/domain/window"
)

// Record はストアに保存するホールドの表現
// Nonce は同一内容のホールドを別エントリとして保持するためだけに使う
type Record struct {
	VehicleType string    `json:"vehicle_type"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	ExpiresAt   time.Time `json:"expires_at"`
	Nonce       string    `json:"nonce,omitempty"`
}

// Encode はホールドをJSONに変換する
func Encode(h *Hold, nonce string) ([]byte, error) {
	return json.Marshal(Record{
		VehicleType: string(h.VehicleType),
		Start:       h.Window.Start,
		End:         h.Window.End,
		ExpiresAt:   h.ExpiresAt,
		Nonce:       nonce,
	})
}

// Decode はJSONからホールドを復元する
func Decode(data []byte) (*Hold, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("ホールドのデコードに失敗: %w", err)
	}
	return &Hold{
		VehicleType: vehicle.Type(rec.VehicleType),
		Window:      window.New(rec.Start, rec.End),
		ExpiresAt:   rec.ExpiresAt,
	}, nil
}
