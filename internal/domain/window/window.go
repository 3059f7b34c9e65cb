// Package window は予約の時間帯と重複判定を扱う
package window

import (
	"time"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
)

// 時間帯のエラー定義
var (
	ErrStartRequired = apperror.Validation("開始時刻は必須です")
	ErrEndRequired   = apperror.Validation("終了時刻は必須です")
	ErrInvalidRange  = apperror.Validation("終了時刻は開始時刻以降である必要があります")
)

// Window は両端を含む時間帯 [Start, End] を表す
type Window struct {
	Start time.Time
	End   time.Time
}

// New は新しい時間帯を作成する
func New(start, end time.Time) Window {
	return Window{Start: start, End: end}
}

// Validate は時間帯の検証を行う
func (w Window) Validate() error {
	if w.Start.IsZero() {
		return ErrStartRequired
	}
	if w.End.IsZero() {
		return ErrEndRequired
	}
	if w.End.Before(w.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps は2つの時間帯が重なるかを返す
// 端点が接するだけでも重複とみなす: s1 <= e2 && e1 >= s2
func (w Window) Overlaps(other Window) bool {
	return !w.Start.After(other.End) && !w.End.Before(other.Start)
}

// Duration は時間帯の長さを返す
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Hours は時間帯の長さを時間単位で返す
func (w Window) Hours() float64 {
	return w.Duration().Hours()
}
