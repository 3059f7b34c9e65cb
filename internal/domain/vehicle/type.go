package vehicle

import (
	"fmt"
	"strings"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
)

// Type は車種を表す（閉じた列挙）
type Type string

const (
	Car        Type = "car"
	Motorcycle Type = "motorcycle"
)

// 車種のエラー定義
var (
	ErrVehicleTypeRequired = apperror.Validation("車種は必須です")
	ErrUnknownVehicleType  = apperror.Validation("未対応の車種です")
)

// All は対応している全車種を返す
func All() []Type {
	return []Type{Car, Motorcycle}
}

// Parse は文字列を車種に変換する
func Parse(s string) (Type, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return "", ErrVehicleTypeRequired
	}
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVehicleType, s)
	}
	return t, nil
}

// Valid は対応している車種かを返す
func (t Type) Valid() bool {
	switch t {
	case Car, Motorcycle:
		return true
	}
	return false
}

// Validate は車種の検証を行う
func (t Type) Validate() error {
	if t == "" {
		return ErrVehicleTypeRequired
	}
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownVehicleType, string(t))
	}
	return nil
}

func (t Type) String() string {
	return string(t)
}
