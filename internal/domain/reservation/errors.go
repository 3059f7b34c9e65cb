package reservation

import (
	"errors"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
)

// Reservation ドメインのエラー定義
var (
	ErrReservationNotFound = errors.New("予約が見つかりません")
	ErrSpaceIDRequired     = apperror.Validation("駐車スペースIDは必須です")
	ErrCodeRequired        = apperror.Validation("確認コードは必須です")
	ErrCodeAlreadyExists   = errors.New("同じ確認コードの予約が既に存在します")
)
