package space

import (
	"errors"

	"github.com/sanosuguru/go-parking-reservation/internal/domain/apperror"
)

// Space ドメインのエラー定義
var (
	ErrSpaceNotFound = errors.New("駐車スペースが見つかりません")
	ErrNoCapability  = apperror.Validation("駐車できる車種が1つ以上必要です")
)
