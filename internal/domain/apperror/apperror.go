// Package apperror は呼び出し側が分岐に使うエラー種別を定義する
package apperror

import (
	"errors"
	"fmt"
)

// エラー種別
// 各ドメインのエラーはいずれかの種別をラップするため errors.Is で判定できる
var (
	// ErrValidation は入力不備（ストアアクセス前に返す、リトライ不可）
	ErrValidation = errors.New("入力が不正です")
	// ErrCapacity は確定時点で空き駐車スペースがない
	ErrCapacity = errors.New("空いている駐車スペースがありません")
	// ErrConcurrencyConflict は同じスペース・時間帯への並行確定に負けた
	ErrConcurrencyConflict = errors.New("他の予約と競合しました")
	// ErrStoreUnavailable は在庫・台帳・ホールドストアのI/O障害
	ErrStoreUnavailable = errors.New("ストアが利用できません")
)

// Validation は ErrValidation をラップした入力エラーを作成する
func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// StoreUnavailable はストアのI/Oエラーを ErrStoreUnavailable でラップする
// 元のエラーもチェーンに残る
func StoreUnavailable(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// Kind はエラーの種別を返す。どれにも当てはまらなければ nil
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrCapacity, ErrConcurrencyConflict, ErrStoreUnavailable} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
