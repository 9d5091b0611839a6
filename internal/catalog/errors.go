package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound は上流が対象の商品を見つけられなかった（404）ことを表す。
	ErrNotFound = errors.New("商品が見つかりません")
	// ErrUpstreamMalformed は上流の応答が期待する形をしていないことを表す。
	ErrUpstreamMalformed = errors.New("上流の応答形式が不正です")
)

// UpstreamError は上流呼び出しの失敗を表す。
// StatusCodeは上流が404以外の2xx以外のステータスを返した場合にその値を持ち、
// 通信エラーなどステータスが得られなかった場合は0となる。
type UpstreamError struct {
	StatusCode int
	Err        error
}

// Error はerrorインターフェースを実装する。
func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("上流呼び出しに失敗: %v", e.Err)
	}
	return fmt.Sprintf("上流呼び出しに失敗: status=%d: %v", e.StatusCode, e.Err)
}

// Unwrap は原因のエラーを返す。
func (e *UpstreamError) Unwrap() error {
	return e.Err
}
