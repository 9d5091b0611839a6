package gateway

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/catalog-gateway/internal/auth"
	"github.com/nao1215/catalog-gateway/internal/catalog"
	"github.com/nao1215/catalog-gateway/pkg/middleware"
)

// 利用者に返すエラーメッセージ。内部エラーの詳細は含めない。
const (
	msgInvalidRequest  = "リクエストの形式が不正です"
	msgAuthFailed      = "ユーザー名またはパスワードが正しくありません"
	msgNotFound        = "商品が見つかりません"
	msgUpstreamFailure = "商品カタログの取得に失敗しました"
	msgInternal        = "内部サーバーエラーが発生しました"
)

// statusFor はエラーをHTTPステータスコードと利用者向けメッセージに変換する。
func statusFor(err error) (int, string) {
	var upErr *catalog.UpstreamError
	switch {
	case errors.Is(err, auth.ErrAuthenticationFailed):
		return http.StatusUnauthorized, msgAuthFailed
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, catalog.ErrUpstreamMalformed):
		return http.StatusInternalServerError, msgUpstreamFailure
	case errors.As(err, &upErr):
		if upErr.StatusCode >= 400 && upErr.StatusCode <= 599 {
			return upErr.StatusCode, msgUpstreamFailure
		}
		return http.StatusInternalServerError, msgUpstreamFailure
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// respondError はエラーに対応するステータスで応答し、原因をログに出力する。
func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[Gateway] リクエスト処理に失敗: method=%s, path=%s, request_id=%s, status=%d, error=%v",
			c.Request.Method, c.Request.URL.Path, middleware.GetRequestID(c), status, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
