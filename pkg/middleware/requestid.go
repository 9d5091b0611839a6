package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/catalog-gateway/pkg/httpclient"
)

// maxRequestIDLength は受け入れるX-Request-IDの最大長。超える場合は新たに採番する。
const maxRequestIDLength = 128

// RequestID はX-Request-IDを引き継ぐか新たに採番するGinミドルウェアを返す。
// IDはレスポンスヘッダーに設定し、リクエストのコンテキストにも格納して上流呼び出しへ伝播させる。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(httpclient.HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		c.Header(httpclient.HeaderRequestID, id)
		c.Request = c.Request.WithContext(httpclient.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// GetRequestID はリクエストのコンテキストからリクエストIDを取得する。
func GetRequestID(c *gin.Context) string {
	id, _ := httpclient.RequestIDFrom(c.Request.Context())
	return id
}
