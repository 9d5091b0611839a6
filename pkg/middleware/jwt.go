package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// contextKeyUsername は認証済みユーザー名をGinコンテキストに格納するキー。
const contextKeyUsername = "username"

// TokenValidator はBearerトークンを検証し、主体のユーザー名を返す。
type TokenValidator interface {
	ValidateToken(token string) (string, error)
}

// JWTAuth はBearerトークンを検証するGinミドルウェアを返す。
// 検証に成功した場合、コンテキストに "username" を設定する。
func JWTAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authorizationヘッダーが必要です",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Bearer トークン形式が不正です",
			})
			return
		}

		username, err := validator.ValidateToken(tokenString)
		if err != nil {
			log.Printf("[Auth] トークン検証に失敗: path=%s, error=%v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "トークンが無効です",
			})
			return
		}

		c.Set(contextKeyUsername, username)
		c.Next()
	}
}

// GetUsername はGinコンテキストから認証済みユーザー名を取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetUsername(c *gin.Context) string {
	username, _ := c.Get(contextKeyUsername)
	if name, ok := username.(string); ok {
		return name
	}
	return ""
}
