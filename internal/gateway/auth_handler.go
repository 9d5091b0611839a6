package gateway

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/catalog-gateway/internal/auth"
	"github.com/nao1215/catalog-gateway/pkg/middleware"
)

// loginRequest はPOST /api/auth/loginのリクエストボディ。
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// handleLogin はユーザー名とパスワードを照合してトークンを発行するハンドラを返す。
func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidRequest})
			return
		}

		token, err := s.auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrAuthenticationFailed) {
				log.Printf("[Auth] ログインに失敗: username=%q", req.Username)
			}
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token.Token})
	}
}

// handleMe は認証済みユーザーの情報を返すハンドラを返す。
func (s *Server) handleMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := middleware.GetUsername(c)
		if username == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ユーザー名が取得できません"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": username})
	}
}
