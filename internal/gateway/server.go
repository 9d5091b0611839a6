package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/catalog-gateway/internal/auth"
	"github.com/nao1215/catalog-gateway/internal/catalog"
	"github.com/nao1215/catalog-gateway/pkg/cache"
	"github.com/nao1215/catalog-gateway/pkg/clock"
	"github.com/nao1215/catalog-gateway/pkg/config"
	"github.com/nao1215/catalog-gateway/pkg/middleware"
)

// cacheKeyPrefix はRedisに保存するキーの接頭辞。
const cacheKeyPrefix = "catalog-gateway:"

// loginService はログインとトークン検証を行う。auth.Authenticatorが実装する。
type loginService interface {
	Login(ctx context.Context, username, password string) (auth.AuthToken, error)
	middleware.TokenValidator
}

// Server はGatewayサービスのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// httpServer はrouterを配信するHTTPサーバー。
	httpServer *http.Server
	// auth はログインとトークン検証を行う。
	auth loginService
	// catalog は上流カタログから生のJSONを取得する。
	catalog catalog.Fetcher
	// requireAuth がtrueの場合、商品APIにBearerトークンを要求する。
	requireAuth bool
	// closers はShutdown時に解放するリソース。
	closers []io.Closer
}

// options はServerの組み立てに必要な依存。
type options struct {
	port        string
	frontendURL string
	auth        loginService
	catalog     catalog.Fetcher
	requireAuth bool
	closers     []io.Closer
}

// NewServer は設定から依存を組み立て、新しいGatewayサーバーを生成する。
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	store, err := auth.NewCredentialStore(ctx, auth.DefaultUsers())
	if err != nil {
		return nil, fmt.Errorf("資格情報ストアの初期化に失敗: %w", err)
	}

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, clock.NewRealClock())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("トークン発行者の初期化に失敗: %w", err)
	}

	closers := []io.Closer{store}

	var respCache catalog.Cache
	if cfg.CacheEnabled() {
		rc := cache.NewRedis(cache.RedisOptions{
			Addr:    cfg.CacheRedisAddr,
			TTL:     cfg.CacheTTL,
			Prefix:  cacheKeyPrefix,
			Timeout: time.Second,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			// キャッシュ障害時は上流から直接取得する
			log.Printf("[Gateway] Redisに接続できません。キャッシュなしで動作します: addr=%s, error=%v", cfg.CacheRedisAddr, err)
		}
		cancel()
		respCache = rc
		closers = append(closers, rc)
	}

	client := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)

	return newServer(options{
		port:        cfg.Port,
		frontendURL: cfg.FrontendURL,
		auth:        auth.NewAuthenticator(store, issuer),
		catalog:     catalog.NewCachingFetcher(client, respCache),
		requireAuth: cfg.ProductsRequireAuth,
		closers:     closers,
	}), nil
}

// newServer は組み立て済みの依存からServerを生成する。
func newServer(opts options) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{opts.frontendURL}))

	s := &Server{
		router:      router,
		auth:        opts.auth,
		catalog:     opts.catalog,
		requireAuth: opts.requireAuth,
		closers:     opts.closers,
		httpServer: &http.Server{
			Addr:              ":" + opts.port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.setupRoutes()

	return s
}

// Handler はルーティング済みのHTTPハンドラーを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run はHTTPサーバーを起動する。Shutdownが呼ばれるまで戻らない。
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTPサーバーの起動に失敗: %w", err)
	}
	return nil
}

// Shutdown は処理中のリクエストの完了を待ってサーバーを停止し、保持するリソースを解放する。
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	for _, c := range s.closers {
		if cerr := c.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway"})
	})

	authGroup := s.router.Group("/api/auth")
	{
		authGroup.POST("/login", s.handleLogin())
		authGroup.GET("/me", middleware.JWTAuth(s.auth), s.handleMe())
	}

	products := s.router.Group("/api/products")
	if s.requireAuth {
		products.Use(middleware.JWTAuth(s.auth))
	}
	{
		products.GET("/GetAllProducts", s.handleGetAllProducts())
		products.GET("/filter", s.handleFilterProducts())
		products.GET("/search", s.handleSearchProducts())
		products.GET("/:id", s.handleGetProduct())
	}
}
