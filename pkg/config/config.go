// Package config は環境変数からGatewayの設定を読み込む。
//
// viperのデフォルト値と環境変数の自動バインドを利用する。
// 署名鍵（JWT_SECRET）のように既定値を持たせてはいけない項目は
// Load時に検証し、未設定であればエラーを返す。
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// 設定キー。環境変数名と一致する。
const (
	KeyPort                = "PORT"
	KeyJWTSecret           = "JWT_SECRET"
	KeyCatalogBaseURL      = "CATALOG_BASE_URL"
	KeyCatalogTimeout      = "CATALOG_TIMEOUT"
	KeyFrontendURL         = "FRONTEND_URL"
	KeyProductsRequireAuth = "PRODUCTS_REQUIRE_AUTH"
	KeyCacheRedisAddr      = "CATALOG_CACHE_REDIS_ADDR"
	KeyCacheTTL            = "CATALOG_CACHE_TTL"
)

// ErrMissingJWTSecret はJWT_SECRETが設定されていないことを表す。
var ErrMissingJWTSecret = errors.New("JWT_SECRETが設定されていません")

// Config はGatewayサービスの設定。
type Config struct {
	// Port はHTTPサーバーのリッスンポート。
	Port string
	// JWTSecret はトークン署名用の共通鍵。
	JWTSecret string
	// CatalogBaseURL は上流カタログサービスのベースURL。
	CatalogBaseURL string
	// CatalogTimeout は上流への1リクエストあたりのタイムアウト。
	CatalogTimeout time.Duration
	// FrontendURL はCORSで許可するオリジン。
	FrontendURL string
	// ProductsRequireAuth がtrueの場合、商品APIにBearerトークンを要求する。
	ProductsRequireAuth bool
	// CacheRedisAddr はカタログ応答キャッシュに使うRedisのアドレス。空なら無効。
	CacheRedisAddr string
	// CacheTTL はキャッシュの有効期間。
	CacheTTL time.Duration
}

// CacheEnabled はRedisキャッシュが設定されているかを返す。
func (c *Config) CacheEnabled() bool {
	return c.CacheRedisAddr != ""
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom は指定されたviperインスタンスから設定を読み込む。
// テストでは値を直接Setしたインスタンスを渡す。
func LoadFrom(v *viper.Viper) (*Config, error) {
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyCatalogBaseURL, "https://dummyjson.com")
	v.SetDefault(KeyCatalogTimeout, 5*time.Second)
	v.SetDefault(KeyFrontendURL, "http://localhost:3000")
	v.SetDefault(KeyProductsRequireAuth, false)
	v.SetDefault(KeyCacheRedisAddr, "")
	v.SetDefault(KeyCacheTTL, 30*time.Second)
	v.AutomaticEnv()

	cfg := &Config{
		Port:                v.GetString(KeyPort),
		JWTSecret:           v.GetString(KeyJWTSecret),
		CatalogBaseURL:      v.GetString(KeyCatalogBaseURL),
		CatalogTimeout:      v.GetDuration(KeyCatalogTimeout),
		FrontendURL:         v.GetString(KeyFrontendURL),
		ProductsRequireAuth: v.GetBool(KeyProductsRequireAuth),
		CacheRedisAddr:      v.GetString(KeyCacheRedisAddr),
		CacheTTL:            v.GetDuration(KeyCacheTTL),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate は設定値の整合性を検証する。
func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	u, err := url.Parse(c.CatalogBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%sが不正です: %q", KeyCatalogBaseURL, c.CatalogBaseURL)
	}

	if c.CatalogTimeout <= 0 {
		return fmt.Errorf("%sは正の値である必要があります: %s", KeyCatalogTimeout, c.CatalogTimeout)
	}
	if c.CacheEnabled() && c.CacheTTL <= 0 {
		return fmt.Errorf("%sは正の値である必要があります: %s", KeyCacheTTL, c.CacheTTL)
	}
	return nil
}
