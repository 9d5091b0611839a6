package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Run("デフォルト値が適用されること", func(t *testing.T) {
		v := viper.New()
		v.Set(KeyJWTSecret, "secret")

		cfg, err := LoadFrom(v)
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "https://dummyjson.com", cfg.CatalogBaseURL)
		assert.Equal(t, 5*time.Second, cfg.CatalogTimeout)
		assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
		assert.False(t, cfg.ProductsRequireAuth)
		assert.False(t, cfg.CacheEnabled())
		assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	})

	t.Run("明示した値がデフォルトより優先されること", func(t *testing.T) {
		v := viper.New()
		v.Set(KeyJWTSecret, "secret")
		v.Set(KeyPort, "9090")
		v.Set(KeyCatalogBaseURL, "http://catalog.internal:8000")
		v.Set(KeyCatalogTimeout, "2s")
		v.Set(KeyProductsRequireAuth, "true")
		v.Set(KeyCacheRedisAddr, "localhost:6379")
		v.Set(KeyCacheTTL, "1m")

		cfg, err := LoadFrom(v)
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, "http://catalog.internal:8000", cfg.CatalogBaseURL)
		assert.Equal(t, 2*time.Second, cfg.CatalogTimeout)
		assert.True(t, cfg.ProductsRequireAuth)
		assert.True(t, cfg.CacheEnabled())
		assert.Equal(t, time.Minute, cfg.CacheTTL)
	})

	t.Run("JWT_SECRETが未設定の場合はエラーになること", func(t *testing.T) {
		t.Setenv(KeyJWTSecret, "")

		_, err := LoadFrom(viper.New())
		assert.ErrorIs(t, err, ErrMissingJWTSecret)
	})

	t.Run("ベースURLが不正な場合はエラーになること", func(t *testing.T) {
		v := viper.New()
		v.Set(KeyJWTSecret, "secret")
		v.Set(KeyCatalogBaseURL, "dummyjson.com")

		_, err := LoadFrom(v)
		assert.Error(t, err)
	})

	t.Run("タイムアウトが0以下の場合はエラーになること", func(t *testing.T) {
		v := viper.New()
		v.Set(KeyJWTSecret, "secret")
		v.Set(KeyCatalogTimeout, "0s")

		_, err := LoadFrom(v)
		assert.Error(t, err)
	})
}
