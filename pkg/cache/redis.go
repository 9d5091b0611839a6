// Package cache はRedisを使ったバイト列のキャッシュを提供する。
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions はRedisCacheの接続設定。
type RedisOptions struct {
	// Addr はRedisのアドレス（例: "localhost:6379"）。
	Addr string
	// Password は認証パスワード。
	Password string
	// DB はデータベース番号。
	DB int
	// TTL は保存した値の有効期間。
	TTL time.Duration
	// Prefix はすべてのキーの先頭に付与する文字列。
	Prefix string
	// Timeout は接続・読み書きのタイムアウト。0ならgo-redisの既定値。
	Timeout time.Duration
}

// RedisCache はTTL付きでバイト列を保存するキャッシュ。
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis は新しいRedisCacheを生成する。接続は最初のコマンド実行時に確立される。
func NewRedis(opts RedisOptions) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
		// キャッシュは補助的なため失敗時は即座に諦める
		MaxRetries: -1,
	})
	return &RedisCache{
		client: client,
		ttl:    opts.TTL,
		prefix: opts.Prefix,
	}
}

// Get はkeyに対応する値を返す。存在しない場合はfalseを返す。
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("Redis GETに失敗: %w", err)
	}
	return value, true, nil
}

// Set はkeyにvalueをTTL付きで保存する。
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("Redis SETに失敗: %w", err)
	}
	return nil
}

// Ping はRedisへの疎通を確認する。
func (c *RedisCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redisへの接続に失敗: %w", err)
	}
	return nil
}

// Close は接続を閉じる。
func (c *RedisCache) Close() error {
	return c.client.Close()
}
