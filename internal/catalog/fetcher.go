package catalog

import (
	"context"
	"log"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Fetcher は上流カタログから生のJSONを取得する操作。Clientが実装する。
type Fetcher interface {
	FetchAll(ctx context.Context) ([]byte, error)
	FetchByID(ctx context.Context, id int) ([]byte, error)
	FetchFiltered(ctx context.Context, q Query) ([]byte, error)
}

// Cache は上流応答のキャッシュ。見つからない場合はfalseを返す。
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// CachingFetcher はFetcherの前段で同一リクエストの同時実行をまとめ、
// 設定されていれば成功した応答をキャッシュする。失敗はキャッシュしない。
type CachingFetcher struct {
	next  Fetcher
	cache Cache
	group singleflight.Group
}

// NewCachingFetcher は新しいCachingFetcherを生成する。cacheはnilでもよい。
func NewCachingFetcher(next Fetcher, cache Cache) *CachingFetcher {
	return &CachingFetcher{
		next:  next,
		cache: cache,
	}
}

// FetchAll はFetcherを実装する。
func (f *CachingFetcher) FetchAll(ctx context.Context) ([]byte, error) {
	return f.do(ctx, "products:all", f.next.FetchAll)
}

// FetchByID はFetcherを実装する。
func (f *CachingFetcher) FetchByID(ctx context.Context, id int) ([]byte, error) {
	return f.do(ctx, "products:id:"+strconv.Itoa(id), func(ctx context.Context) ([]byte, error) {
		return f.next.FetchByID(ctx, id)
	})
}

// FetchFiltered はFetcherを実装する。
func (f *CachingFetcher) FetchFiltered(ctx context.Context, q Query) ([]byte, error) {
	return f.do(ctx, "products:filter:"+q.Encode(), func(ctx context.Context) ([]byte, error) {
		return f.next.FetchFiltered(ctx, q)
	})
}

// do はキャッシュを参照し、なければ同一キーの呼び出しを1回にまとめて上流へ問い合わせる。
// まとめた呼び出しは個々の呼び出し元のキャンセルから切り離して実行し、
// 上流クライアントのタイムアウトで打ち切る。
func (f *CachingFetcher) do(ctx context.Context, key string, fetch func(context.Context) ([]byte, error)) ([]byte, error) {
	if f.cache != nil {
		body, ok, err := f.cache.Get(ctx, key)
		if err != nil {
			log.Printf("[Catalog] キャッシュの参照に失敗: key=%s, error=%v", key, err)
		} else if ok {
			return body, nil
		}
	}

	detached := context.WithoutCancel(ctx)
	ch := f.group.DoChan(key, func() (any, error) {
		body, err := fetch(detached)
		if err != nil {
			return nil, err
		}
		if f.cache != nil {
			if err := f.cache.Set(detached, key, body); err != nil {
				log.Printf("[Catalog] キャッシュの保存に失敗: key=%s, error=%v", key, err)
			}
		}
		return body, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}
