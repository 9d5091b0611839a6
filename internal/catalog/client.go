package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nao1215/catalog-gateway/pkg/httpclient"
)

// Query は上流の一覧エンドポイントへ渡す絞り込み条件。
// 空の項目はクエリパラメータに含めない。
type Query struct {
	// Category はカテゴリ名。
	Category string
	// MaxPrice は価格の上限。
	MaxPrice *decimal.Decimal
}

// Encode はQueryをURLのクエリ文字列に変換する。
// 最初のパラメータは"?"、以降は"&"で連結し、条件がなければ空文字列を返す。
func (q Query) Encode() string {
	var b strings.Builder
	sep := "?"
	if q.Category != "" {
		b.WriteString(sep + "category=" + url.QueryEscape(q.Category))
		sep = "&"
	}
	if q.MaxPrice != nil {
		b.WriteString(sep + "price=" + url.QueryEscape(q.MaxPrice.String()))
	}
	return b.String()
}

// Client は上流カタログサービスのクライアント。
// 各メソッドは上流へ1回だけリクエストを送信し、リトライは行わない。
type Client struct {
	http *httpclient.Client
}

// NewClient は新しいClientを生成する。
// baseURLは上流のベースURL（例: "https://dummyjson.com"）。
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: httpclient.New(strings.TrimRight(baseURL, "/"), httpclient.WithTimeout(timeout)),
	}
}

// FetchAll は{base}/productsを取得する。
func (c *Client) FetchAll(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, "/products")
}

// FetchByID は{base}/products/{id}を取得する。
// 上流が404を返した場合はErrNotFoundを返す。
func (c *Client) FetchByID(ctx context.Context, id int) ([]byte, error) {
	return c.fetch(ctx, "/products/"+strconv.Itoa(id))
}

// FetchFiltered は{base}/products?category=...&price=...を取得する。
func (c *Client) FetchFiltered(ctx context.Context, q Query) ([]byte, error) {
	return c.fetch(ctx, "/products"+q.Encode())
}

// fetch は上流を呼び出し、失敗をカタログのエラーに変換する。
func (c *Client) fetch(ctx context.Context, pathAndQuery string) ([]byte, error) {
	body, err := c.http.GetRaw(ctx, pathAndQuery)
	if err == nil {
		return body, nil
	}

	var statusErr *httpclient.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", pathAndQuery, ErrNotFound)
		}
		log.Printf("[Catalog] 上流がエラーを返しました: path=%s, status=%d", pathAndQuery, statusErr.StatusCode)
		return nil, &UpstreamError{StatusCode: statusErr.StatusCode, Err: err}
	}

	log.Printf("[Catalog] 上流との通信に失敗しました: path=%s, error=%v", pathAndQuery, err)
	return nil, &UpstreamError{Err: err}
}
