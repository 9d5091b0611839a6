package catalog

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream はリクエストURIを記録するテスト用の上流サーバー。
type upstream struct {
	mu     sync.Mutex
	uris   []string
	status int
	body   string
}

func newUpstream(t *testing.T, status int, body string) (*upstream, *httptest.Server) {
	t.Helper()

	u := &upstream{status: status, body: body}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.uris = append(u.uris, r.URL.RequestURI())
		u.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.status)
		_, _ = w.Write([]byte(u.body))
	}))
	t.Cleanup(srv.Close)
	return u, srv
}

func (u *upstream) requests() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.uris...)
}

func TestQuery_Encode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query Query
		want  string
	}{
		{name: "条件なし", query: Query{}, want: ""},
		{name: "カテゴリのみ", query: Query{Category: "laptops"}, want: "?category=laptops"},
		{name: "価格のみ", query: Query{MaxPrice: pricePtr("100")}, want: "?price=100"},
		{name: "両方", query: Query{Category: "A", MaxPrice: pricePtr("15.5")}, want: "?category=A&price=15.5"},
		{name: "エスケープ", query: Query{Category: "home & garden"}, want: "?category=home+%26+garden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.query.Encode())
		})
	}
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("FetchAllは/productsを1回だけ呼び出すこと", func(t *testing.T) {
		t.Parallel()

		u, srv := newUpstream(t, http.StatusOK, `{"products":[]}`)
		c := NewClient(srv.URL+"/", time.Second)

		body, err := c.FetchAll(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"products":[]}`, string(body))
		assert.Equal(t, []string{"/products"}, u.requests())
	})

	t.Run("FetchByIDは/products/{id}を呼び出すこと", func(t *testing.T) {
		t.Parallel()

		u, srv := newUpstream(t, http.StatusOK, `{"id":42,"title":"x","price":1}`)
		c := NewClient(srv.URL, time.Second)

		_, err := c.FetchByID(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, []string{"/products/42"}, u.requests())
	})

	t.Run("FetchFilteredはクエリを付与して呼び出すこと", func(t *testing.T) {
		t.Parallel()

		u, srv := newUpstream(t, http.StatusOK, `{"products":[]}`)
		c := NewClient(srv.URL, time.Second)

		_, err := c.FetchFiltered(context.Background(), Query{Category: "A", MaxPrice: pricePtr("15")})
		require.NoError(t, err)
		assert.Equal(t, []string{"/products?category=A&price=15"}, u.requests())
	})

	t.Run("上流の404はErrNotFoundになること", func(t *testing.T) {
		t.Parallel()

		_, srv := newUpstream(t, http.StatusNotFound, `{"message":"not found"}`)
		c := NewClient(srv.URL, time.Second)

		_, err := c.FetchByID(context.Background(), 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("上流の503はステータス付きのUpstreamErrorになること", func(t *testing.T) {
		t.Parallel()

		u, srv := newUpstream(t, http.StatusServiceUnavailable, `unavailable`)
		c := NewClient(srv.URL, time.Second)

		_, err := c.FetchAll(context.Background())
		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, http.StatusServiceUnavailable, upErr.StatusCode)
		assert.False(t, errors.Is(err, ErrNotFound))
		assert.Len(t, u.requests(), 1, "リトライしないこと")
	})

	t.Run("通信エラーはステータス0のUpstreamErrorになること", func(t *testing.T) {
		t.Parallel()

		l, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := l.Addr().String()
		require.NoError(t, l.Close())

		c := NewClient("http://"+addr, time.Second)
		_, err = c.FetchAll(context.Background())

		var upErr *UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Equal(t, 0, upErr.StatusCode)
	})
}
