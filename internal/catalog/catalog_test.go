package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pricePtr(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

func TestProject(t *testing.T) {
	t.Parallel()

	t.Run("100文字を超える説明は先頭100文字に切り詰められること", func(t *testing.T) {
		t.Parallel()

		desc := strings.Repeat("a", 150)
		got := Summarize(Product{ID: 1, Description: desc})

		assert.Len(t, got.ShortDescription, 100)
		assert.Equal(t, desc[:100], got.ShortDescription)
		assert.True(t, strings.HasPrefix(desc, got.ShortDescription))
	})

	t.Run("100文字ちょうどの説明はそのまま保持されること", func(t *testing.T) {
		t.Parallel()

		desc := strings.Repeat("b", 100)
		assert.Equal(t, desc, Summarize(Product{Description: desc}).ShortDescription)
	})

	t.Run("短い説明はそのまま保持されること", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "short", Summarize(Product{Description: "short"}).ShortDescription)
		assert.Equal(t, "", Summarize(Product{}).ShortDescription)
	})

	t.Run("マルチバイト文字は文字単位で切り詰められること", func(t *testing.T) {
		t.Parallel()

		desc := strings.Repeat("商", 120)
		got := Summarize(Product{Description: desc}).ShortDescription

		assert.Equal(t, 100, len([]rune(got)))
		assert.True(t, strings.HasPrefix(desc, got))
	})

	t.Run("各項目が射影され入力順が保たれること", func(t *testing.T) {
		t.Parallel()

		products := []Product{
			{ID: 2, Title: "B", Price: price("20"), Thumbnail: "b.jpg", Description: "desc b", Category: "x"},
			{ID: 1, Title: "A", Price: price("9.99"), Thumbnail: "a.jpg", Description: "desc a", Category: "y"},
		}
		got := Project(products)

		require.Len(t, got, 2)
		assert.Equal(t, ProductSummary{ID: 2, Image: "b.jpg", Title: "B", Price: price("20"), ShortDescription: "desc b"}, got[0])
		assert.Equal(t, 1, got[1].ID)
		assert.Equal(t, "a.jpg", got[1].Image)
	})

	t.Run("空の入力には空の配列を返すこと", func(t *testing.T) {
		t.Parallel()

		got := Project(nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestFilter(t *testing.T) {
	t.Parallel()

	products := []Product{
		{ID: 1, Title: "Laptop Lenovo", Category: "A", Price: price("10")},
		{ID: 2, Title: "Tablet", Category: "A", Price: price("20")},
		{ID: 3, Title: "Gaming LAPTOP", Category: "B", Price: price("5")},
	}

	t.Run("条件が空なら入力をそのまま返すこと", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, products, Filter(products, Criteria{}))
	})

	t.Run("カテゴリと価格上限の両方を満たすものだけを返すこと", func(t *testing.T) {
		t.Parallel()

		got := Filter(products, Criteria{Category: "A", MaxPrice: pricePtr("15")})
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].ID)
	})

	t.Run("カテゴリは大文字小文字を区別せず完全一致で比較すること", func(t *testing.T) {
		t.Parallel()

		got := Filter(products, Criteria{Category: "b"})
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].ID)

		assert.Empty(t, Filter(products, Criteria{Category: "AB"}))
	})

	t.Run("価格上限はその値を含むこと", func(t *testing.T) {
		t.Parallel()

		got := Filter(products, Criteria{MaxPrice: pricePtr("10")})
		ids := []int{}
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []int{1, 3}, ids)
	})

	t.Run("タイトルは大文字小文字を区別せず部分一致で比較すること", func(t *testing.T) {
		t.Parallel()

		got := Filter(products, Criteria{TitleContains: "laptop"})
		require.Len(t, got, 2)
		assert.Equal(t, "Laptop Lenovo", got[0].Title)
		assert.Equal(t, "Gaming LAPTOP", got[1].Title)
	})

	t.Run("一致するものがなければ空の配列を返すこと", func(t *testing.T) {
		t.Parallel()

		got := Filter(products, Criteria{TitleContains: "phone"})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("入力を変更しないこと", func(t *testing.T) {
		t.Parallel()

		input := append([]Product(nil), products...)
		_ = Filter(input, Criteria{Category: "A"})
		assert.Equal(t, products, input)
	})
}

func TestDecodeList(t *testing.T) {
	t.Parallel()

	t.Run("products配列を商品に変換すること", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"products":[
			{"id":1,"title":"Essence Mascara","price":9.99,"thumbnail":"t1.png","description":"d1","category":"beauty","rating":4.9},
			{"id":2,"title":"Eyeshadow","price":"19.99","thumbnail":"t2.png","description":"d2","category":"beauty"}
		],"total":2}`)

		got, err := DecodeList(raw)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, Product{ID: 1, Title: "Essence Mascara", Price: price("9.99"), Thumbnail: "t1.png", Description: "d1", Category: "beauty"}, got[0])
		assert.True(t, got[1].Price.Equal(price("19.99")))
	})

	t.Run("空のproducts配列は空の一覧になること", func(t *testing.T) {
		t.Parallel()

		got, err := DecodeList([]byte(`{"products":[]}`))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	malformed := map[string]string{
		"productsフィールドがない": `{"items":[]}`,
		"productsがnull":    `{"products":null}`,
		"productsが配列でない":   `{"products":{"id":1}}`,
		"JSONでない":          `<html>oops</html>`,
		"トップレベルが配列":        `[{"id":1,"title":"x","price":1}]`,
		"idが欠けている":         `{"products":[{"title":"x","price":1}]}`,
		"idが0":             `{"products":[{"id":0,"title":"x","price":1}]}`,
		"titleが空":          `{"products":[{"id":1,"title":"","price":1}]}`,
		"priceが欠けている":      `{"products":[{"id":1,"title":"x"}]}`,
		"priceが負":          `{"products":[{"id":1,"title":"x","price":-1}]}`,
		"priceが数値でない":      `{"products":[{"id":1,"title":"x","price":"abc"}]}`,
	}
	for name, raw := range malformed {
		t.Run(name+"場合はErrUpstreamMalformedを返すこと", func(t *testing.T) {
			t.Parallel()

			_, err := DecodeList([]byte(raw))
			assert.ErrorIs(t, err, ErrUpstreamMalformed)
		})
	}
}

func TestDecodeProduct(t *testing.T) {
	t.Parallel()

	t.Run("単一の商品オブジェクトを変換すること", func(t *testing.T) {
		t.Parallel()

		got, err := DecodeProduct([]byte(`{"id":7,"title":"Laptop","price":0,"category":"laptops"}`))
		require.NoError(t, err)
		assert.Equal(t, 7, got.ID)
		assert.True(t, got.Price.IsZero())
		assert.Equal(t, "", got.Description)
	})

	t.Run("オブジェクトでない場合はErrUpstreamMalformedを返すこと", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeProduct([]byte(`"not an object"`))
		assert.ErrorIs(t, err, ErrUpstreamMalformed)
	})
}

func TestProduct_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(ProductSummary{ID: 1, Image: "i.png", Title: "T", Price: price("9.99"), ShortDescription: "s"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"image":"i.png","title":"T","price":9.99,"shortDescription":"s"}`, string(b))
}
