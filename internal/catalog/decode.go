package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// validate は上流レコードの必須項目を検証する。並行利用しても安全。
var validate = validator.New(validator.WithRequiredStructEnabled())

// wireProduct は上流の商品JSONの受け口。
// 必須項目はポインタで受け、欠落とゼロ値を区別する。
type wireProduct struct {
	ID          *int             `json:"id" validate:"required,gt=0"`
	Title       *string          `json:"title" validate:"required,min=1"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Thumbnail   string           `json:"thumbnail"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
}

// listEnvelope は一覧系エンドポイントの応答。
type listEnvelope struct {
	Products *[]json.RawMessage `json:"products"`
}

// DecodeList は一覧系の応答からproducts配列を取り出してProductに変換する。
// productsが存在しない・配列でない・要素の必須項目が欠けている場合は
// ErrUpstreamMalformedを返す。
func DecodeList(raw []byte) ([]Product, error) {
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamMalformed, err)
	}
	if env.Products == nil {
		return nil, fmt.Errorf("%w: productsフィールドがありません", ErrUpstreamMalformed)
	}

	products := make([]Product, 0, len(*env.Products))
	for i, item := range *env.Products {
		p, err := decodeOne(item)
		if err != nil {
			return nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// DecodeProduct は単一商品の応答をProductに変換する。
func DecodeProduct(raw []byte) (Product, error) {
	return decodeOne(raw)
}

// decodeOne は1件分の商品JSONを検証して変換する。
func decodeOne(raw []byte) (Product, error) {
	var w wireProduct
	if err := json.Unmarshal(raw, &w); err != nil {
		return Product{}, fmt.Errorf("%w: %w", ErrUpstreamMalformed, err)
	}
	if err := validate.Struct(w); err != nil {
		return Product{}, fmt.Errorf("%w: %w", ErrUpstreamMalformed, err)
	}
	if w.Price.IsNegative() {
		return Product{}, fmt.Errorf("%w: priceが負の値です: %s", ErrUpstreamMalformed, w.Price)
	}

	return Product{
		ID:          *w.ID,
		Title:       *w.Title,
		Price:       *w.Price,
		Thumbnail:   w.Thumbnail,
		Description: w.Description,
		Category:    w.Category,
	}, nil
}
