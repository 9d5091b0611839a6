package catalog

import (
	"github.com/shopspring/decimal"
)

func init() {
	// 価格は上流と同じくJSONの数値として出力する
	decimal.MarshalJSONWithoutQuotes = true
}

// Product は上流カタログの商品レコード。リクエストごとに上流の応答から組み立てる。
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Thumbnail   string          `json:"thumbnail"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
}

// ProductSummary は一覧表示用に項目を絞った商品の表現。
type ProductSummary struct {
	ID               int             `json:"id"`
	Image            string          `json:"image"`
	Title            string          `json:"title"`
	Price            decimal.Decimal `json:"price"`
	ShortDescription string          `json:"shortDescription"`
}
