package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Criteria は商品の絞り込み条件。
// 各項目は独立して省略可能で、省略された条件は適用しない。
type Criteria struct {
	// Category は大文字小文字を区別しない完全一致で比較するカテゴリ名。空なら省略。
	Category string
	// MaxPrice は価格の上限（この値を含む）。nilなら省略。
	MaxPrice *decimal.Decimal
	// TitleContains は大文字小文字を区別しない部分一致で比較するタイトル。空なら省略。
	TitleContains string
}

// IsEmpty はすべての条件が省略されているかを返す。
func (c Criteria) IsEmpty() bool {
	return c.Category == "" && c.MaxPrice == nil && c.TitleContains == ""
}

// Filter はcriteriaをすべて満たす商品を入力順のまま返す。
// 条件はカテゴリ、価格、タイトルの順に評価する。
// 条件が空の場合は入力をそのまま返す。
func Filter(products []Product, criteria Criteria) []Product {
	if criteria.IsEmpty() {
		return products
	}

	title := strings.ToLower(criteria.TitleContains)
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if criteria.Category != "" && !strings.EqualFold(p.Category, criteria.Category) {
			continue
		}
		if criteria.MaxPrice != nil && p.Price.GreaterThan(*criteria.MaxPrice) {
			continue
		}
		if title != "" && !strings.Contains(strings.ToLower(p.Title), title) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
