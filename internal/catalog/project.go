package catalog

// ShortDescriptionLimit はProductSummary.ShortDescriptionの最大文字数。
const ShortDescriptionLimit = 100

// Project は商品一覧を一覧表示用のProductSummaryに射影する。
// 出力の順序は入力と同じで、入力は変更しない。
func Project(products []Product) []ProductSummary {
	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summaries = append(summaries, Summarize(p))
	}
	return summaries
}

// Summarize は1件の商品をProductSummaryに変換する。
func Summarize(p Product) ProductSummary {
	return ProductSummary{
		ID:               p.ID,
		Image:            p.Thumbnail,
		Title:            p.Title,
		Price:            p.Price,
		ShortDescription: truncate(p.Description, ShortDescriptionLimit),
	}
}

// truncate はsを先頭からlimit文字（ルーン単位）までに切り詰める。
// 省略記号は付けない。
func truncate(s string, limit int) string {
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
