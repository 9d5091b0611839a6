package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nao1215/catalog-gateway/internal/catalog"
)

// handleGetAllProducts は全商品の要約一覧を返すハンドラを返す。
func (s *Server) handleGetAllProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := s.catalog.FetchAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		products, err := catalog.DecodeList(raw)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, catalog.Project(products))
	}
}

// handleGetProduct は指定IDの商品を返すハンドラを返す。
func (s *Server) handleGetProduct() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "商品IDは正の整数で指定してください"})
			return
		}

		raw, err := s.catalog.FetchByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}

		product, err := catalog.DecodeProduct(raw)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// handleFilterProducts はカテゴリと価格上限で絞り込んだ要約一覧を返すハンドラを返す。
// 条件は上流へ渡したうえで、応答にも同じ条件を適用する。
func (s *Server) handleFilterProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		var maxPrice *decimal.Decimal
		if v := c.Query("price"); v != "" {
			p, err := decimal.NewFromString(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "priceは数値で指定してください"})
				return
			}
			maxPrice = &p
		}
		category := c.Query("category")

		raw, err := s.catalog.FetchFiltered(c.Request.Context(), catalog.Query{
			Category: category,
			MaxPrice: maxPrice,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		products, err := catalog.DecodeList(raw)
		if err != nil {
			respondError(c, err)
			return
		}

		filtered := catalog.Filter(products, catalog.Criteria{
			Category: category,
			MaxPrice: maxPrice,
		})
		c.JSON(http.StatusOK, catalog.Project(filtered))
	}
}

// handleSearchProducts はタイトルに部分一致する商品を返すハンドラを返す。
// titleが空の場合は全商品を返す。要約ではなく商品の全項目を返す。
func (s *Server) handleSearchProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := s.catalog.FetchAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		products, err := catalog.DecodeList(raw)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, catalog.Filter(products, catalog.Criteria{
			TitleContains: c.Query("title"),
		}))
	}
}
