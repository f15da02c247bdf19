package catalog

import (
	"github.com/spongik/storefront/internal/models"

	"github.com/shopspring/decimal"
)

// Listing 内存中的商品结果列表
type Listing struct {
	Items        []models.Product `json:"items"`
	Total        int              `json:"total"`
	Page         int              `json:"page"`
	PageSize     int              `json:"page_size"`
	HasMore      bool             `json:"has_more"`
	PriceCeiling int              `json:"price_ceiling"`
	Loaded       bool             `json:"loaded"`
}

// Replace 用第一页结果整体替换
func (l *Listing) Replace(page models.ProductPage, pageSize int) {
	l.Items = append([]models.Product(nil), page.Items...)
	l.Page = 1
	l.apply(page, pageSize)
	if page.MaxPrice.Valid() {
		l.PriceCeiling = PriceCeiling(page.MaxPrice.Money())
	}
}

// Append 追加下一页
func (l *Listing) Append(page models.ProductPage, pageSize int) {
	l.Items = append(l.Items, page.Items...)
	l.Page++
	l.apply(page, pageSize)
}

func (l *Listing) apply(page models.ProductPage, pageSize int) {
	l.Total = page.Total
	l.PageSize = pageSize
	l.HasMore = len(page.Items) == pageSize && len(l.Items) < page.Total
	l.Loaded = true
}

// Clone 副本
func (l Listing) Clone() Listing {
	l.Items = append([]models.Product(nil), l.Items...)
	return l
}

// PriceCeiling 价格滑块上限：向上取整到 100
func PriceCeiling(maxPrice models.Money) int {
	if !maxPrice.IsPositive() {
		return 0
	}
	hundred := decimal.NewFromInt(100)
	return int(maxPrice.Div(hundred).Ceil().Mul(hundred).IntPart())
}
