package view

import (
	"fmt"
	"sort"

	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/pricing"
)

// 角标类型
const (
	BadgeSale = "sale"
	BadgeNew  = "new"
)

// Badge 商品角标
type Badge struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// PriceView 展示价格（含格式化文本）
type PriceView struct {
	pricing.Display
	CurrentText  string `json:"current_text"`
	OriginalText string `json:"original_text,omitempty"`
}

// NewPriceView 解析展示价
func NewPriceView(d pricing.Display) PriceView {
	return PriceView{
		Display:      d,
		CurrentText:  FormatPrice(d.Current),
		OriginalText: FormatPricePtr(d.Original),
	}
}

// ProductCard 商品卡片
type ProductCard struct {
	ID         uint      `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand,omitempty"`
	Image      string    `json:"image,omitempty"`
	URL        string    `json:"url"`
	Price      PriceView `json:"price"`
	Badges     []Badge   `json:"badges"`
	InStock    bool      `json:"in_stock"`
	StockLabel string    `json:"stock_label"`
	CartLabel  string    `json:"cart_label"`
	Favorite   bool      `json:"favorite"`
	CanAdd     bool      `json:"can_add"`
}

// ProductURL 商品详情页地址
func ProductURL(slug string) string {
	return "/product/" + slug
}

// NewProductCard 构造商品卡片；favorites 为已收藏的商品ID
func NewProductCard(p models.Product, favorites map[uint]bool, locale string) ProductCard {
	display := pricing.Resolve(pricing.SnapshotOfProduct(p))
	card := ProductCard{
		ID:       p.ID,
		Slug:     p.Slug,
		Name:     p.Name,
		Brand:    p.Brand,
		Image:    p.CoverImage(),
		URL:      ProductURL(p.Slug),
		Price:    NewPriceView(display),
		Badges:   []Badge{},
		InStock:  p.InStock,
		Favorite: favorites[p.ID],
		CanAdd:   p.InStock,
	}
	if display.DiscountPercent != nil {
		card.Badges = append(card.Badges, Badge{Kind: BadgeSale, Label: fmt.Sprintf("-%d%%", *display.DiscountPercent)})
	}
	if p.IsFeatured {
		card.Badges = append(card.Badges, Badge{Kind: BadgeNew, Label: i18n.T(locale, "badge.new")})
	}
	if p.InStock {
		card.StockLabel = i18n.T(locale, "stock.in")
		card.CartLabel = i18n.T(locale, "cart.add")
	} else {
		card.StockLabel = i18n.T(locale, "stock.out")
		card.CartLabel = card.StockLabel
	}
	return card
}

// NewProductCards 批量构造
func NewProductCards(products []models.Product, favorites map[uint]bool, locale string) []ProductCard {
	cards := make([]ProductCard, 0, len(products))
	for _, p := range products {
		cards = append(cards, NewProductCard(p, favorites, locale))
	}
	return cards
}

// RelatedProducts 推荐商品：同分类优先，其次推荐商品，最后其他；排除当前商品并去重，保持稳定顺序
func RelatedProducts(current models.Product, sameCategory, pool []models.Product, limit int) []models.Product {
	if limit <= 0 {
		limit = 6
	}
	seen := map[uint]bool{current.ID: true}
	out := make([]models.Product, 0, limit)
	push := func(p models.Product) {
		if len(out) >= limit || seen[p.ID] {
			return
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	for _, p := range sameCategory {
		push(p)
	}
	rest := make([]models.Product, 0, len(pool))
	for _, p := range pool {
		if !seen[p.ID] {
			rest = append(rest, p)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].IsFeatured && !rest[j].IsFeatured
	})
	for _, p := range rest {
		push(p)
	}
	return out
}
