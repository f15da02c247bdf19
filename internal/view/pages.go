package view

import (
	"sort"

	"github.com/spongik/storefront/internal/catalog"
	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/pricing"
)

// CategoryNode 分类树节点（扁平，带层级）
type CategoryNode struct {
	ID          uint   `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Depth       int    `json:"depth"`
	HasChildren bool   `json:"has_children"`
	Active      bool   `json:"active"`
}

// CatalogPage 商品目录页
type CatalogPage struct {
	Filter       catalog.Filter `json:"filter"`
	Query        string         `json:"query"`
	Chips        []catalog.Chip `json:"chips"`
	ActiveCount  int            `json:"active_count"`
	Categories   []CategoryNode `json:"categories"`
	Products     []ProductCard  `json:"products"`
	Total        int            `json:"total"`
	TotalLabel   string         `json:"total_label"`
	HasMore      bool           `json:"has_more"`
	PriceCeiling int            `json:"price_ceiling"`
}

// NewCatalogPage 目录页：categoryQuery 用于筛选分类树
func NewCatalogPage(v catalog.View, tree *catalog.Tree, categoryQuery string, favorites map[uint]bool, locale string) CatalogPage {
	chips := v.Filter.Chips(tree, locale)
	if chips == nil {
		chips = []catalog.Chip{}
	}
	page := CatalogPage{
		Filter:       v.Filter,
		Query:        v.Filter.Encode(),
		Chips:        chips,
		ActiveCount:  len(chips),
		Products:     NewProductCards(v.Listing.Items, favorites, locale),
		Total:        v.Listing.Total,
		HasMore:      v.Listing.HasMore,
		PriceCeiling: v.Listing.PriceCeiling,
	}
	page.TotalLabel = ProductsLabel(locale, page.Total)
	page.Categories = CategoryNodes(tree, categoryQuery, v.Filter.Categories)
	return page
}

// CategoryNodes 分类侧栏：按关键字筛选后展开，标记已选中分类
func CategoryNodes(tree *catalog.Tree, query string, selected []string) []CategoryNode {
	out := []CategoryNode{}
	for _, n := range tree.Search(query).Flatten() {
		out = append(out, CategoryNode{
			ID:          n.Category.ID,
			Slug:        n.Category.Slug,
			Name:        n.Category.Name,
			Depth:       n.Depth,
			HasChildren: n.HasChildren,
			Active:      catalog.IsSelected(selected, n.Category.Slug),
		})
	}
	return out
}

// CartLineView 购物车行
type CartLineView struct {
	ID    uint      `json:"id"`
	Slug  string    `json:"slug"`
	Name  string    `json:"name"`
	Image string    `json:"image,omitempty"`
	URL   string    `json:"url"`
	Qty   int       `json:"qty"`
	Unit  PriceView `json:"unit"`
	Total PriceView `json:"total"`
}

// SummaryView 金额汇总
type SummaryView struct {
	pricing.Summary
	SubtotalText      string `json:"subtotal_text"`
	OriginalTotalText string `json:"original_total_text"`
	SavingsText       string `json:"savings_text,omitempty"`
	HasSavings        bool   `json:"has_savings"`
	CountLabel        string `json:"count_label"`
}

// CartPage 购物车页
type CartPage struct {
	Lines   []CartLineView `json:"lines"`
	Summary SummaryView    `json:"summary"`
	Count   int            `json:"count"`
	Empty   bool           `json:"empty"`
}

func newCartLines(lines []models.CartLine) []CartLineView {
	out := make([]CartLineView, 0, len(lines))
	for _, line := range lines {
		d := pricing.ResolveLine(line)
		out = append(out, CartLineView{
			ID:    line.ID,
			Slug:  line.Slug,
			Name:  line.Name,
			Image: line.Image,
			URL:   ProductURL(line.Slug),
			Qty:   line.Qty,
			Unit:  NewPriceView(d.Unit),
			Total: NewPriceView(d.Total),
		})
	}
	return out
}

func newSummaryView(sum pricing.Summary, locale string) SummaryView {
	v := SummaryView{
		Summary:           sum,
		SubtotalText:      FormatPrice(sum.Subtotal),
		OriginalTotalText: FormatPrice(sum.OriginalTotal),
		HasSavings:        sum.HasSavings(),
		CountLabel:        ProductsLabel(locale, sum.Count),
	}
	if v.HasSavings {
		v.SavingsText = FormatPrice(sum.Savings)
	}
	return v
}

// NewCartPage 购物车页
func NewCartPage(lines []models.CartLine, locale string) CartPage {
	sum := pricing.Summarize(lines)
	return CartPage{
		Lines:   newCartLines(lines),
		Summary: newSummaryView(sum, locale),
		Count:   sum.Count,
		Empty:   len(lines) == 0,
	}
}

// CheckoutPage 结算页
type CheckoutPage struct {
	Lines         []CartLineView `json:"lines"`
	Summary       SummaryView    `json:"summary"`
	FreeDelivery  bool           `json:"free_delivery"`
	DeliveryLabel string         `json:"delivery_label"`
	DeliveryHint  string         `json:"delivery_hint,omitempty"`
	TotalText     string         `json:"total_text"`
	Empty         bool           `json:"empty"`
}

// NewCheckoutPage 结算页：未达免运费门槛时给出差额提示
func NewCheckoutPage(lines []models.CartLine, threshold models.Money, locale string) CheckoutPage {
	sum := checkout.Summarize(lines, threshold)
	page := CheckoutPage{
		Lines:         newCartLines(lines),
		Summary:       newSummaryView(sum.Summary, locale),
		FreeDelivery:  sum.FreeDelivery,
		DeliveryLabel: sum.DeliveryLabel(locale),
		TotalText:     FormatPrice(sum.Total),
		Empty:         len(lines) == 0,
	}
	if !sum.FreeDelivery && !page.Empty {
		page.DeliveryHint = i18n.Sprintf(locale, "delivery.hint", FormatPrice(sum.Remaining))
	}
	return page
}

// GalleryImage 图库图片
type GalleryImage struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Primary bool   `json:"primary"`
}

// ProductPage 商品详情页
type ProductPage struct {
	Card        ProductCard    `json:"card"`
	SKU         string         `json:"sku,omitempty"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Gallery     []GalleryImage `json:"gallery"`
	MinQty      int            `json:"min_qty"`
	InCart      int            `json:"in_cart"`
	Related     []ProductCard  `json:"related"`
}

// Gallery 图库：主图在前，其余按排序权重；无图片时回退到主图字段
func Gallery(p models.Product) []GalleryImage {
	images := append([]models.Image(nil), p.Images...)
	sort.SliceStable(images, func(i, j int) bool {
		if images[i].IsPrimary != images[j].IsPrimary {
			return images[i].IsPrimary
		}
		return images[i].SortOrder < images[j].SortOrder
	})
	out := make([]GalleryImage, 0, len(images)+1)
	for _, img := range images {
		if img.URL == "" {
			continue
		}
		alt := img.Alt
		if alt == "" {
			alt = p.Name
		}
		out = append(out, GalleryImage{URL: img.URL, Alt: alt, Primary: img.IsPrimary})
	}
	if len(out) == 0 && p.PrimaryImage != "" {
		out = append(out, GalleryImage{URL: p.PrimaryImage, Alt: p.Name, Primary: true})
	}
	return out
}

// NewProductPage 商品详情页
func NewProductPage(p models.Product, related []models.Product, favorites map[uint]bool, inCart int, locale string) ProductPage {
	return ProductPage{
		Card:        NewProductCard(p, favorites, locale),
		SKU:         p.SKU,
		Description: p.Description,
		Category:    p.CategoryName,
		Gallery:     Gallery(p),
		MinQty:      1,
		InCart:      inCart,
		Related:     NewProductCards(related, favorites, locale),
	}
}

// FavoritesPage 收藏页
type FavoritesPage struct {
	Items      []FavoriteView `json:"items"`
	Count      int            `json:"count"`
	CountLabel string         `json:"count_label"`
}

// FavoriteView 收藏条目
type FavoriteView struct {
	models.FavoriteEntry
	URL       string `json:"url"`
	PriceText string `json:"price_text"`
}

// NewFavoritesPage 收藏页
func NewFavoritesPage(entries []models.FavoriteEntry, locale string) FavoritesPage {
	page := FavoritesPage{Items: make([]FavoriteView, 0, len(entries)), Count: len(entries)}
	for _, e := range entries {
		page.Items = append(page.Items, FavoriteView{FavoriteEntry: e, URL: ProductURL(e.Slug), PriceText: FormatPrice(e.Price)})
	}
	page.CountLabel = ProductsLabel(locale, page.Count)
	return page
}

// OrderView 订单（账户页与后台共用）
type OrderView struct {
	models.Order
	StatusLabel   string `json:"status_label"`
	PaymentLabel  string `json:"payment_label"`
	DeliveryLabel string `json:"delivery_label"`
	TotalText     string `json:"total_text"`
	ItemsCount    int    `json:"items_count"`
}

// NewOrderView 订单视图
func NewOrderView(o models.Order, locale string) OrderView {
	v := OrderView{
		Order:         o,
		StatusLabel:   StatusLabel(locale, o.Status),
		PaymentLabel:  PaymentLabel(locale, o.PaymentType),
		DeliveryLabel: DeliveryLabel(locale, o.DeliveryType),
		TotalText:     FormatPrice(o.Total),
	}
	if v.Items == nil {
		v.Items = []models.OrderItem{}
	}
	for _, item := range o.Items {
		v.ItemsCount += item.Quantity
	}
	return v
}

// NewOrderViews 批量构造
func NewOrderViews(orders []models.Order, locale string) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderView(o, locale))
	}
	return out
}

// AccountPage 账户页
type AccountPage struct {
	User        *models.SessionUser `json:"user"`
	DisplayName string              `json:"display_name"`
	RoleLabel   string              `json:"role_label"`
	IsAdmin     bool                `json:"is_admin"`
	Orders      []OrderView         `json:"orders"`
}

// NewAccountPage 账户页
func NewAccountPage(user *models.SessionUser, orders []models.Order, locale string) AccountPage {
	page := AccountPage{
		User:        user,
		DisplayName: user.DisplayName(),
		IsAdmin:     user.IsAdmin(),
		Orders:      NewOrderViews(orders, locale),
	}
	if user != nil {
		page.RoleLabel = RoleLabel(locale, user.Role)
	}
	return page
}

// OrderSuccessPage 下单成功页
type OrderSuccessPage struct {
	*checkout.Confirmation
	SubtotalText     string `json:"subtotal_text"`
	DiscountText     string `json:"discount_text,omitempty"`
	DeliveryCostText string `json:"delivery_cost_text"`
	TotalText        string `json:"total_text"`
	PaymentLabel     string `json:"payment_label"`
	DeliveryLabel    string `json:"delivery_label"`
}

// NewOrderSuccessPage 下单成功页；运费为 0 时显示承运商计费文案
func NewOrderSuccessPage(conf *checkout.Confirmation, locale string) OrderSuccessPage {
	page := OrderSuccessPage{
		Confirmation:  conf,
		SubtotalText:  FormatPrice(conf.Subtotal),
		TotalText:     FormatPrice(conf.Total),
		PaymentLabel:  PaymentLabel(locale, conf.PaymentType),
		DeliveryLabel: DeliveryLabel(locale, conf.DeliveryType),
	}
	if conf.Discount.IsPositive() {
		page.DiscountText = FormatPrice(conf.Discount)
	}
	if conf.DeliveryCost.IsPositive() {
		page.DeliveryCostText = FormatPrice(conf.DeliveryCost)
	} else {
		page.DeliveryCostText = i18n.T(locale, "delivery.carrier_rates")
	}
	return page
}
