package view

import (
	"fmt"
	"sort"
	"time"

	"github.com/spongik/storefront/internal/catalog"
	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/models"
)

// DashboardLatestOrders 仪表盘展示的最新订单数
const DashboardLatestOrders = 5

// DashboardPage 后台仪表盘
type DashboardPage struct {
	Stats            models.AdminStats `json:"stats"`
	RevenueTodayText string            `json:"revenue_today_text"`
	RevenueMonthText string            `json:"revenue_month_text"`
	LatestOrders     []OrderView       `json:"latest_orders"`
}

// NewDashboardPage 仪表盘：按创建时间取最新 5 单
func NewDashboardPage(stats models.AdminStats, orders []models.Order, locale string) DashboardPage {
	latest := append([]models.Order(nil), orders...)
	sortOrdersNewest(latest)
	if len(latest) > DashboardLatestOrders {
		latest = latest[:DashboardLatestOrders]
	}
	return DashboardPage{
		Stats:            stats,
		RevenueTodayText: FormatPrice(models.NewMoney(stats.RevenueToday)),
		RevenueMonthText: FormatPrice(models.NewMoney(stats.RevenueMonth)),
		LatestOrders:     NewOrderViews(latest, locale),
	}
}

func sortOrdersNewest(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}

// OrdersPage 后台订单列表
type OrdersPage struct {
	Orders   []OrderView `json:"orders"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// NewOrdersPage 后台订单列表
func NewOrdersPage(page models.OrderPage, locale string) OrdersPage {
	return OrdersPage{
		Orders:   NewOrderViews(page.Items, locale),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}

// AdminOrderItem 订单明细行
type AdminOrderItem struct {
	models.OrderItem
	PriceText string `json:"price_text"`
	TotalText string `json:"total_text"`
}

// AdminOrderDetail 后台订单详情
type AdminOrderDetail struct {
	OrderView
	Lines            []AdminOrderItem `json:"lines"`
	SubtotalText     string           `json:"subtotal_text"`
	DiscountText     string           `json:"discount_text,omitempty"`
	DeliveryCostText string           `json:"delivery_cost_text"`
}

// NewAdminOrderDetail 后台订单详情
func NewAdminOrderDetail(o models.Order, locale string) AdminOrderDetail {
	d := AdminOrderDetail{
		OrderView:    NewOrderView(o, locale),
		Lines:        make([]AdminOrderItem, 0, len(o.Items)),
		SubtotalText: FormatPrice(o.Subtotal),
	}
	for _, item := range o.Items {
		d.Lines = append(d.Lines, AdminOrderItem{OrderItem: item, PriceText: FormatPrice(item.Price), TotalText: FormatPrice(item.Total)})
	}
	if o.Discount.IsPositive() {
		d.DiscountText = FormatPrice(o.Discount)
	}
	if o.DeliveryCost.IsPositive() {
		d.DeliveryCostText = FormatPrice(o.DeliveryCost)
	} else {
		d.DeliveryCostText = i18n.T(locale, "delivery.carrier_rates")
	}
	return d
}

// AdminProductRow 后台商品行
type AdminProductRow struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku,omitempty"`
	Category      string    `json:"category,omitempty"`
	Image         string    `json:"image,omitempty"`
	Price         PriceView `json:"price"`
	DiscountBadge string    `json:"discount_badge,omitempty"`
	InStock       bool      `json:"in_stock"`
	StockLabel    string    `json:"stock_label"`
	IsActive      bool      `json:"is_active"`
	IsFeatured    bool      `json:"is_featured"`
}

// ProductsPage 后台商品列表
type ProductsPage struct {
	Products []AdminProductRow `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
}

// NewAdminProductRow 后台商品行
func NewAdminProductRow(p models.Product, locale string) AdminProductRow {
	card := NewProductCard(p, nil, locale)
	row := AdminProductRow{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Category:   p.CategoryName,
		Image:      card.Image,
		Price:      card.Price,
		InStock:    p.InStock,
		StockLabel: card.StockLabel,
		IsActive:   p.IsActive,
		IsFeatured: p.IsFeatured,
	}
	if card.Price.DiscountPercent != nil {
		row.DiscountBadge = fmt.Sprintf("-%d%%", *card.Price.DiscountPercent)
	}
	return row
}

// NewProductsPage 后台商品列表
func NewProductsPage(page models.ProductPage, locale string) ProductsPage {
	out := ProductsPage{
		Products: make([]AdminProductRow, 0, len(page.Items)),
		Total:    page.Total,
		Page:     page.Page,
		Pages:    page.Pages,
	}
	for _, p := range page.Items {
		out.Products = append(out.Products, NewAdminProductRow(p, locale))
	}
	return out
}

// AdminCategoryNode 后台分类树节点（含停用分类）
type AdminCategoryNode struct {
	models.Category
	Depth       int  `json:"depth"`
	HasChildren bool `json:"has_children"`
}

// NewAdminCategoryTree 后台分类树：停用分类也需要展示，先按启用状态组装再展开
func NewAdminCategoryTree(categories []models.Category) []AdminCategoryNode {
	activated := make([]models.Category, len(categories))
	state := make(map[uint]bool, len(categories))
	for i, c := range categories {
		state[c.ID] = c.IsActive
		c.IsActive = true
		activated[i] = c
	}
	flat := catalog.BuildTree(activated).Flatten()
	out := make([]AdminCategoryNode, 0, len(flat))
	for _, n := range flat {
		c := n.Category
		c.IsActive = state[c.ID]
		out = append(out, AdminCategoryNode{Category: c, Depth: n.Depth, HasChildren: n.HasChildren})
	}
	return out
}

// PromotionRow 后台促销行
type PromotionRow struct {
	models.Promotion
	ValueText   string `json:"value_text"`
	TargetCount int    `json:"target_count"`
	Running     bool   `json:"running"`
	StatusLabel string `json:"status_label"`
}

// NewPromotionRows 后台促销列表；now 用于判断当前是否生效
func NewPromotionRows(promotions []models.Promotion, now time.Time, locale string) []PromotionRow {
	out := make([]PromotionRow, 0, len(promotions))
	for _, p := range promotions {
		row := PromotionRow{Promotion: p, TargetCount: len(p.Targets()), Running: p.ActiveAt(now)}
		if p.Type == models.PromotionTypePercent {
			row.ValueText = "-" + p.Value.Decimal.String() + "%"
		} else {
			row.ValueText = "-" + FormatPrice(p.Value)
		}
		if p.IsActive {
			row.StatusLabel = i18n.T(locale, "promotion.active")
		} else {
			row.StatusLabel = i18n.T(locale, "promotion.inactive")
		}
		out = append(out, row)
	}
	return out
}

// UserRow 后台用户行
type UserRow struct {
	models.AdminUser
	DisplayName string `json:"display_name"`
	RoleLabel   string `json:"role_label"`
}

// NewUserRows 后台用户列表
func NewUserRows(users []models.AdminUser, locale string) []UserRow {
	out := make([]UserRow, 0, len(users))
	for _, u := range users {
		su := &models.SessionUser{Email: u.Email, Phone: u.Phone, FirstName: u.FirstName, LastName: u.LastName}
		out = append(out, UserRow{AdminUser: u, DisplayName: su.DisplayName(), RoleLabel: RoleLabel(locale, u.Role)})
	}
	return out
}
