package view

import (
	"testing"
	"time"

	"github.com/spongik/storefront/internal/catalog"
	"github.com/spongik/storefront/internal/checkout"
	"github.com/spongik/storefront/internal/models"
)

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		in   models.Money
		want string
	}{
		{models.NewMoney(0), "0 ₴"},
		{models.NewMoney(999), "999 ₴"},
		{models.NewMoney(1234), "1 234 ₴"},
		{models.NewMoney(1234.5), "1 234,50 ₴"},
		{models.NewMoney(1234567.05), "1 234 567,05 ₴"},
		{models.NewMoney(-1500), "-1 500 ₴"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.in); got != tt.want {
			t.Fatalf("format %s want %q got %q", tt.in, tt.want, got)
		}
	}
	if FormatPricePtr(nil) != "" {
		t.Fatalf("nil price should format empty")
	}
}

func TestProductsLabelPlural(t *testing.T) {
	tests := map[int]string{
		1: "товар", 2: "товари", 4: "товари", 5: "товарів", 11: "товарів",
		14: "товарів", 21: "товар", 22: "товари", 111: "товарів", 0: "товарів",
	}
	for n, want := range tests {
		if got := ProductsLabel("uk", n); got != want {
			t.Fatalf("%d want %q got %q", n, want, got)
		}
	}
}

func TestProductCardBadgesAndStock(t *testing.T) {
	promo := models.Product{
		ID: 1, Slug: "sponge", Name: "Губка",
		Price: models.NewPrice(100), FinalPrice: models.NewPrice(80), DiscountPercent: intPtr(20),
		InStock: true, IsFeatured: true, PrimaryImage: "/img/1.jpg",
	}
	card := NewProductCard(promo, map[uint]bool{1: true}, "uk")
	if len(card.Badges) != 2 || card.Badges[0].Label != "-20%" || card.Badges[1].Kind != BadgeNew {
		t.Fatalf("unexpected badges %+v", card.Badges)
	}
	if card.Price.CurrentText != "80 ₴" || card.Price.OriginalText != "100 ₴" {
		t.Fatalf("unexpected price %+v", card.Price)
	}
	if !card.Favorite || !card.CanAdd || card.URL != "/product/sponge" {
		t.Fatalf("unexpected card flags %+v", card)
	}

	out := models.Product{ID: 2, Slug: "cloth", Price: models.NewPrice(50), OldPrice: models.NewPrice(100)}
	card = NewProductCard(out, nil, "uk")
	if card.CanAdd || card.StockLabel != "Немає в наявності" {
		t.Fatalf("out of stock card should be disabled, got %+v", card)
	}
	if len(card.Badges) != 1 || card.Badges[0].Label != "-50%" {
		t.Fatalf("direct discount badge expected, got %+v", card.Badges)
	}
}

func TestRelatedProducts(t *testing.T) {
	current := models.Product{ID: 1}
	same := []models.Product{{ID: 1}, {ID: 2}, {ID: 3}}
	pool := []models.Product{{ID: 4}, {ID: 5, IsFeatured: true}, {ID: 2}, {ID: 6}, {ID: 7, IsFeatured: true}, {ID: 8}}

	got := RelatedProducts(current, same, pool, 6)
	want := []uint{2, 3, 5, 7, 4, 6}
	if len(got) != len(want) {
		t.Fatalf("want %v got %+v", want, got)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("want %v got %+v", want, got)
		}
	}
	again := RelatedProducts(current, same, pool, 6)
	for i := range got {
		if again[i].ID != got[i].ID {
			t.Fatalf("related order must be deterministic")
		}
	}
}

func TestGalleryPrimaryFirst(t *testing.T) {
	p := models.Product{Name: "Губка", Images: []models.Image{
		{URL: "/b.jpg", SortOrder: 2},
		{URL: "/a.jpg", SortOrder: 1},
		{URL: "/p.jpg", SortOrder: 3, IsPrimary: true},
	}}
	g := Gallery(p)
	if len(g) != 3 || g[0].URL != "/p.jpg" || g[1].URL != "/a.jpg" || g[0].Alt != "Губка" {
		t.Fatalf("unexpected gallery %+v", g)
	}
	fallback := Gallery(models.Product{Name: "x", PrimaryImage: "/only.jpg"})
	if len(fallback) != 1 || !fallback[0].Primary {
		t.Fatalf("primary image fallback expected, got %+v", fallback)
	}
}

func TestCatalogPage(t *testing.T) {
	tree := catalog.BuildTree([]models.Category{
		{ID: 1, Slug: "home", Name: "Дім", IsActive: true},
		{ID: 2, Slug: "kitchen", Name: "Кухня", ParentID: uintPtr(1), IsActive: true},
		{ID: 3, Slug: "garden", Name: "Сад", IsActive: true},
	})
	f := catalog.DefaultFilter(25)
	f.Categories = []string{"kitchen"}
	v := catalog.View{Filter: f, Listing: catalog.Listing{
		Items: []models.Product{{ID: 1, Slug: "a", Price: models.NewPrice(10), InStock: true}},
		Total: 22, HasMore: true, PriceCeiling: 300, Loaded: true,
	}}

	page := NewCatalogPage(v, tree, "", nil, "uk")
	if page.TotalLabel != "товари" || page.Total != 22 || !page.HasMore {
		t.Fatalf("unexpected totals %+v", page)
	}
	if len(page.Categories) != 3 || page.Categories[1].Slug != "kitchen" || !page.Categories[1].Active || page.Categories[0].Active {
		t.Fatalf("unexpected categories %+v", page.Categories)
	}
	if page.ActiveCount != 2 {
		t.Fatalf("category and in-stock chips expected, got %+v", page.Chips)
	}

	filtered := NewCatalogPage(v, tree, "сад", nil, "uk")
	if len(filtered.Categories) != 1 || filtered.Categories[0].Slug != "garden" {
		t.Fatalf("category search should narrow tree, got %+v", filtered.Categories)
	}
}

func TestCheckoutPageHint(t *testing.T) {
	lines := []models.CartLine{{ID: 1, Slug: "a", Qty: 2, Price: models.NewMoney(150)}}
	page := NewCheckoutPage(lines, checkout.ThresholdFromConfig(1000), "uk")
	if page.FreeDelivery || page.DeliveryHint != "Додайте товарів на 700 ₴ для безкоштовної доставки" {
		t.Fatalf("unexpected hint %q", page.DeliveryHint)
	}
	if page.TotalText != "300 ₴" || page.Lines[0].Total.CurrentText != "300 ₴" {
		t.Fatalf("unexpected totals %+v", page)
	}

	lines[0].Qty = 7
	page = NewCheckoutPage(lines, checkout.ThresholdFromConfig(1000), "uk")
	if !page.FreeDelivery || page.DeliveryHint != "" || page.DeliveryLabel != "Безкоштовно" {
		t.Fatalf("free delivery expected, got %+v", page)
	}
}

func TestCartPageSavings(t *testing.T) {
	lines := []models.CartLine{{
		ID: 1, Slug: "a", Qty: 2,
		BasePrice: models.NewPrice(100), Price: models.NewMoney(80), DiscountPercent: intPtr(20),
	}}
	page := NewCartPage(lines, "uk")
	if !page.Summary.HasSavings || page.Summary.SavingsText != "40 ₴" || page.Count != 2 {
		t.Fatalf("unexpected summary %+v", page.Summary)
	}
	if empty := NewCartPage(nil, "uk"); !empty.Empty || len(empty.Lines) != 0 {
		t.Fatalf("empty cart page expected")
	}
}

func TestDashboardLatestOrders(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var orders []models.Order
	for i := 1; i <= 7; i++ {
		orders = append(orders, models.Order{ID: uint(i), Status: models.OrderStatusPending, CreatedAt: base.Add(time.Duration(i) * time.Hour)})
	}
	page := NewDashboardPage(models.AdminStats{RevenueToday: 1500}, orders, "uk")
	if len(page.LatestOrders) != 5 || page.LatestOrders[0].ID != 7 || page.LatestOrders[4].ID != 3 {
		t.Fatalf("unexpected latest orders %+v", page.LatestOrders)
	}
	if page.RevenueTodayText != "1 500 ₴" || page.LatestOrders[0].StatusLabel != "Очікує" {
		t.Fatalf("unexpected dashboard texts %+v", page)
	}
}

func TestAdminCategoryTreeKeepsInactive(t *testing.T) {
	nodes := NewAdminCategoryTree([]models.Category{
		{ID: 1, Slug: "home", Name: "Дім", IsActive: true},
		{ID: 2, Slug: "old", Name: "Архів", ParentID: uintPtr(1), IsActive: false},
	})
	if len(nodes) != 2 || nodes[1].Depth != 1 || nodes[1].IsActive {
		t.Fatalf("inactive category should be listed with its state, got %+v", nodes)
	}
}

func TestOrderSuccessPage(t *testing.T) {
	conf := &checkout.Confirmation{
		OrderNumber: "SP-1", Subtotal: models.NewMoney(210), Discount: models.NewMoney(60),
		Total: models.NewMoney(210), PaymentType: models.PaymentCash, DeliveryType: models.DeliveryNovaPoshta,
	}
	page := NewOrderSuccessPage(conf, "uk")
	if page.DiscountText != "60 ₴" || page.DeliveryCostText != "За тарифами перевізника" || page.DeliveryLabel != "Нова Пошта" {
		t.Fatalf("unexpected success page %+v", page)
	}
}
