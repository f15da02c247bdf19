package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/state"
	"github.com/spongik/storefront/internal/storage"
)

func intPtr(v int) *int { return &v }

func validForm() Form {
	return Form{
		FirstName:    " Олена ",
		LastName:     "Коваль",
		Phone:        "+38 (067) 123-45-67",
		DeliveryType: models.DeliveryNovaPoshta,
		City:         "Київ",
		Warehouse:    "Відділення №1",
		PaymentType:  models.PaymentCash,
	}
}

func newCart(t *testing.T) *state.Cart {
	t.Helper()
	s := state.New(storage.NewMemory(time.Hour).For("visitor"))
	s.Load(context.Background())
	return s.Cart
}

func TestValidPhoneAndEmail(t *testing.T) {
	phones := map[string]bool{
		"+380671234567":      true,
		"067 123 45 67":      true,
		"(067) 123-45-67":    true,
		"12345":              false,
		"+38067123456789012": false,
		"067-abc-45-67":      false,
	}
	for raw, want := range phones {
		if got := IsValidPhone(raw); got != want {
			t.Fatalf("phone %q want %v got %v", raw, want, got)
		}
	}
	emails := map[string]bool{
		"a@b.ua":         true,
		"name@mail":      false,
		"with space@x.y": false,
	}
	for raw, want := range emails {
		if got := IsValidEmail(raw); got != want {
			t.Fatalf("email %q want %v got %v", raw, want, got)
		}
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Form)
		field  string
		msg    string
	}{
		{"missing first name", func(f *Form) { f.FirstName = "   " }, "customer_firstname", "Це поле обов'язкове"},
		{"bad phone", func(f *Form) { f.Phone = "123" }, "customer_phone", "Невірний формат телефону"},
		{"bad email", func(f *Form) { f.Email = "nope" }, "customer_email", "Невірний формат email"},
		{"np without city", func(f *Form) { f.City = "" }, "delivery_city", "Вкажіть місто"},
		{"np without warehouse", func(f *Form) { f.Warehouse = "" }, "delivery_warehouse", "Вкажіть відділення або поштомат"},
		{"courier without street", func(f *Form) { f.DeliveryType = models.DeliveryCourier; f.House = "5" }, "delivery_street", "Вкажіть вулицю"},
		{"courier without house", func(f *Form) { f.DeliveryType = models.DeliveryCourier; f.Street = "Хрещатик" }, "delivery_house", "Вкажіть номер будинку"},
		{"unknown payment", func(f *Form) { f.PaymentType = "barter" }, "payment_type", "Недопустиме значення"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)
			err := form.Validate("uk")
			var fields FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("want FieldErrors got %v", err)
			}
			if got := fields[tt.field]; got != tt.msg {
				t.Fatalf("field %s want %q got %q (all %v)", tt.field, tt.msg, got, fields)
			}
			if !errors.Is(err, ErrInvalidForm) {
				t.Fatalf("field errors should match ErrInvalidForm")
			}
		})
	}

	if err := validForm().Validate("uk"); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
	pickup := validForm()
	pickup.DeliveryType = models.DeliveryPickup
	pickup.City, pickup.Warehouse = "", ""
	if err := pickup.Validate("uk"); err != nil {
		t.Fatalf("pickup needs no address: %v", err)
	}
}

func TestBuildOrderCourierAddress(t *testing.T) {
	form := validForm()
	form.DeliveryType = models.DeliveryCourier
	form.Street = "Хрещатик"
	form.House = "22"
	form.Apartment = "5"
	form.Floor = "3"
	form.Email = " a@b.ua "
	lines := []models.CartLine{{ID: 7, Qty: 2, Price: models.NewMoney(50)}}

	order := BuildOrder(form, lines)
	if order.CustomerName != "Олена Коваль" {
		t.Fatalf("customer name want %q got %q", "Олена Коваль", order.CustomerName)
	}
	if order.DeliveryAddress == nil || *order.DeliveryAddress != "вул. Хрещатик, 22, кв. 5, поверх 3" {
		t.Fatalf("unexpected address %v", order.DeliveryAddress)
	}
	if order.DeliveryWarehouse != nil {
		t.Fatalf("courier order must not carry warehouse")
	}
	if order.CustomerEmail == nil || *order.CustomerEmail != "a@b.ua" {
		t.Fatalf("email should be trimmed, got %v", order.CustomerEmail)
	}
	if order.Notes != nil || order.PromotionCode != nil {
		t.Fatalf("empty optional fields should be null")
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != 7 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items %+v", order.Items)
	}
}

func TestSummarizeFreeDelivery(t *testing.T) {
	threshold := ThresholdFromConfig(0)
	small := []models.CartLine{{ID: 1, Qty: 3, Price: models.NewMoney(200)}}
	sum := Summarize(small, threshold)
	if sum.FreeDelivery {
		t.Fatalf("600 should not be free")
	}
	if sum.Remaining.String() != "400.00" {
		t.Fatalf("remaining want 400.00 got %s", sum.Remaining)
	}
	if sum.DeliveryLabel("uk") != "За тарифами перевізника" {
		t.Fatalf("unexpected label %q", sum.DeliveryLabel("uk"))
	}

	exact := []models.CartLine{{ID: 1, Qty: 5, Price: models.NewMoney(200)}}
	sum = Summarize(exact, threshold)
	if !sum.FreeDelivery || !sum.Remaining.IsZero() {
		t.Fatalf("threshold reached should be free, got %+v", sum)
	}
	if sum.Total.String() != "1000.00" {
		t.Fatalf("total want 1000.00 got %s", sum.Total)
	}
}

type stubCreator struct {
	got   *models.OrderCreate
	order *models.Order
	err   error
}

func (s *stubCreator) CreateOrder(_ context.Context, input models.OrderCreate) (*models.Order, error) {
	s.got = &input
	return s.order, s.err
}

func TestSubmitBuildsConfirmationThenClearsCart(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)
	promo := models.Product{ID: 1, Name: "Губка", Price: models.NewPrice(100), FinalPrice: models.NewPrice(80), DiscountPercent: intPtr(20)}
	direct := models.Product{ID: 2, Name: "Серветка", Price: models.NewPrice(50), FinalPrice: models.NewPrice(50), OldPrice: models.NewPrice(70)}
	cart.Add(ctx, promo, 2)
	cart.Add(ctx, direct, 1)

	creator := &stubCreator{order: &models.Order{OrderNumber: "SP-1001", DeliveryCost: models.NewMoney(0), Total: models.NewMoney(210)}}
	conf, err := Submit(ctx, creator, cart, validForm(), "uk")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if conf.OrderNumber != "SP-1001" {
		t.Fatalf("order number want SP-1001 got %s", conf.OrderNumber)
	}
	if len(conf.Items) != 2 || conf.Items[0].Price.String() != "80.00" || conf.Items[0].Total.String() != "160.00" {
		t.Fatalf("unexpected items %+v", conf.Items)
	}
	if conf.Items[1].Price.String() != "50.00" {
		t.Fatalf("direct discount item should use base price, got %s", conf.Items[1].Price)
	}
	if conf.Subtotal.String() != "210.00" || conf.Discount.String() != "60.00" {
		t.Fatalf("subtotal/discount want 210.00/60.00 got %s/%s", conf.Subtotal, conf.Discount)
	}
	if conf.DeliveryWarehouse != "Відділення №1" {
		t.Fatalf("warehouse not kept on confirmation")
	}
	if cart.Count() != 0 {
		t.Fatalf("cart should be cleared after submit")
	}
	if creator.got == nil || len(creator.got.Items) != 2 {
		t.Fatalf("backend should receive both items")
	}
}

func TestSubmitFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	cart := newCart(t)
	cart.Add(ctx, models.Product{ID: 1, Name: "Губка", Price: models.NewPrice(10), FinalPrice: models.NewPrice(10)}, 1)

	creator := &stubCreator{err: errors.New("backend down")}
	if _, err := Submit(ctx, creator, cart, validForm(), "uk"); err == nil {
		t.Fatalf("want error")
	}
	if cart.Count() != 1 {
		t.Fatalf("failed submit must keep cart")
	}

	invalid := validForm()
	invalid.Phone = ""
	creator.got = nil
	if _, err := Submit(ctx, creator, cart, invalid, "uk"); !errors.Is(err, ErrInvalidForm) {
		t.Fatalf("want ErrInvalidForm got %v", err)
	}
	if creator.got != nil {
		t.Fatalf("invalid form must not reach backend")
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	cart := newCart(t)
	if _, err := Submit(context.Background(), &stubCreator{}, cart, validForm(), "uk"); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart got %v", err)
	}
}
