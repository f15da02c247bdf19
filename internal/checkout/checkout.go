package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/logger"
	"github.com/spongik/storefront/internal/models"
	"github.com/spongik/storefront/internal/pricing"
	"github.com/spongik/storefront/internal/state"

	"github.com/shopspring/decimal"
)

// DefaultFreeDeliveryThreshold 免运费门槛（UAH）
const DefaultFreeDeliveryThreshold = 1000

var (
	// ErrEmptyCart 购物车为空
	ErrEmptyCart = errors.New("checkout: cart is empty")
)

// OrderCreator 下单接口
type OrderCreator interface {
	CreateOrder(ctx context.Context, input models.OrderCreate) (*models.Order, error)
}

// Summary 结算汇总
type Summary struct {
	pricing.Summary
	FreeDelivery bool         `json:"free_delivery"`
	Threshold    models.Money `json:"threshold"`
	Remaining    models.Money `json:"remaining"`
	Total        models.Money `json:"total"`
}

// DeliveryLabel 运费文案
func (s Summary) DeliveryLabel(locale string) string {
	if s.FreeDelivery {
		return i18n.T(locale, "delivery.free")
	}
	return i18n.T(locale, "delivery.carrier_rates")
}

// Summarize 汇总购物车；小计达到门槛即免运费，否则给出差额
func Summarize(lines []models.CartLine, threshold models.Money) Summary {
	sum := Summary{Summary: pricing.Summarize(lines), Threshold: threshold}
	sum.Total = sum.Subtotal
	if !sum.Subtotal.LessThan(threshold.Decimal) {
		sum.FreeDelivery = true
		return sum
	}
	sum.Remaining = threshold.Sub(sum.Subtotal)
	return sum
}

// Item 确认页明细
type Item struct {
	ProductID   uint         `json:"product_id"`
	ProductName string       `json:"product_name"`
	Image       string       `json:"image,omitempty"`
	Quantity    int          `json:"quantity"`
	Price       models.Money `json:"price"`
	Total       models.Money `json:"total"`
}

// Confirmation 下单成功页数据
type Confirmation struct {
	OrderNumber       string       `json:"order_number"`
	Items             []Item       `json:"items"`
	Subtotal          models.Money `json:"subtotal"`
	Discount          models.Money `json:"discount"`
	DeliveryCost      models.Money `json:"delivery_cost"`
	Total             models.Money `json:"total"`
	DeliveryType      string       `json:"delivery_type"`
	DeliveryCity      string       `json:"delivery_city,omitempty"`
	DeliveryWarehouse string       `json:"delivery_warehouse,omitempty"`
	DeliveryAddress   string       `json:"delivery_address,omitempty"`
	PaymentType       string       `json:"payment_type"`
	CreatedAt         time.Time    `json:"created_at"`
}

// BuildOrder 组装下单请求体；可选字段为空时输出 null
func BuildOrder(form Form, lines []models.CartLine) models.OrderCreate {
	form = form.Normalize()
	items := make([]models.OrderItemCreate, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItemCreate{ProductID: line.ID, Quantity: line.Qty})
	}
	order := models.OrderCreate{
		Items:         items,
		CustomerName:  form.CustomerName(),
		CustomerPhone: form.Phone,
		CustomerEmail: optional(form.Email),
		DeliveryType:  form.DeliveryType,
		PaymentType:   form.PaymentType,
		PromotionCode: optional(form.PromotionCode),
		Notes:         optional(form.Notes),
	}
	switch form.DeliveryType {
	case models.DeliveryNovaPoshta:
		order.DeliveryCity = optional(form.City)
		order.DeliveryWarehouse = optional(form.Warehouse)
	case models.DeliveryCourier:
		order.DeliveryCity = optional(form.City)
		order.DeliveryAddress = optional(form.DeliveryAddress())
	}
	return order
}

// BuildConfirmation 用下单前的购物车快照和后端订单生成确认页数据
//
// 明细单价与购物车显示一致；优惠为原价合计与小计之差。
func BuildConfirmation(form Form, lines []models.CartLine, order *models.Order) *Confirmation {
	form = form.Normalize()
	sum := pricing.Summarize(lines)
	conf := &Confirmation{
		Items:        make([]Item, 0, len(lines)),
		Subtotal:     sum.Subtotal,
		Discount:     sum.Savings,
		DeliveryType: form.DeliveryType,
		PaymentType:  form.PaymentType,
		Total:        sum.Subtotal,
		CreatedAt:    time.Now(),
	}
	for _, line := range lines {
		d := pricing.ResolveLine(line)
		conf.Items = append(conf.Items, Item{
			ProductID:   line.ID,
			ProductName: line.Name,
			Image:       line.Image,
			Quantity:    line.Qty,
			Price:       d.Unit.Current,
			Total:       d.Total.Current,
		})
	}
	switch form.DeliveryType {
	case models.DeliveryNovaPoshta:
		conf.DeliveryCity = form.City
		conf.DeliveryWarehouse = form.Warehouse
	case models.DeliveryCourier:
		conf.DeliveryCity = form.City
		conf.DeliveryAddress = form.DeliveryAddress()
	}
	if order != nil {
		conf.OrderNumber = order.OrderNumber
		conf.DeliveryCost = order.DeliveryCost
		if !order.Total.IsZero() {
			conf.Total = order.Total
		}
		if !order.CreatedAt.IsZero() {
			conf.CreatedAt = order.CreatedAt
		}
	}
	return conf
}

// Submit 校验表单、创建订单、生成确认页数据，成功后清空购物车
//
// 校验失败返回 FieldErrors，不会调用后端；下单失败时购物车保持不变。
func Submit(ctx context.Context, creator OrderCreator, cart *state.Cart, form Form, locale string) (*Confirmation, error) {
	form = form.Normalize()
	if err := form.Validate(locale); err != nil {
		return nil, err
	}
	lines := cart.All()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	order, err := creator.CreateOrder(ctx, BuildOrder(form, lines))
	if err != nil {
		logger.Warnw("checkout_order_failed", "items", len(lines), "delivery_type", form.DeliveryType, "error", err)
		return nil, fmt.Errorf("checkout: create order: %w", err)
	}
	conf := BuildConfirmation(form, lines, order)
	cart.Clear(ctx)
	logger.Infow("checkout_order_created", "order_number", conf.OrderNumber, "items", len(lines), "total", conf.Total.String())
	return conf, nil
}

// ThresholdFromConfig 配置的门槛，非正数时使用默认值
func ThresholdFromConfig(amount int) models.Money {
	if amount <= 0 {
		amount = DefaultFreeDeliveryThreshold
	}
	return models.NewMoneyFromDecimal(decimal.NewFromInt(int64(amount)))
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
