package models

import "time"

// 订单状态
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 配送方式
const (
	DeliveryNovaPoshta = "nova_poshta"
	DeliveryCourier    = "courier"
	DeliveryPickup     = "pickup"
)

// 支付方式
const (
	PaymentCash           = "cash"
	PaymentCardOnDelivery = "card_on_delivery"
	PaymentOnline         = "online"
)

// Order 订单
type Order struct {
	ID                uint        `json:"id"`                           // 主键
	OrderNumber       string      `json:"order_number"`                 // 订单号
	CustomerName      string      `json:"customer_name"`                // 收件人
	CustomerPhone     string      `json:"customer_phone"`               // 电话
	CustomerEmail     string      `json:"customer_email,omitempty"`     // 邮箱
	DeliveryType      string      `json:"delivery_type"`                // 配送方式
	DeliveryAddress   string      `json:"delivery_address,omitempty"`   // 快递地址
	DeliveryCity      string      `json:"delivery_city,omitempty"`      // 城市
	DeliveryWarehouse string      `json:"delivery_warehouse,omitempty"` // 网点
	PaymentType       string      `json:"payment_type"`                 // 支付方式
	IsPaid            bool        `json:"is_paid"`                      // 是否已支付
	Subtotal          Money       `json:"subtotal"`                     // 小计
	Discount          Money       `json:"discount"`                     // 优惠
	DeliveryCost      Money       `json:"delivery_cost"`                // 运费
	Total             Money       `json:"total"`                        // 合计
	PromotionCode     string      `json:"promotion_code,omitempty"`     // 促销码
	Status            string      `json:"status"`                       // 状态
	Notes             string      `json:"notes,omitempty"`              // 备注
	CreatedAt         time.Time   `json:"created_at"`                   // 创建时间
	Items             []OrderItem `json:"items"`                        // 明细
}

// OrderItem 订单明细
type OrderItem struct {
	ID          uint   `json:"id"`
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	ProductSKU  string `json:"product_sku,omitempty"`
	Quantity    int    `json:"quantity"`
	Price       Money  `json:"price"`
	Total       Money  `json:"total"`
}

// OrderCreate 下单请求体
type OrderCreate struct {
	Items             []OrderItemCreate `json:"items"`
	CustomerName      string            `json:"customer_name"`
	CustomerPhone     string            `json:"customer_phone"`
	CustomerEmail     *string           `json:"customer_email"`
	DeliveryType      string            `json:"delivery_type"`
	DeliveryAddress   *string           `json:"delivery_address"`
	DeliveryCity      *string           `json:"delivery_city"`
	DeliveryWarehouse *string           `json:"delivery_warehouse"`
	PaymentType       string            `json:"payment_type"`
	PromotionCode     *string           `json:"promotion_code,omitempty"`
	Notes             *string           `json:"notes"`
}

// OrderItemCreate 下单明细
type OrderItemCreate struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderPage 后台订单分页
type OrderPage struct {
	Items    []Order `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

// OrderStatusInput 后台更新订单状态
type OrderStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	IsPaid *bool  `json:"is_paid,omitempty"`
}
