// Package view 页面视图模型：只输出结构化数据，渲染交给前端
package view

import (
	"strings"

	"github.com/spongik/storefront/internal/i18n"
	"github.com/spongik/storefront/internal/models"
)

// Currency 货币符号
const Currency = "₴"

// FormatPrice 按 uk-UA 习惯格式化：千位空格分组，整数不显示小数，否则逗号两位小数
func FormatPrice(m models.Money) string {
	d := m.Decimal.Round(2)
	negative := d.IsNegative()
	if negative {
		d = d.Neg()
	}
	whole := d.Truncate(0)
	fraction := d.Sub(whole)

	out := groupThousands(whole.String())
	if !fraction.IsZero() {
		cents := d.StringFixed(2)
		out += "," + cents[len(cents)-2:]
	}
	if negative {
		out = "-" + out
	}
	return out + " " + Currency
}

// FormatPricePtr 可空金额，nil 返回空串
func FormatPricePtr(m *models.Money) string {
	if m == nil {
		return ""
	}
	return FormatPrice(*m)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// PluralKey 乌克兰语复数形式：1 / 2-4 / 其他（11-19 归入其他）
func PluralKey(n int) string {
	if n < 0 {
		n = -n
	}
	lastTwo, lastOne := n%100, n%10
	switch {
	case lastTwo >= 11 && lastTwo <= 19:
		return "many"
	case lastOne == 1:
		return "one"
	case lastOne >= 2 && lastOne <= 4:
		return "few"
	}
	return "many"
}

// ProductsLabel “N товарів”
func ProductsLabel(locale string, n int) string {
	return i18n.T(locale, "products."+PluralKey(n))
}

// StatusLabel 订单状态文案，未知状态原样返回
func StatusLabel(locale, status string) string {
	key := "order.status." + status
	if msg := i18n.T(locale, key); msg != key {
		return msg
	}
	return status
}

// PaymentLabel 支付方式文案
func PaymentLabel(locale, paymentType string) string {
	key := "payment." + paymentType
	if msg := i18n.T(locale, key); msg != key {
		return msg
	}
	return paymentType
}

// DeliveryLabel 配送方式文案
func DeliveryLabel(locale, deliveryType string) string {
	key := "delivery.type." + deliveryType
	if msg := i18n.T(locale, key); msg != key {
		return msg
	}
	return deliveryType
}

// RoleLabel 用户角色文案
func RoleLabel(locale, role string) string {
	key := "role." + strings.ToLower(role)
	if msg := i18n.T(locale, key); msg != key {
		return msg
	}
	return role
}
