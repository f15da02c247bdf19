// Package pricing 统一的价格展示规则：直接降价优先于促销活动。
package pricing

import (
	"github.com/spongik/storefront/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Snapshot 价格快照（商品或购物车行）
type Snapshot struct {
	BasePrice        models.Price
	FinalPrice       models.Price
	OldPrice         models.Price
	DiscountPercent  *int
	PromotionMatched bool
}

// Display 展示用价格
type Display struct {
	Original        *models.Money `json:"original"`
	Current         models.Money  `json:"current"`
	DiscountPercent *int          `json:"discount_percent"`
	Direct          bool          `json:"direct"`
	Promo           bool          `json:"promo"`
}

// HasDiscount 是否显示划线价
func (d Display) HasDiscount() bool {
	return d.Original != nil
}

// Scale 按数量放大展示金额，单价本身不变
func (d Display) Scale(qty int) Display {
	if qty <= 1 {
		return d
	}
	scaled := d
	scaled.Current = d.Current.Mul(qty)
	if d.Original != nil {
		original := d.Original.Mul(qty)
		scaled.Original = &original
	}
	return scaled
}

// Base 解析基础价，非数字视为 0
func (s Snapshot) Base() models.Money {
	return s.BasePrice.Money()
}

// Final 解析活动价：缺失时取基础价，非数字视为 0
func (s Snapshot) Final() models.Money {
	if s.FinalPrice.Valid() {
		return s.FinalPrice.Money()
	}
	if s.FinalPrice.Malformed() {
		return models.Money{}
	}
	return s.Base()
}

// Resolve 计算展示价格
//
// 1. 划线价仅在 old_price > base_price 时成立（直接降价）
// 2. 促销成立条件：final_price < base_price 且带有折扣标记（百分比或命中活动）
// 3. 直接降价优先：old_price 划线、base_price 为现价；否则促销：base_price 划线、final_price 为现价；
// 否则只显示 final_price
// 4. 未提供折扣百分比时按选中的新旧价推算，非正数丢弃
func Resolve(s Snapshot) Display {
	base := s.Base()
	final := s.Final()

	var old *models.Money
	if s.OldPrice.Valid() && s.OldPrice.Money().IsPositive() {
		old = s.OldPrice.Ptr()
	}

	direct := old != nil && old.GreaterThan(base.Decimal)
	promo := final.LessThan(base.Decimal) && (truthy(s.DiscountPercent) || s.PromotionMatched)

	switch {
	case direct:
		return Display{
			Original:        old,
			Current:         base,
			DiscountPercent: percentFor(s.DiscountPercent, *old, base),
			Direct:          true,
		}
	case promo:
		original := base
		return Display{
			Original:        &original,
			Current:         final,
			DiscountPercent: percentFor(s.DiscountPercent, base, final),
			Promo:           true,
		}
	default:
		return Display{Current: final}
	}
}

// Percent 推算折扣百分比 round((1 - new/old) * 100)，非正数返回 nil
func Percent(old, current models.Money) *int {
	if !old.IsPositive() {
		return nil
	}
	ratio := decimal.NewFromInt(1).Sub(current.Div(old.Decimal)).Mul(hundred).Round(0)
	value := int(ratio.IntPart())
	if value <= 0 {
		return nil
	}
	return &value
}

func percentFor(explicit *int, old, current models.Money) *int {
	if explicit != nil && *explicit > 0 {
		v := *explicit
		return &v
	}
	return Percent(old, current)
}

func truthy(v *int) bool {
	return v != nil && *v != 0
}

// SnapshotOfProduct 商品价格快照
func SnapshotOfProduct(p models.Product) Snapshot {
	return Snapshot{
		BasePrice:       p.Price,
		FinalPrice:      p.FinalPrice,
		OldPrice:        p.OldPrice,
		DiscountPercent: p.DiscountPercent,
	}
}

// SnapshotOfLine 购物车行价格快照（缺少基础价时取实际单价）
func SnapshotOfLine(line models.CartLine) Snapshot {
	base := line.BasePrice
	if !base.Valid() {
		base = models.PriceOf(line.Price)
	}
	return Snapshot{
		BasePrice:       base,
		FinalPrice:      models.PriceOf(line.Price),
		OldPrice:        line.OldPrice,
		DiscountPercent: line.DiscountPercent,
	}
}

// Effective 加入购物车时记录的实际单价（不超过基础价）
func Effective(s Snapshot) models.Money {
	base := s.Base()
	final := s.Final()
	if final.GreaterThan(base.Decimal) {
		return base
	}
	return final
}
