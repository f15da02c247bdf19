package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money 统一金额类型（保留 2 位小数）
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 从 decimal 创建金额
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(2)}
}

// NewMoney 从浮点数创建金额
func NewMoney(amount float64) Money {
	return NewMoneyFromDecimal(decimal.NewFromFloat(amount))
}

// MustMoney 从字符串创建金额，解析失败视为 0
func MustMoney(raw string) Money {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Money{}
	}
	return NewMoneyFromDecimal(d)
}

// Mul 乘以数量
func (m Money) Mul(qty int) Money {
	return NewMoneyFromDecimal(m.Decimal.Mul(decimal.NewFromInt(int64(qty))))
}

// Add 金额相加
func (m Money) Add(other Money) Money {
	return NewMoneyFromDecimal(m.Decimal.Add(other.Decimal))
}

// Sub 金额相减
func (m Money) Sub(other Money) Money {
	return NewMoneyFromDecimal(m.Decimal.Sub(other.Decimal))
}

// MarshalJSON 统一输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON 解析金额（字符串或数字）
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			m.Decimal = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		m.Decimal = d.Round(2)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	m.Decimal = decimal.NewFromFloat(f).Round(2)
	return nil
}

// Value 用于数据库写入
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(2).Value()
}

// Scan 用于数据库读取
func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}

// Price 可空价格（后端字段可能缺失、为 null、空串或非数字）
type Price struct {
	amount    Money
	valid     bool
	malformed bool
}

// PriceOf 构造有效价格
func PriceOf(m Money) Price {
	return Price{amount: m, valid: true}
}

// NewPrice 从浮点数构造有效价格
func NewPrice(amount float64) Price {
	return PriceOf(NewMoney(amount))
}

// Valid 是否为有效数值
func (p Price) Valid() bool {
	return p.valid
}

// Malformed 字段存在但不是数字
func (p Price) Malformed() bool {
	return p.malformed
}

// Money 返回金额，无效时为 0
func (p Price) Money() Money {
	if !p.valid {
		return Money{}
	}
	return p.amount
}

// Or 无效时返回 fallback
func (p Price) Or(fallback Money) Money {
	if !p.valid {
		return fallback
	}
	return p.amount
}

// Ptr 转换为可空指针
func (p Price) Ptr() *Money {
	if !p.valid {
		return nil
	}
	m := p.amount
	return &m
}

// MarshalJSON 无效时输出 null
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.valid {
		return []byte("null"), nil
	}
	return p.amount.MarshalJSON()
}

// UnmarshalJSON 解析价格，null / 空串 / 非数字均视为无效而非 0
func (p *Price) UnmarshalJSON(b []byte) error {
	*p = Price{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var raw string
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			p.malformed = true
			return nil
		}
	} else {
		raw = string(trimmed)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		p.malformed = true
		return nil
	}
	*p = PriceOf(NewMoneyFromDecimal(d))
	return nil
}
