package pricing

import "github.com/spongik/storefront/internal/models"

// Summary 多行汇总
type Summary struct {
	Subtotal      models.Money `json:"subtotal"`
	OriginalTotal models.Money `json:"original_total"`
	Savings       models.Money `json:"savings"`
	Count         int          `json:"count"`
}

// HasSavings 是否存在优惠
func (s Summary) HasSavings() bool {
	return s.Savings.IsPositive()
}

// LineDisplay 购物车行展示（单价与按数量放大后的金额）
type LineDisplay struct {
	Line  models.CartLine `json:"line"`
	Unit  Display         `json:"unit"`
	Total Display         `json:"total"`
}

// ResolveLine 解析单行展示
func ResolveLine(line models.CartLine) LineDisplay {
	unit := Resolve(SnapshotOfLine(line))
	return LineDisplay{Line: line, Unit: unit, Total: unit.Scale(line.Qty)}
}

// Summarize 汇总：小计为现价×数量，原价合计为划线价（无则现价）×数量
func Summarize(lines []models.CartLine) Summary {
	var sum Summary
	for _, line := range lines {
		d := ResolveLine(line).Total
		sum.Subtotal = sum.Subtotal.Add(d.Current)
		if d.Original != nil {
			sum.OriginalTotal = sum.OriginalTotal.Add(*d.Original)
		} else {
			sum.OriginalTotal = sum.OriginalTotal.Add(d.Current)
		}
		sum.Count += line.Qty
	}
	if sum.OriginalTotal.GreaterThan(sum.Subtotal.Decimal) {
		sum.Savings = sum.OriginalTotal.Sub(sum.Subtotal)
	}
	return sum
}
