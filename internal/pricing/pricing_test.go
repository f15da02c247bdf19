package pricing

import (
	"encoding/json"
	"testing"

	"github.com/spongik/storefront/internal/models"
)

func intPtr(v int) *int { return &v }

func price(v float64) models.Price { return models.NewPrice(v) }

func mustProduct(t *testing.T, raw string) models.Product {
	t.Helper()
	var p models.Product
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal product failed: %v", err)
	}
	return p
}

func TestResolvePrecedence(t *testing.T) {
	cases := []struct {
		name        string
		snap        Snapshot
		wantOrig    string
		wantCurrent string
		wantPercent int
		direct      bool
		promo       bool
	}{
		{
			name:        "direct markdown wins over promotion",
			snap:        Snapshot{BasePrice: price(100), FinalPrice: price(70), OldPrice: price(150), DiscountPercent: intPtr(30)},
			wantOrig:    "150.00",
			wantCurrent: "100.00",
			wantPercent: 30,
			direct:      true,
		},
		{
			name:        "direct markdown derives percent",
			snap:        Snapshot{BasePrice: price(100), FinalPrice: price(100), OldPrice: price(150)},
			wantOrig:    "150.00",
			wantCurrent: "100.00",
			wantPercent: 33,
			direct:      true,
		},
		{
			name:        "promotion with percent",
			snap:        Snapshot{BasePrice: price(100), FinalPrice: price(80), DiscountPercent: intPtr(20)},
			wantOrig:    "100.00",
			wantCurrent: "80.00",
			wantPercent: 20,
			promo:       true,
		},
		{
			name:        "matched promotion without percent derives it",
			snap:        Snapshot{BasePrice: price(200), FinalPrice: price(150), PromotionMatched: true},
			wantOrig:    "200.00",
			wantCurrent: "150.00",
			wantPercent: 25,
			promo:       true,
		},
		{
			name:        "old price below base is ignored",
			snap:        Snapshot{BasePrice: price(100), FinalPrice: price(80), OldPrice: price(90), DiscountPercent: intPtr(20)},
			wantOrig:    "100.00",
			wantCurrent: "80.00",
			wantPercent: 20,
			promo:       true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Resolve(tc.snap)
			if !d.HasDiscount() {
				t.Fatalf("expected discount")
			}
			if d.Original.String() != tc.wantOrig {
				t.Fatalf("original want %s got %s", tc.wantOrig, d.Original.String())
			}
			if d.Current.String() != tc.wantCurrent {
				t.Fatalf("current want %s got %s", tc.wantCurrent, d.Current.String())
			}
			if d.DiscountPercent == nil || *d.DiscountPercent != tc.wantPercent {
				t.Fatalf("percent want %d got %v", tc.wantPercent, d.DiscountPercent)
			}
			if d.Direct != tc.direct || d.Promo != tc.promo {
				t.Fatalf("flags want direct=%v promo=%v got %v %v", tc.direct, tc.promo, d.Direct, d.Promo)
			}
		})
	}
}

func TestResolveWithoutDiscount(t *testing.T) {
	cases := []Snapshot{
		{BasePrice: price(100), FinalPrice: price(100)},
		{BasePrice: price(100)},
		{BasePrice: price(100), FinalPrice: price(80)},
		{BasePrice: price(100), FinalPrice: price(80), DiscountPercent: intPtr(0)},
		{BasePrice: price(100), FinalPrice: price(100), OldPrice: price(100), DiscountPercent: intPtr(15)},
	}
	for i, snap := range cases {
		d := Resolve(snap)
		if d.HasDiscount() {
			t.Fatalf("case %d: unexpected discount %+v", i, d)
		}
		if d.DiscountPercent != nil {
			t.Fatalf("case %d: badge must not appear", i)
		}
		if d.Current.String() != snap.Final().String() {
			t.Fatalf("case %d: current want final %s got %s", i, snap.Final(), d.Current)
		}
	}
}

func TestResolveFromBackendJSON(t *testing.T) {
	p := mustProduct(t, `{"id":1,"price":"100.00","old_price":"","final_price":"80.00","discount_percent":null}`)
	d := Resolve(SnapshotOfProduct(p))
	if d.HasDiscount() {
		t.Fatalf("empty old_price and null percent must not produce a discount")
	}
	if d.Current.String() != "80.00" {
		t.Fatalf("current want 80.00 got %s", d.Current)
	}

	p = mustProduct(t, `{"id":1,"price":"100.00","final_price":"abc"}`)
	if got := SnapshotOfProduct(p).Final().String(); got != "0.00" {
		t.Fatalf("malformed final should coerce to zero, got %s", got)
	}
	p = mustProduct(t, `{"id":1,"price":"100.00"}`)
	if got := SnapshotOfProduct(p).Final().String(); got != "100.00" {
		t.Fatalf("missing final should default to base, got %s", got)
	}
}

func TestScaleKeepsUnitPrices(t *testing.T) {
	unit := Resolve(Snapshot{BasePrice: price(100), FinalPrice: price(80), DiscountPercent: intPtr(20)})
	scaled := unit.Scale(3)
	if scaled.Current.String() != "240.00" || scaled.Original.String() != "300.00" {
		t.Fatalf("scaled want 300/240 got %s/%s", scaled.Original, scaled.Current)
	}
	if unit.Current.String() != "80.00" || unit.Original.String() != "100.00" {
		t.Fatalf("unit prices must stay unscaled")
	}
}

func TestEffectiveIsClampedToBase(t *testing.T) {
	if got := Effective(Snapshot{BasePrice: price(100), FinalPrice: price(120)}); got.String() != "100.00" {
		t.Fatalf("effective want 100.00 got %s", got)
	}
	if got := Effective(Snapshot{BasePrice: price(100), FinalPrice: price(80)}); got.String() != "80.00" {
		t.Fatalf("effective want 80.00 got %s", got)
	}
}

func TestSummarize(t *testing.T) {
	lines := []models.CartLine{
		{ID: 1, BasePrice: price(100), Price: models.NewMoney(80), DiscountPercent: intPtr(20), Qty: 2},
		{ID: 2, BasePrice: price(50), Price: models.NewMoney(50), Qty: 1},
		{ID: 3, BasePrice: price(100), Price: models.NewMoney(100), OldPrice: price(150), Qty: 1},
	}
	sum := Summarize(lines)
	if sum.Subtotal.String() != "310.00" {
		t.Fatalf("subtotal want 310.00 got %s", sum.Subtotal)
	}
	if sum.OriginalTotal.String() != "400.00" {
		t.Fatalf("original total want 400.00 got %s", sum.OriginalTotal)
	}
	if sum.Savings.String() != "90.00" || !sum.HasSavings() {
		t.Fatalf("savings want 90.00 got %s", sum.Savings)
	}
	if sum.Count != 4 {
		t.Fatalf("count want 4 got %d", sum.Count)
	}
}

func TestSnapshotOfLineFallsBackToPrice(t *testing.T) {
	snap := SnapshotOfLine(models.CartLine{Price: models.NewMoney(42), Qty: 1})
	if snap.Base().String() != "42.00" {
		t.Fatalf("base fallback want 42.00 got %s", snap.Base())
	}
}
