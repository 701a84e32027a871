package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Husnain-278/EventHub/internal/pricing"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCompute_Scenario(t *testing.T) {
	b := pricing.Compute(pricing.Input{
		Persisted:     true,
		GuestsCount:   50,
		PricePerChair: 500,
		BasePrice:     20000,
		PricesPerHead: []uint32{300, 200},
	})

	assert.True(t, b.Chairs.Equal(dec("25000")), "chairs=%s", b.Chairs)
	assert.True(t, b.Food.Equal(dec("25000")), "food=%s", b.Food)
	assert.True(t, b.Event.Equal(dec("20000")), "event=%s", b.Event)
	assert.True(t, b.Total.Equal(dec("70000")), "total=%s", b.Total)
	assert.Equal(t, "70000.00", b.Total.StringFixed(pricing.Places))
}

func TestFoodCost_ZeroWithoutItems(t *testing.T) {
	for _, guests := range []uint32{1, 10, 5000} {
		assert.True(t, pricing.FoodCost(true, guests, nil).IsZero())
		assert.True(t, pricing.FoodCost(true, guests, []uint32{}).IsZero())
	}
}

func TestFoodCost_ZeroBeforePersist(t *testing.T) {
	got := pricing.FoodCost(false, 40, []uint32{100, 250})
	assert.True(t, got.IsZero())
}

func TestFoodCost_Linear(t *testing.T) {
	cases := []struct {
		guests uint32
		prices []uint32
		want   int64
	}{
		{1, []uint32{100}, 100},
		{3, []uint32{100, 200, 300}, 1800},
		{120, []uint32{0, 450}, 54000},
		{7, []uint32{1, 1, 1, 1}, 28},
	}
	for _, c := range cases {
		got := pricing.FoodCost(true, c.guests, c.prices)
		assert.True(t, got.Equal(decimal.NewFromInt(c.want)), "guests=%d prices=%v got=%s", c.guests, c.prices, got)
	}
}

func TestTotalCost_Additive(t *testing.T) {
	inputs := []pricing.Input{
		{Persisted: false, GuestsCount: 1, PricePerChair: 0, BasePrice: 0},
		{Persisted: true, GuestsCount: 999, PricePerChair: 4294967295, BasePrice: 4294967295, PricesPerHead: []uint32{4294967295}},
		{Persisted: true, GuestsCount: 12, PricePerChair: 35, BasePrice: 1500, PricesPerHead: []uint32{10, 20}},
	}
	for _, in := range inputs {
		b := pricing.Compute(in)
		assert.True(t, b.Total.Equal(b.Chairs.Add(b.Food).Add(b.Event)), "input=%+v", in)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := pricing.Input{Persisted: true, GuestsCount: 8, PricePerChair: 75, BasePrice: 900, PricesPerHead: []uint32{40, 60}}
	first := pricing.Compute(in)
	second := pricing.Compute(in)
	assert.True(t, first.Chairs.Equal(second.Chairs))
	assert.True(t, first.Food.Equal(second.Food))
	assert.True(t, first.Event.Equal(second.Event))
	assert.True(t, first.Total.Equal(second.Total))
}

func TestChairsCost_NoOverflow(t *testing.T) {
	got := pricing.ChairsCost(4294967295, 4294967295)
	want := decimal.NewFromInt(4294967295).Mul(decimal.NewFromInt(4294967295))
	assert.True(t, got.Equal(want), "got=%s", got)
}
