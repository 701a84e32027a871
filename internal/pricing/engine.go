// Package pricing derives the cost breakdown of a booking.  Every
// function is pure: inputs are non-negative integers taken from the
// venue, the event type and the selected menu items, and results are
// fixed two-place decimals so totals never pass through floating point.
package pricing

import "github.com/shopspring/decimal"

// Places is the number of fractional digits kept on every amount.
const Places = 2

// MaxAmount is the largest amount a DECIMAL(10,2) cost column holds.
var MaxAmount = decimal.New(9999999999, -Places)

// Input is everything the engine needs to price one booking.
type Input struct {
	// Persisted is false until the booking has been assigned an id.
	// Line items reference the booking row, so none can exist before it.
	Persisted     bool
	GuestsCount   uint32
	PricePerChair uint32
	BasePrice     uint32
	PricesPerHead []uint32
}

// Breakdown holds the four derived amounts.
type Breakdown struct {
	Chairs decimal.Decimal
	Food   decimal.Decimal
	Event  decimal.Decimal
	Total  decimal.Decimal
}

// Compute runs the engine in its fixed order: chairs, food, event, total.
func Compute(in Input) Breakdown {
	var b Breakdown
	b.Chairs = ChairsCost(in.GuestsCount, in.PricePerChair)
	b.Food = FoodCost(in.Persisted, in.GuestsCount, in.PricesPerHead)
	b.Event = EventCost(in.BasePrice)
	b.Total = TotalCost(b.Chairs, b.Food, b.Event)
	return b
}

// ChairsCost is guests × price per chair.
func ChairsCost(guests, pricePerChair uint32) decimal.Decimal {
	return decimal.NewFromInt(int64(guests)).Mul(decimal.NewFromInt(int64(pricePerChair))).Round(Places)
}

// FoodCost is guests × Σ price per head.  It is zero for a booking that
// has not been persisted yet or has no line items.
func FoodCost(persisted bool, guests uint32, pricesPerHead []uint32) decimal.Decimal {
	if !persisted || len(pricesPerHead) == 0 {
		return amount(0)
	}
	perHead := decimal.Zero
	for _, p := range pricesPerHead {
		perHead = perHead.Add(decimal.NewFromInt(int64(p)))
	}
	return perHead.Mul(decimal.NewFromInt(int64(guests))).Round(Places)
}

// EventCost passes the event type's base price through.
func EventCost(basePrice uint32) decimal.Decimal {
	return amount(int64(basePrice))
}

// TotalCost is the plain sum of the three components.
func TotalCost(chairs, food, event decimal.Decimal) decimal.Decimal {
	return chairs.Add(food).Add(event).Round(Places)
}

func amount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Round(Places)
}
