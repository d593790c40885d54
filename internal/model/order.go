package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ItemsTotal sums the snapshotted line totals. It equals Order.Total for
// every order written by checkout.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Rating is the average review score of a store. A zero Count means the
// store has no ratings yet, which is distinct from an average of zero.
type Rating struct {
	Average float64
	Count   int64
}

// NewRating averages sum over count, rounded half away from zero to one
// decimal place.
func NewRating(sum, count int64) Rating {
	if count == 0 {
		return Rating{}
	}
	avg, _ := decimal.NewFromInt(sum).
		DivRound(decimal.NewFromInt(count), 4).
		Round(1).
		Float64()
	return Rating{Average: avg, Count: count}
}

func (r Rating) Rated() bool {
	return r.Count > 0
}

func (r Rating) MarshalJSON() ([]byte, error) {
	var average *float64
	if r.Rated() {
		avg := r.Average
		average = &avg
	}
	return json.Marshal(struct {
		Average *float64 `json:"average"`
		Count   int64    `json:"count"`
	}{average, r.Count})
}
