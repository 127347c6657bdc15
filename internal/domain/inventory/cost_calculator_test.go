package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	d := decimal.RequireFromString
	cases := []struct {
		name   string
		stock  int
		cost   string
		inQty  int
		inCost string
		want   string
	}{
		{"promedia stock y entrada", 10, "1.00", 10, "2.00", "1.50"},
		{"pondera por cantidad", 30, "4.00", 10, "8.00", "5.00"},
		{"redondea a centavos", 3, "1.00", 1, "2.00", "1.25"},
		{"sin stock previo toma el costo de entrada", 0, "9.99", 5, "3.10", "3.10"},
		{"stock negativo se ignora", -2, "9.99", 5, "3.10", "3.10"},
		{"entrada vacía conserva el costo", 10, "1.00", 0, "7.00", "1.00"},
		{"mismo costo no cambia", 10, "1.00", 5, "1.00", "1.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := WeightedAverageCost(tc.stock, d(tc.cost), tc.inQty, d(tc.inCost))
			assert.True(t, d(tc.want).Equal(got), "got %s", got)
		})
	}
}
