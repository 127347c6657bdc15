// Package inventory reglas de valoración del inventario (servicio de dominio, sin BD).
package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de mercancía:
//
//	nuevo = (stock × costo + entrada × costoEntrada) / (stock + entrada)
//
// Con stock previo <= 0 el costo de la entrada reemplaza al actual. Redondea a 2 decimales.
func WeightedAverageCost(stock int, cost decimal.Decimal, inQty int, inCost decimal.Decimal) decimal.Decimal {
	if inQty <= 0 {
		return cost
	}
	if stock <= 0 {
		return inCost.Round(2)
	}
	s, in := decimal.NewFromInt(int64(stock)), decimal.NewFromInt(int64(inQty))
	num := s.Mul(cost).Add(in.Mul(inCost))
	return num.Div(s.Add(in)).Round(2)
}
