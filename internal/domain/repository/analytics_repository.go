package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregados de las ventas COMPLETED de un período.
type SalesMetrics struct {
	Transactions int
	UnitsSold    int
	Revenue      decimal.Decimal // suma de subtotales de los ítems
	Cost         decimal.Decimal // unidades × products.cost actual
}

// ProductSales ventas de un producto en el período.
type ProductSales struct {
	ProductID string
	SKU       string
	Name      string
	UnitsSold int
	Revenue   decimal.Decimal
	Cost      decimal.Decimal
}

// AnalyticsRepository consultas de lectura para reportes. storeID vacío abarca todo el tenant.
type AnalyticsRepository interface {
	// SalesMetrics ingresos y costo de las ventas completadas en [from, to).
	SalesMetrics(ctx context.Context, ownerID, storeID string, from, to time.Time) (SalesMetrics, error)

	// TopProducts los limit productos con mayor ingreso en [from, to).
	TopProducts(ctx context.Context, ownerID, storeID string, from, to time.Time, limit int) ([]ProductSales, error)
}
