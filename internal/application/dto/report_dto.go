package dto

import "github.com/shopspring/decimal"

// TopProductDTO producto destacado del mes en el dashboard.
type TopProductDTO struct {
	ProductID string          `json:"productId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	UnitsSold int             `json:"unitsSold"`
	Revenue   decimal.Decimal `json:"revenue"`
	MarginPct decimal.Decimal `json:"marginPct"` // (ingreso - costo) / ingreso × 100
}

// DashboardSummary resumen de ventas del día y del mes en curso.
type DashboardSummary struct {
	StoreID           string          `json:"storeId,omitempty"`
	TodaySales        decimal.Decimal `json:"todaySales"`
	TodayMargin       decimal.Decimal `json:"todayMargin"`
	TodayTransactions int             `json:"todayTransactions"`
	MonthlySales      decimal.Decimal `json:"monthlySales"`
	MonthlyMargin     decimal.Decimal `json:"monthlyMargin"`
	MonthTransactions int             `json:"monthTransactions"`
	TopProducts       []TopProductDTO `json:"topProducts"`
	LowStockCount     int             `json:"lowStockCount"`
	DateLabel         string          `json:"dateLabel"`
}

// ReplenishmentSuggestion producto a reponer, con cantidad sugerida y prioridad (1 = más urgente).
type ReplenishmentSuggestion struct {
	Priority          int             `json:"priority"`
	ProductID         string          `json:"productId"`
	StoreID           string          `json:"storeId"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	MinStock          int             `json:"minStock"`
	IdealStock        int             `json:"idealStock"`
	SuggestedQuantity int             `json:"suggestedQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
	EstimatedCost     decimal.Decimal `json:"estimatedCost"`
	MarginPct         decimal.Decimal `json:"marginPct"`
	UnitsSold90Days   int             `json:"unitsSold90Days"`
}
