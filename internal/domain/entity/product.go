package entity

import "github.com/shopspring/decimal"

// Product producto de una tienda. Quantity se mueve con transacciones, no con Update.
type Product struct {
	Model
	OwnerID    string
	StoreID    string
	CategoryID *string
	Name       string
	SKU        string // único por tienda
	Barcode    string // único por tienda si no está vacío
	Price      decimal.Decimal
	Cost       decimal.Decimal
	Quantity   int
	MinStock   int
	Unit       string
	IsActive   bool
}

// LowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) LowStock() bool { return p.Quantity <= p.MinStock }
