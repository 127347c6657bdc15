package entity

import "github.com/shopspring/decimal"

// TransactionType tipo de movimiento comercial.
type TransactionType string

const (
	TransactionSale       TransactionType = "SALE"
	TransactionPurchase   TransactionType = "PURCHASE"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
	TransactionReturn     TransactionType = "RETURN"
)

// TransactionStatus estado de la transacción.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// StockDelta signo con que la transacción mueve el stock de cada ítem.
// ADJUSTMENT usa la cantidad tal cual (puede ser negativa).
func (t TransactionType) StockDelta(quantity int) int {
	switch t {
	case TransactionSale:
		return -quantity
	case TransactionPurchase, TransactionReturn:
		return quantity
	default:
		return quantity
	}
}

// CanTransitionTo transiciones válidas: PENDING → COMPLETED | CANCELLED, COMPLETED → CANCELLED.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case TransactionPending:
		return next == TransactionCompleted || next == TransactionCancelled
	case TransactionCompleted:
		return next == TransactionCancelled
	default:
		return false
	}
}

// Valid indica si el tipo es uno de los cuatro conocidos.
func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSale, TransactionPurchase, TransactionAdjustment, TransactionReturn:
		return true
	}
	return false
}

// TransactionItem línea de una transacción (se persiste como JSONB).
type TransactionItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Transaction venta, compra, ajuste o devolución.
type Transaction struct {
	Model
	OwnerID     string
	StoreID     string
	UserID      string
	Type        TransactionType
	Status      TransactionStatus
	Items       []TransactionItem
	TotalAmount decimal.Decimal
	Notes       string
}

// StockMoves delta de stock por producto que aplica la transacción al completarse.
// Con reverse devuelve los deltas que la deshacen (cancelación de una completada).
func (t *Transaction) StockMoves(reverse bool) map[string]int {
	out := make(map[string]int, len(t.Items))
	for _, it := range t.Items {
		d := t.Type.StockDelta(it.Quantity)
		if reverse {
			d = -d
		}
		out[it.ProductID] += d
	}
	return out
}
