package dto

import (
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TransactionItemRequest línea de la transacción. UnitPrice nil usa el precio del producto.
// En ADJUSTMENT Quantity puede ser negativa.
type TransactionItemRequest struct {
	ProductID string           `json:"productId" validate:"required"`
	Quantity  int              `json:"quantity" validate:"ne=0"`
	UnitPrice *decimal.Decimal `json:"unitPrice" validate:"omitempty,gte=0"`
}

// CreateTransactionRequest entrada para registrar una venta, compra, ajuste o devolución.
type CreateTransactionRequest struct {
	StoreID string                   `json:"storeId" validate:"required"`
	Type    string                   `json:"type" validate:"required,oneof=SALE PURCHASE ADJUSTMENT RETURN"`
	Items   []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes   string                   `json:"notes" validate:"max=1000"`
	// PENDING no mueve stock hasta completarse. Vacío ⇒ COMPLETED.
	Status string `json:"status" validate:"omitempty,oneof=PENDING COMPLETED"`
}

// UpdateTransactionRequest sólo las notas son editables; el estado va por UpdateStatus.
type UpdateTransactionRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdateTransactionStatusRequest cambio de estado.
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING COMPLETED CANCELLED"`
}

// TransactionFilter columnas filtrables del listado de transacciones.
type TransactionFilter struct {
	StoreID string `query:"storeId"`
	UserID  string `query:"userId"`
	Type    string `query:"type" validate:"omitempty,oneof=SALE PURCHASE ADJUSTMENT RETURN"`
	Status  string `query:"status" validate:"omitempty,oneof=PENDING COMPLETED CANCELLED"`
}

func (f TransactionFilter) Filters() repository.Filters {
	out := repository.Filters{}
	putString(out, "store_id", f.StoreID)
	putString(out, "user_id", f.UserID)
	putString(out, "type", f.Type)
	putString(out, "status", f.Status)
	return out
}

var TransactionSortable = sortKeys("total_amount", "type", "status")

type TransactionResponse struct {
	ID          string                   `json:"id"`
	OwnerID     string                   `json:"ownerId"`
	StoreID     string                   `json:"storeId"`
	UserID      string                   `json:"userId"`
	Type        string                   `json:"type"`
	Status      string                   `json:"status"`
	Items       []entity.TransactionItem `json:"items"`
	TotalAmount decimal.Decimal          `json:"totalAmount"`
	Notes       string                   `json:"notes"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
	DeletedAt   *time.Time               `json:"deletedAt,omitempty"`
}

func ToTransactionResponse(t *entity.Transaction) TransactionResponse {
	items := t.Items
	if items == nil {
		items = []entity.TransactionItem{}
	}
	return TransactionResponse{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		StoreID:     t.StoreID,
		UserID:      t.UserID,
		Type:        string(t.Type),
		Status:      string(t.Status),
		Items:       items,
		TotalAmount: t.TotalAmount,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   t.DeletedAt,
	}
}
