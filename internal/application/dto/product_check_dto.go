package dto

import (
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// CreateProductCheckRequest conteo físico; la cantidad esperada se toma del stock actual.
// Sin actualQuantity el conteo queda PENDING.
type CreateProductCheckRequest struct {
	ProductID      string `json:"productId" validate:"required"`
	ActualQuantity *int   `json:"actualQuantity" validate:"omitempty,min=0"`
	Notes          string `json:"notes" validate:"max=1000"`
}

// UpdateProductCheckRequest recuento o notas; la discrepancia se recalcula.
type UpdateProductCheckRequest struct {
	ActualQuantity *int    `json:"actualQuantity" validate:"omitempty,min=0"`
	Notes          *string `json:"notes" validate:"omitempty,max=1000"`
}

type ProductCheckFilter struct {
	StoreID   string `query:"storeId"`
	ProductID string `query:"productId"`
	Status    string `query:"status" validate:"omitempty,oneof=PENDING VERIFIED DISCREPANCY"`
}

func (f ProductCheckFilter) Filters() repository.Filters {
	out := repository.Filters{}
	putString(out, "store_id", f.StoreID)
	putString(out, "product_id", f.ProductID)
	putString(out, "status", f.Status)
	return out
}

var ProductCheckSortable = sortKeys("status", "discrepancy")

type ProductCheckResponse struct {
	ID               string     `json:"id"`
	OwnerID          string     `json:"ownerId"`
	StoreID          string     `json:"storeId"`
	ProductID        string     `json:"productId"`
	CheckedBy        string     `json:"checkedBy"`
	ExpectedQuantity int        `json:"expectedQuantity"`
	ActualQuantity   int        `json:"actualQuantity"`
	Discrepancy      int        `json:"discrepancy"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
}

func ToProductCheckResponse(c *entity.ProductCheck) ProductCheckResponse {
	return ProductCheckResponse{
		ID:               c.ID,
		OwnerID:          c.OwnerID,
		StoreID:          c.StoreID,
		ProductID:        c.ProductID,
		CheckedBy:        c.CheckedBy,
		ExpectedQuantity: c.ExpectedQuantity,
		ActualQuantity:   c.ActualQuantity,
		Discrepancy:      c.Discrepancy,
		Status:           c.Status,
		Notes:            c.Notes,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
		DeletedAt:        c.DeletedAt,
	}
}
