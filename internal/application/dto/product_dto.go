package dto

import (
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. Quantity es el stock inicial.
type CreateProductRequest struct {
	StoreID    string          `json:"storeId" validate:"required"`
	CategoryID *string         `json:"categoryId" validate:"omitempty,min=1"`
	Name       string          `json:"name" validate:"required,min=1,max=200"`
	SKU        string          `json:"sku" validate:"required,min=1,max=100"`
	Barcode    string          `json:"barcode" validate:"max=100"`
	Price      decimal.Decimal `json:"price" validate:"gte=0"`
	Cost       decimal.Decimal `json:"cost" validate:"gte=0"`
	Quantity   int             `json:"quantity" validate:"min=0"`
	MinStock   int             `json:"minStock" validate:"min=0"`
	Unit       string          `json:"unit" validate:"max=20"`
}

// UpdateProductRequest actualización parcial. El stock no se toca aquí: se mueve con transacciones.
type UpdateProductRequest struct {
	CategoryID *string          `json:"categoryId"`
	Name       *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU        *string          `json:"sku" validate:"omitempty,min=1,max=100"`
	Barcode    *string          `json:"barcode" validate:"omitempty,max=100"`
	Price      *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Cost       *decimal.Decimal `json:"cost" validate:"omitempty,gte=0"`
	MinStock   *int             `json:"minStock" validate:"omitempty,min=0"`
	Unit       *string          `json:"unit" validate:"omitempty,max=20"`
	IsActive   *bool            `json:"isActive"`
}

// ProductFilter columnas filtrables del listado de productos.
type ProductFilter struct {
	StoreID    string `query:"storeId"`
	CategoryID string `query:"categoryId"`
	SKU        string `query:"sku"`
	IsActive   *bool  `query:"isActive"`
}

func (f ProductFilter) Filters() repository.Filters {
	out := repository.Filters{"is_active": f.IsActive}
	putString(out, "store_id", f.StoreID)
	putString(out, "category_id", f.CategoryID)
	putString(out, "sku", f.SKU)
	return out
}

var ProductSortable = sortKeys("name", "sku", "price", "quantity")

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	OwnerID    string          `json:"ownerId"`
	StoreID    string          `json:"storeId"`
	CategoryID *string         `json:"categoryId"`
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	Barcode    string          `json:"barcode"`
	Price      decimal.Decimal `json:"price"`
	Cost       decimal.Decimal `json:"cost"`
	Quantity   int             `json:"quantity"`
	MinStock   int             `json:"minStock"`
	Unit       string          `json:"unit"`
	IsActive   bool            `json:"isActive"`
	LowStock   bool            `json:"lowStock"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	DeletedAt  *time.Time      `json:"deletedAt,omitempty"`
}

func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		StoreID:    p.StoreID,
		CategoryID: p.CategoryID,
		Name:       p.Name,
		SKU:        p.SKU,
		Barcode:    p.Barcode,
		Price:      p.Price,
		Cost:       p.Cost,
		Quantity:   p.Quantity,
		MinStock:   p.MinStock,
		Unit:       p.Unit,
		IsActive:   p.IsActive,
		LowStock:   p.LowStock(),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		DeletedAt:  p.DeletedAt,
	}
}
