package dto

import (
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// CreateCategoryRequest entrada para crear una categoría dentro de una tienda.
type CreateCategoryRequest struct {
	StoreID     string `json:"storeId" validate:"required"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryFilter columnas filtrables del listado de categorías.
type CategoryFilter struct {
	StoreID string `query:"storeId"`
}

func (f CategoryFilter) Filters() repository.Filters {
	out := repository.Filters{}
	putString(out, "store_id", f.StoreID)
	return out
}

var CategorySortable = sortKeys("name")

type CategoryResponse struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"ownerId"`
	StoreID     string     `json:"storeId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

func ToCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		StoreID:     c.StoreID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		DeletedAt:   c.DeletedAt,
	}
}
