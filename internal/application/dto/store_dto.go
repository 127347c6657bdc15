package dto

import (
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// CreateStoreRequest entrada para crear una tienda.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=150"`
	Address string `json:"address" validate:"max=300"`
	Phone   string `json:"phone" validate:"max=50"`
}

// UpdateStoreRequest actualización parcial de una tienda.
type UpdateStoreRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=150"`
	Address  *string `json:"address" validate:"omitempty,max=300"`
	Phone    *string `json:"phone" validate:"omitempty,max=50"`
	IsActive *bool   `json:"isActive"`
}

// StoreFilter columnas filtrables del listado de tiendas.
type StoreFilter struct {
	IsActive *bool `query:"isActive"`
}

func (f StoreFilter) Filters() repository.Filters {
	return repository.Filters{"is_active": f.IsActive}
}

var StoreSortable = sortKeys("name")

// StoreResponse salida de una tienda.
type StoreResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"ownerId"`
	Name      string     `json:"name"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

func ToStoreResponse(s *entity.Store) StoreResponse {
	return StoreResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		DeletedAt: s.DeletedAt,
	}
}
