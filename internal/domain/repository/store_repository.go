package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// StoreRepository define el puerto de persistencia para Store.
type StoreRepository interface {
	Base[entity.Store]
	// FindByOwnerAndName compara el nombre sin distinguir mayúsculas, sólo filas no eliminadas.
	FindByOwnerAndName(ctx context.Context, ownerID, name string) (*entity.Store, error)
	ListByOwner(ctx context.Context, ownerID string, opts FindOptions) (*PaginatedResult[entity.Store], error)
	ListActiveByOwner(ctx context.Context, ownerID string) ([]*entity.Store, error)
}
