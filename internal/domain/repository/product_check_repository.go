package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// ProductCheckRepository define el puerto de persistencia para ProductCheck.
type ProductCheckRepository interface {
	Base[entity.ProductCheck]
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductCheck, error)
	ListByStatus(ctx context.Context, ownerID, status string, opts FindOptions) (*PaginatedResult[entity.ProductCheck], error)
}
