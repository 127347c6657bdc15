package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Base[entity.Category]
	ListByStore(ctx context.Context, storeID string) ([]*entity.Category, error)
}
