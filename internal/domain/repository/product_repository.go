package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
type ProductRepository interface {
	Base[entity.Product]
	FindByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Product, error)
	FindByStoreAndBarcode(ctx context.Context, storeID, barcode string) (*entity.Product, error)
	Search(ctx context.Context, ownerID, term string, opts FindOptions) (*PaginatedResult[entity.Product], error)
	ListLowStock(ctx context.Context, ownerID string) ([]*entity.Product, error)
	// AdjustQuantity suma delta al stock; devuelve domain.ErrInsufficientStock si quedaría negativo.
	AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Product, error)
	// AdjustQuantityIncludingDeleted igual que AdjustQuantity pero también sobre productos
	// eliminados lógicamente. Lo usa la reversión de stock al cancelar.
	AdjustQuantityIncludingDeleted(ctx context.Context, id string, delta int) (*entity.Product, error)
}
