package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productTable = NewTable("products",
	[]string{"id", "owner_id", "store_id", "category_id", "name", "sku", "barcode", "price", "cost",
		"quantity", "min_stock", "unit", "is_active", "created_at", "updated_at", "deleted_at"},
	scanProduct,
	func(p *entity.Product) map[string]any {
		return map[string]any{
			"id":          p.ID,
			"owner_id":    p.OwnerID,
			"store_id":    p.StoreID,
			"category_id": p.CategoryID,
			"name":        p.Name,
			"sku":         p.SKU,
			"barcode":     p.Barcode,
			"price":       p.Price,
			"cost":        p.Cost,
			"quantity":    p.Quantity,
			"min_stock":   p.MinStock,
			"unit":        p.Unit,
			"is_active":   p.IsActive,
		}
	},
)

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.OwnerID, &p.StoreID, &p.CategoryID, &p.Name, &p.SKU, &p.Barcode,
		&p.Price, &p.Cost, &p.Quantity, &p.MinStock, &p.Unit, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	*BaseRepository[entity.Product]
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{BaseRepository: NewBaseRepository(q, productTable)}
}

// FindByStoreAndSKU obtiene un producto no eliminado por tienda y SKU.
func (r *ProductRepo) FindByStoreAndSKU(ctx context.Context, storeID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productTable.selectList() + `
		FROM products WHERE store_id = $1 AND sku = $2 AND deleted_at IS NULL`
	return r.one(ctx, "get product by sku", query, storeID, sku)
}

// FindByStoreAndBarcode obtiene un producto no eliminado por tienda y código de barras.
func (r *ProductRepo) FindByStoreAndBarcode(ctx context.Context, storeID, barcode string) (*entity.Product, error) {
	query := `SELECT ` + productTable.selectList() + `
		FROM products WHERE store_id = $1 AND barcode = $2 AND deleted_at IS NULL`
	return r.one(ctx, "get product by barcode", query, storeID, barcode)
}

// Search busca por nombre, SKU o código de barras (ILIKE) dentro del tenant.
func (r *ProductRepo) Search(ctx context.Context, ownerID, term string, opts repository.FindOptions) (*repository.PaginatedResult[entity.Product], error) {
	opts.Filters = withFilter(opts.Filters, "owner_id", ownerID)
	w := buildWhere(productTable, opts.Filters, opts.IncludeDeleted)
	if term = strings.TrimSpace(term); term != "" {
		w.addShared("(name ILIKE $? OR sku ILIKE $? OR barcode ILIKE $?)", "%"+escapeLike(term)+"%")
	}
	return r.findPage(ctx, w, opts)
}

// ListLowStock productos activos del tenant con quantity <= min_stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, ownerID string) ([]*entity.Product, error) {
	query := `SELECT ` + productTable.selectList() + `
		FROM products WHERE owner_id = $1 AND is_active AND quantity <= min_stock AND deleted_at IS NULL
		ORDER BY quantity ASC, name ASC`
	return r.many(ctx, "list low stock", query, ownerID)
}

// AdjustQuantity suma delta al stock en una sola sentencia; no permite dejarlo negativo.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Product, error) {
	return r.adjustQuantity(ctx, id, delta, false)
}

// AdjustQuantityIncludingDeleted igual que AdjustQuantity sin excluir filas eliminadas.
func (r *ProductRepo) AdjustQuantityIncludingDeleted(ctx context.Context, id string, delta int) (*entity.Product, error) {
	return r.adjustQuantity(ctx, id, delta, true)
}

func (r *ProductRepo) adjustQuantity(ctx context.Context, id string, delta int, includeDeleted bool) (*entity.Product, error) {
	guard := " AND deleted_at IS NULL"
	if includeDeleted {
		guard = ""
	}
	query := `UPDATE products SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1` + guard + ` AND quantity + $2 >= 0
		RETURNING ` + productTable.selectList()
	p, err := scanProduct(r.q.QueryRow(ctx, query, id, delta))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, exErr := r.findByID(ctx, id, includeDeleted)
			if exErr != nil {
				return nil, exErr
			}
			if existing != nil {
				return nil, domain.ErrInsufficientStock
			}
			return nil, nil
		}
		return nil, mapError("adjust product quantity", err)
	}
	return p, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
