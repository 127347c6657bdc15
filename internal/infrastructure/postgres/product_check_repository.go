package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.ProductCheckRepository = (*ProductCheckRepo)(nil)

var productCheckTable = NewTable("product_checks",
	[]string{"id", "owner_id", "store_id", "product_id", "checked_by", "expected_quantity", "actual_quantity",
		"discrepancy", "status", "notes", "created_at", "updated_at", "deleted_at"},
	scanProductCheck,
	func(c *entity.ProductCheck) map[string]any {
		return map[string]any{
			"id":                c.ID,
			"owner_id":          c.OwnerID,
			"store_id":          c.StoreID,
			"product_id":        c.ProductID,
			"checked_by":        c.CheckedBy,
			"expected_quantity": c.ExpectedQuantity,
			"actual_quantity":   c.ActualQuantity,
			"discrepancy":       c.Discrepancy,
			"status":            c.Status,
			"notes":             c.Notes,
		}
	},
)

func scanProductCheck(row pgx.Row) (*entity.ProductCheck, error) {
	var c entity.ProductCheck
	if err := row.Scan(&c.ID, &c.OwnerID, &c.StoreID, &c.ProductID, &c.CheckedBy, &c.ExpectedQuantity,
		&c.ActualQuantity, &c.Discrepancy, &c.Status, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ProductCheckRepo implementación del puerto ProductCheckRepository sobre PostgreSQL.
type ProductCheckRepo struct {
	*BaseRepository[entity.ProductCheck]
}

// NewProductCheckRepository construye el adaptador de persistencia para conteos.
func NewProductCheckRepository(q Querier) *ProductCheckRepo {
	return &ProductCheckRepo{BaseRepository: NewBaseRepository(q, productCheckTable)}
}

// ListByProduct historial de conteos de un producto, más reciente primero.
func (r *ProductCheckRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductCheck, error) {
	query := `SELECT ` + productCheckTable.selectList() + `
		FROM product_checks WHERE product_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`
	return r.many(ctx, "list checks by product", query, productID)
}

// ListByStatus conteos del tenant en un estado dado.
func (r *ProductCheckRepo) ListByStatus(ctx context.Context, ownerID, status string, opts repository.FindOptions) (*repository.PaginatedResult[entity.ProductCheck], error) {
	opts.Filters = withFilter(opts.Filters, "owner_id", ownerID)
	opts.Filters = withFilter(opts.Filters, "status", status)
	return r.FindAll(ctx, opts)
}
