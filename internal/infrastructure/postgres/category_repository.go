package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

var categoryTable = NewTable("categories",
	[]string{"id", "owner_id", "store_id", "name", "description", "created_at", "updated_at", "deleted_at"},
	scanCategory,
	func(c *entity.Category) map[string]any {
		return map[string]any{
			"id":          c.ID,
			"owner_id":    c.OwnerID,
			"store_id":    c.StoreID,
			"name":        c.Name,
			"description": c.Description,
		}
	},
)

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.OwnerID, &c.StoreID, &c.Name, &c.Description,
		&c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	*BaseRepository[entity.Category]
}

// NewCategoryRepository construye el adaptador de persistencia para categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{BaseRepository: NewBaseRepository(q, categoryTable)}
}

// ListByStore categorías no eliminadas de una tienda, por nombre.
func (r *CategoryRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.Category, error) {
	query := `SELECT ` + categoryTable.selectList() + `
		FROM categories WHERE store_id = $1 AND deleted_at IS NULL ORDER BY name`
	return r.many(ctx, "list categories by store", query, storeID)
}
