package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

var storeTable = NewTable("stores",
	[]string{"id", "owner_id", "name", "address", "phone", "is_active", "created_at", "updated_at", "deleted_at"},
	scanStore,
	func(s *entity.Store) map[string]any {
		return map[string]any{
			"id":        s.ID,
			"owner_id":  s.OwnerID,
			"name":      s.Name,
			"address":   s.Address,
			"phone":     s.Phone,
			"is_active": s.IsActive,
		}
	},
)

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Address, &s.Phone, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	*BaseRepository[entity.Store]
}

// NewStoreRepository construye el adaptador de persistencia para tiendas.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{BaseRepository: NewBaseRepository(q, storeTable)}
}

// FindByOwnerAndName busca una tienda del owner por nombre sin distinguir mayúsculas.
func (r *StoreRepo) FindByOwnerAndName(ctx context.Context, ownerID, name string) (*entity.Store, error) {
	query := `SELECT ` + storeTable.selectList() + `
		FROM stores WHERE owner_id = $1 AND lower(name) = lower($2) AND deleted_at IS NULL LIMIT 1`
	return r.one(ctx, "get store by name", query, ownerID, name)
}

// ListByOwner lista tiendas del owner con paginación.
func (r *StoreRepo) ListByOwner(ctx context.Context, ownerID string, opts repository.FindOptions) (*repository.PaginatedResult[entity.Store], error) {
	opts.Filters = withFilter(opts.Filters, "owner_id", ownerID)
	return r.FindAll(ctx, opts)
}

// ListActiveByOwner tiendas activas del owner ordenadas por nombre.
func (r *StoreRepo) ListActiveByOwner(ctx context.Context, ownerID string) ([]*entity.Store, error) {
	query := `SELECT ` + storeTable.selectList() + `
		FROM stores WHERE owner_id = $1 AND is_active AND deleted_at IS NULL ORDER BY name`
	return r.many(ctx, "list active stores", query, ownerID)
}
