package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

var transactionTable = NewTable("transactions",
	[]string{"id", "owner_id", "store_id", "user_id", "type", "status", "items", "total_amount", "notes",
		"created_at", "updated_at", "deleted_at"},
	scanTransaction,
	func(t *entity.Transaction) map[string]any {
		return map[string]any{
			"id":           t.ID,
			"owner_id":     t.OwnerID,
			"store_id":     t.StoreID,
			"user_id":      t.UserID,
			"type":         string(t.Type),
			"status":       string(t.Status),
			"items":        t.Items,
			"total_amount": t.TotalAmount,
			"notes":        t.Notes,
		}
	},
)

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var t entity.Transaction
	var typ, status string
	if err := row.Scan(&t.ID, &t.OwnerID, &t.StoreID, &t.UserID, &typ, &status, &t.Items, &t.TotalAmount, &t.Notes,
		&t.CreatedAt, &t.UpdatedAt, &t.DeletedAt); err != nil {
		return nil, err
	}
	t.Type = entity.TransactionType(typ)
	t.Status = entity.TransactionStatus(status)
	return &t, nil
}

// TransactionRepo implementación del puerto TransactionRepository sobre PostgreSQL.
type TransactionRepo struct {
	*BaseRepository[entity.Transaction]
}

// NewTransactionRepository construye el adaptador de persistencia para transacciones.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{BaseRepository: NewBaseRepository(q, transactionTable)}
}

// ListByStatus transacciones del tenant en un estado dado.
func (r *TransactionRepo) ListByStatus(ctx context.Context, ownerID string, status entity.TransactionStatus, opts repository.FindOptions) (*repository.PaginatedResult[entity.Transaction], error) {
	opts.Filters = withFilter(opts.Filters, "owner_id", ownerID)
	opts.Filters = withFilter(opts.Filters, "status", string(status))
	return r.FindAll(ctx, opts)
}

// UpdateStatus cambia sólo el estado.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus) (*entity.Transaction, error) {
	return r.Update(ctx, id, repository.Changes{"status": string(status)})
}
