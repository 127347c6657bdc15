package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// TransactionRepository define el puerto de persistencia para Transaction.
type TransactionRepository interface {
	Base[entity.Transaction]
	ListByStatus(ctx context.Context, ownerID string, status entity.TransactionStatus, opts FindOptions) (*PaginatedResult[entity.Transaction], error)
	UpdateStatus(ctx context.Context, id string, status entity.TransactionStatus) (*entity.Transaction, error)
}
