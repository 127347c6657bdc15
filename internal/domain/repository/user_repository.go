package repository

import (
	"context"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Base[entity.User]
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	ListByOwner(ctx context.Context, ownerID string, opts FindOptions) (*PaginatedResult[entity.User], error)
	// CountByOwnerAndRole sólo cuenta usuarios activos.
	CountByOwnerAndRole(ctx context.Context, ownerID string, role entity.Role) (int, error)
}
