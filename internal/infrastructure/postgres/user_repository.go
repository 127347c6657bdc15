package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

var userTable = NewTable("users",
	[]string{"id", "owner_id", "store_id", "username", "email", "password_hash", "name", "role", "is_active", "created_at", "updated_at", "deleted_at"},
	scanUser,
	func(u *entity.User) map[string]any {
		return map[string]any{
			"id":            u.ID,
			"owner_id":      u.OwnerID,
			"store_id":      u.StoreID,
			"username":      u.Username,
			"email":         u.Email,
			"password_hash": u.PasswordHash,
			"name":          u.Name,
			"role":          string(u.Role),
			"is_active":     u.IsActive,
		}
	},
)

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	if err := row.Scan(&u.ID, &u.OwnerID, &u.StoreID, &u.Username, &u.Email, &u.PasswordHash, &u.Name, &role,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	*BaseRepository[entity.User]
}

// NewUserRepository construye el adaptador de persistencia para usuarios. Pasar pool o tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{BaseRepository: NewBaseRepository(q, userTable)}
}

// FindByUsername busca un usuario activo (no eliminado) por username, sin distinguir mayúsculas.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := `SELECT ` + userTable.selectList() + ` FROM users WHERE lower(username) = lower($1) AND deleted_at IS NULL`
	return r.one(ctx, "get user by username", query, username)
}

// FindByEmail busca un usuario no eliminado por email, sin distinguir mayúsculas.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userTable.selectList() + ` FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL`
	return r.one(ctx, "get user by email", query, email)
}

// ListByOwner lista los usuarios de un tenant. Incluye al propio OWNER (id = ownerID).
func (r *UserRepo) ListByOwner(ctx context.Context, ownerID string, opts repository.FindOptions) (*repository.PaginatedResult[entity.User], error) {
	w := buildWhere(userTable, opts.Filters, opts.IncludeDeleted)
	w.addShared("(owner_id = $? OR id = $?)", ownerID)
	return r.findPage(ctx, w, opts)
}

// CountByOwnerAndRole cuenta usuarios activos y no eliminados de un tenant con un rol dado.
func (r *UserRepo) CountByOwnerAndRole(ctx context.Context, ownerID string, role entity.Role) (int, error) {
	return r.Count(ctx, repository.CountOptions{Filters: repository.Filters{
		"owner_id": ownerID, "role": string(role), "is_active": true,
	}})
}
