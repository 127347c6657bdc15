package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para usuarios. Las respuestas nunca llevan el hash.
type UserUseCase struct {
	d Deps
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(d Deps) *UserUseCase {
	return &UserUseCase{d: d.named("user")}
}

// Create crea un usuario dentro del tenant del actor. Un ADMIN sólo crea STAFF y el usuario
// hereda el ownerId del ADMIN.
func (uc *UserUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	ownerID, err := uc.d.Policy.CanCreateUser(actor, entity.Role(in.Role))
	if err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	var created *entity.User
	err = uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		username, email := strings.TrimSpace(in.Username), strings.TrimSpace(in.Email)
		if err := EnsureUserIdentityFree(ctx, repos.Users, username, email, ""); err != nil {
			return err
		}
		storeID, err := uc.resolveStore(ctx, repos, actor, in.StoreID)
		if err != nil {
			return err
		}
		created, err = repos.Users.Create(ctx, &entity.User{
			Model:        entity.Model{ID: uuid.NewString()},
			OwnerID:      &ownerID,
			StoreID:      storeID,
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Name:         normalizeName(in.Name),
			Role:         entity.Role(in.Role),
			IsActive:     true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("new_user_id", created.ID).
		Str("role", in.Role).Msg("usuario creado")
	out := dto.ToUserResponse(created)
	return &out, nil
}

// GetByID cualquier actor lee su propio perfil; OWNER/ADMIN leen su tenant.
func (uc *UserUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRead, authz.ResourceUser); err != nil {
		return nil, err
	}
	u, err := uc.d.Repos.Users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, notFound(authz.ResourceUser)
	}
	if err := uc.d.Policy.CanReadUser(actor, u); err != nil {
		return nil, err
	}
	out := dto.ToUserResponse(u)
	return &out, nil
}

// List usuarios del tenant (incluye al OWNER).
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor, q dto.ListQuery, f dto.UserFilter) (*dto.Page[dto.UserResponse], error) {
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.CanListUsers(actor); err != nil {
		return nil, err
	}
	opts, tenant, err := listOptions(actor, q, dto.UserSortable, f.Filters())
	if err != nil {
		return nil, err
	}
	// ListByOwner ya acota por tenant con (owner_id = t OR id = t).
	delete(opts.Filters, "owner_id")
	page, err := uc.d.Repos.Users.ListByOwner(ctx, tenant, opts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(page, dto.ToUserResponse), nil
}

// RoleSummary cantidad de usuarios activos del tenant por rol.
func (uc *UserUseCase) RoleSummary(ctx context.Context, actor entity.Actor) (map[entity.Role]int, error) {
	if err := uc.d.Policy.CanListUsers(actor); err != nil {
		return nil, err
	}
	tenant, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	owner, err := uc.d.Repos.Users.FindByID(ctx, tenant)
	if err != nil {
		return nil, err
	}
	out := map[entity.Role]int{entity.RoleOwner: 0}
	if owner != nil && owner.IsActive {
		out[entity.RoleOwner] = 1
	}
	for _, r := range entity.Roles[1:] {
		n, err := uc.d.Repos.Users.CountByOwnerAndRole(ctx, tenant, r)
		if err != nil {
			return nil, err
		}
		out[r] = n
	}
	return out, nil
}

// Update aplica las reglas por campo de authz.CanUpdateUser.
func (uc *UserUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionUpdate, authz.ResourceUser); err != nil {
		return nil, err
	}

	var updated *entity.User
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		target, err := repos.Users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if target == nil {
			return notFound(authz.ResourceUser)
		}
		change := authz.UserChange{
			ChangeStatus: in.IsActive != nil && *in.IsActive != target.IsActive,
			ChangeStore:  in.StoreID != nil && !sameStore(target.StoreID, *in.StoreID),
		}
		if in.Role != nil && entity.Role(*in.Role) != target.Role {
			r := entity.Role(*in.Role)
			change.Role = &r
		}
		if err := uc.d.Policy.CanUpdateUser(actor, target, change); err != nil {
			return err
		}

		changes := repository.Changes{}
		username, email := "", ""
		if in.Username != nil && !strings.EqualFold(strings.TrimSpace(*in.Username), target.Username) {
			username = strings.TrimSpace(*in.Username)
			changes["username"] = username
		}
		if in.Email != nil && !strings.EqualFold(strings.TrimSpace(*in.Email), target.Email) {
			email = strings.TrimSpace(*in.Email)
			changes["email"] = email
		}
		if err := EnsureUserIdentityFree(ctx, repos.Users, username, email, target.ID); err != nil {
			return err
		}
		if in.Name != nil {
			changes["name"] = normalizeName(*in.Name)
		}
		if in.Password != nil {
			hash, err := HashPassword(*in.Password)
			if err != nil {
				return err
			}
			changes["password_hash"] = hash
		}
		if change.Role != nil {
			changes["role"] = string(*change.Role)
		}
		if change.ChangeStatus {
			changes["is_active"] = *in.IsActive
		}
		if change.ChangeStore {
			storeID, err := uc.resolveStore(ctx, repos, actor, in.StoreID)
			if err != nil {
				return err
			}
			changes["store_id"] = storeID
		}
		updated, err = repos.Users.Update(ctx, target.ID, changes)
		if err == nil && updated == nil {
			return notFound(authz.ResourceUser)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("target_id", id).Msg("usuario actualizado")
	out := dto.ToUserResponse(updated)
	return &out, nil
}

// Delete borrado lógico. Sólo OWNER y nunca sobre un OWNER.
func (uc *UserUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.d.Policy.Authorize(actor, authz.ActionDelete, authz.ResourceUser); err != nil {
		return err
	}
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		target, err := repos.Users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if target == nil {
			return notFound(authz.ResourceUser)
		}
		if err := uc.d.Policy.CanDeleteUser(actor, target); err != nil {
			return err
		}
		return softDelete(ctx, repos.Users.SoftDelete, target.ID, authz.ResourceUser)
	})
	if err != nil {
		return err
	}
	uc.d.logMutation(actor).Str("target_id", id).Msg("usuario eliminado")
	return nil
}

// Restore revierte el borrado si username y email siguen libres.
func (uc *UserUseCase) Restore(ctx context.Context, actor entity.Actor, id string) (*dto.UserResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRestore, authz.ResourceUser); err != nil {
		return nil, err
	}
	var restored *entity.User
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		target, err := repos.Users.FindByIDIncludingDeleted(ctx, id)
		if err != nil {
			return err
		}
		if target == nil {
			return notFound(authz.ResourceUser)
		}
		if err := uc.d.Policy.CanRestoreUser(actor, target); err != nil {
			return err
		}
		if target.IsDeleted() {
			if err := EnsureUserIdentityFree(ctx, repos.Users, target.Username, target.Email, target.ID); err != nil {
				return err
			}
		}
		if err := restore(ctx, repos.Users.Restore, target.ID, authz.ResourceUser); err != nil {
			return err
		}
		restored, err = repos.Users.FindByID(ctx, target.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("target_id", id).Msg("usuario restaurado")
	out := dto.ToUserResponse(restored)
	return &out, nil
}

// sameStore "" equivale a sin tienda.
func sameStore(current *string, next string) bool {
	next = strings.TrimSpace(next)
	if current == nil {
		return next == ""
	}
	return *current == next
}

// resolveStore "" desasigna; si no, la tienda debe existir y ser del tenant del actor.
func (uc *UserUseCase) resolveStore(ctx context.Context, repos repository.Set, actor entity.Actor, storeID *string) (*string, error) {
	if storeID == nil || strings.TrimSpace(*storeID) == "" {
		return nil, nil
	}
	s, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceStore, repos.Stores.FindByID, *storeID, storeOwner)
	if err != nil {
		return nil, err
	}
	return &s.ID, nil
}

// EnsureUserIdentityFree 409 si username o email (no vacíos) ya los usa otro usuario activo.
func EnsureUserIdentityFree(ctx context.Context, users repository.UserRepository, username, email, exceptID string) error {
	if username != "" {
		dup, err := users.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if dup != nil && dup.ID != exceptID {
			return domain.NewConflictError("Username %q is already taken", username)
		}
	}
	if email != "" {
		dup, err := users.FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if dup != nil && dup.ID != exceptID {
			return domain.NewConflictError("Email %q is already registered", email)
		}
	}
	return nil
}

// HashPassword bcrypt con el costo por defecto.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", domain.NewValidationError("Invalid password")
	}
	return string(hash), nil
}
