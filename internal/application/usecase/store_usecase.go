package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// StoreUseCase casos de uso de tiendas. El nombre es único por owner sin distinguir mayúsculas.
type StoreUseCase struct {
	d Deps
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(d Deps) *StoreUseCase {
	return &StoreUseCase{d: d.named("store")}
}

// Create crea una tienda para el tenant del actor (OWNER o ADMIN).
func (uc *StoreUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := normalizeName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("Store name is required")
	}
	ownerID, err := uc.d.Policy.OwnerIDForCreate(actor, authz.ResourceStore)
	if err != nil {
		return nil, err
	}

	var created *entity.Store
	err = uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		if err := ensureStoreNameFree(ctx, repos.Stores, ownerID, name, ""); err != nil {
			return err
		}
		var err error
		created, err = repos.Stores.Create(ctx, &entity.Store{
			Model:    entity.Model{ID: uuid.NewString()},
			OwnerID:  ownerID,
			Name:     name,
			Address:  in.Address,
			Phone:    in.Phone,
			IsActive: true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("store_id", created.ID).Msg("tienda creada")
	out := dto.ToStoreResponse(created)
	return &out, nil
}

// GetByID devuelve una tienda del tenant del actor.
func (uc *StoreUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.StoreResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRead, authz.ResourceStore); err != nil {
		return nil, err
	}
	s, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceStore, uc.d.Repos.Stores.FindByID, id, storeOwner)
	if err != nil {
		return nil, err
	}
	out := dto.ToStoreResponse(s)
	return &out, nil
}

// List lista las tiendas del tenant del actor.
func (uc *StoreUseCase) List(ctx context.Context, actor entity.Actor, q dto.ListQuery, f dto.StoreFilter) (*dto.Page[dto.StoreResponse], error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceStore); err != nil {
		return nil, err
	}
	opts, tenant, err := listOptions(actor, q, dto.StoreSortable, f.Filters())
	if err != nil {
		return nil, err
	}
	page, err := uc.d.Repos.Stores.ListByOwner(ctx, tenant, opts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(page, dto.ToStoreResponse), nil
}

// ListActive tiendas activas del tenant, sin paginar (selectores de la UI).
func (uc *StoreUseCase) ListActive(ctx context.Context, actor entity.Actor) ([]dto.StoreResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceStore); err != nil {
		return nil, err
	}
	tenant, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Repos.Stores.ListActiveByOwner(ctx, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToStoreResponse(s))
	}
	return out, nil
}

// Update actualiza una tienda; un cambio de nombre vuelve a comprobar unicidad.
func (uc *StoreUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionUpdate, authz.ResourceStore); err != nil {
		return nil, err
	}

	var updated *entity.Store
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		s, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionUpdate, authz.ResourceStore, repos.Stores.FindByID, id, storeOwner)
		if err != nil {
			return err
		}
		changes := repository.Changes{}
		if in.Name != nil {
			name := normalizeName(*in.Name)
			if name == "" {
				return domain.NewValidationError("Store name is required")
			}
			if !sameName(name, s.Name) {
				if err := ensureStoreNameFree(ctx, repos.Stores, s.OwnerID, name, s.ID); err != nil {
					return err
				}
			}
			changes["name"] = name
		}
		if in.Address != nil {
			changes["address"] = *in.Address
		}
		if in.Phone != nil {
			changes["phone"] = *in.Phone
		}
		if in.IsActive != nil {
			changes["is_active"] = *in.IsActive
		}
		updated, err = repos.Stores.Update(ctx, s.ID, changes)
		if err == nil && updated == nil {
			return notFound(authz.ResourceStore)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("store_id", id).Msg("tienda actualizada")
	out := dto.ToStoreResponse(updated)
	return &out, nil
}

// Delete borrado lógico. Sólo OWNER; ADMIN recibe 403 antes de cualquier lectura.
func (uc *StoreUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.d.Policy.Authorize(actor, authz.ActionDelete, authz.ResourceStore); err != nil {
		return err
	}
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		s, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionDelete, authz.ResourceStore, repos.Stores.FindByID, id, storeOwner)
		if err != nil {
			return err
		}
		return softDelete(ctx, repos.Stores.SoftDelete, s.ID, authz.ResourceStore)
	})
	if err != nil {
		return err
	}
	uc.d.logMutation(actor).Str("store_id", id).Msg("tienda eliminada")
	return nil
}

// Restore revierte el borrado lógico si el nombre sigue libre.
func (uc *StoreUseCase) Restore(ctx context.Context, actor entity.Actor, id string) (*dto.StoreResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRestore, authz.ResourceStore); err != nil {
		return nil, err
	}
	var restored *entity.Store
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		s, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRestore, authz.ResourceStore, repos.Stores.FindByIDIncludingDeleted, id, storeOwner)
		if err != nil {
			return err
		}
		if err := ensureStoreNameFree(ctx, repos.Stores, s.OwnerID, s.Name, s.ID); err != nil {
			return err
		}
		if err := restore(ctx, repos.Stores.Restore, s.ID, authz.ResourceStore); err != nil {
			return err
		}
		restored, err = repos.Stores.FindByID(ctx, s.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("store_id", id).Msg("tienda restaurada")
	out := dto.ToStoreResponse(restored)
	return &out, nil
}

// ensureStoreNameFree 409 si otra tienda activa del owner ya usa el nombre.
func ensureStoreNameFree(ctx context.Context, stores repository.StoreRepository, ownerID, name, exceptID string) error {
	dup, err := stores.FindByOwnerAndName(ctx, ownerID, name)
	if err != nil {
		return err
	}
	if dup != nil && dup.ID != exceptID {
		return domain.NewConflictError("A store named %q already exists", name)
	}
	return nil
}
