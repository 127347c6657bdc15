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

// CategoryUseCase casos de uso de categorías (siempre dentro de una tienda del tenant).
type CategoryUseCase struct {
	d Deps
}

func NewCategoryUseCase(d Deps) *CategoryUseCase {
	return &CategoryUseCase{d: d.named("category")}
}

// Create crea una categoría en una tienda del tenant.
func (uc *CategoryUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := normalizeName(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("Category name is required")
	}
	ownerID, err := uc.d.Policy.OwnerIDForCreate(actor, authz.ResourceCategory)
	if err != nil {
		return nil, err
	}

	var created *entity.Category
	err = uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		store, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceStore, repos.Stores.FindByID, in.StoreID, storeOwner)
		if err != nil {
			return err
		}
		created, err = repos.Categories.Create(ctx, &entity.Category{
			Model:       entity.Model{ID: uuid.NewString()},
			OwnerID:     ownerID,
			StoreID:     store.ID,
			Name:        name,
			Description: in.Description,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("category_id", created.ID).Str("store_id", created.StoreID).Msg("categoría creada")
	out := dto.ToCategoryResponse(created)
	return &out, nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.CategoryResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRead, authz.ResourceCategory); err != nil {
		return nil, err
	}
	c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceCategory, uc.d.Repos.Categories.FindByID, id, categoryOwner)
	if err != nil {
		return nil, err
	}
	out := dto.ToCategoryResponse(c)
	return &out, nil
}

// List categorías del tenant, opcionalmente de una tienda.
func (uc *CategoryUseCase) List(ctx context.Context, actor entity.Actor, q dto.ListQuery, f dto.CategoryFilter) (*dto.Page[dto.CategoryResponse], error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceCategory); err != nil {
		return nil, err
	}
	opts, _, err := listOptions(actor, q, dto.CategorySortable, f.Filters())
	if err != nil {
		return nil, err
	}
	page, err := uc.d.Repos.Categories.FindAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(page, dto.ToCategoryResponse), nil
}

// ListByStore todas las categorías de una tienda, ordenadas por nombre.
func (uc *CategoryUseCase) ListByStore(ctx context.Context, actor entity.Actor, storeID string) ([]dto.CategoryResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceCategory); err != nil {
		return nil, err
	}
	store, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceStore, uc.d.Repos.Stores.FindByID, storeID, storeOwner)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Repos.Categories.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToCategoryResponse(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionUpdate, authz.ResourceCategory); err != nil {
		return nil, err
	}
	var updated *entity.Category
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionUpdate, authz.ResourceCategory, repos.Categories.FindByID, id, categoryOwner)
		if err != nil {
			return err
		}
		changes := repository.Changes{}
		if in.Name != nil {
			name := normalizeName(*in.Name)
			if name == "" {
				return domain.NewValidationError("Category name is required")
			}
			changes["name"] = name
		}
		if in.Description != nil {
			changes["description"] = *in.Description
		}
		updated, err = repos.Categories.Update(ctx, c.ID, changes)
		if err == nil && updated == nil {
			return notFound(authz.ResourceCategory)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("category_id", id).Msg("categoría actualizada")
	out := dto.ToCategoryResponse(updated)
	return &out, nil
}

// Delete borrado lógico; ADMIN no puede borrar categorías.
func (uc *CategoryUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.d.Policy.Authorize(actor, authz.ActionDelete, authz.ResourceCategory); err != nil {
		return err
	}
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionDelete, authz.ResourceCategory, repos.Categories.FindByID, id, categoryOwner)
		if err != nil {
			return err
		}
		return softDelete(ctx, repos.Categories.SoftDelete, c.ID, authz.ResourceCategory)
	})
	if err != nil {
		return err
	}
	uc.d.logMutation(actor).Str("category_id", id).Msg("categoría eliminada")
	return nil
}

// Restore deshace el borrado lógico.
func (uc *CategoryUseCase) Restore(ctx context.Context, actor entity.Actor, id string) (*dto.CategoryResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRestore, authz.ResourceCategory); err != nil {
		return nil, err
	}
	var restored *entity.Category
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRestore, authz.ResourceCategory, repos.Categories.FindByIDIncludingDeleted, id, categoryOwner)
		if err != nil {
			return err
		}
		if err := restore(ctx, repos.Categories.Restore, c.ID, authz.ResourceCategory); err != nil {
			return err
		}
		restored, err = repos.Categories.FindByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("category_id", id).Msg("categoría restaurada")
	out := dto.ToCategoryResponse(restored)
	return &out, nil
}
