package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// ProductCheckUseCase conteos físicos de inventario.
type ProductCheckUseCase struct {
	d Deps
}

// NewProductCheckUseCase construye el caso de uso.
func NewProductCheckUseCase(d Deps) *ProductCheckUseCase {
	return &ProductCheckUseCase{d: d.named("product_check")}
}

// Create registra un conteo contra el stock actual del producto.
func (uc *ProductCheckUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductCheckRequest) (*dto.ProductCheckResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	ownerID, err := uc.d.Policy.OwnerIDForCreate(actor, authz.ResourceProductCheck)
	if err != nil {
		return nil, err
	}

	var created *entity.ProductCheck
	err = uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		p, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceProduct, repos.Products.FindByID, in.ProductID, productOwner)
		if err != nil {
			return err
		}
		c := &entity.ProductCheck{
			Model:            entity.Model{ID: uuid.NewString()},
			OwnerID:          ownerID,
			StoreID:          p.StoreID,
			ProductID:        p.ID,
			CheckedBy:        actor.ID,
			ExpectedQuantity: p.Quantity,
			Status:           entity.CheckPending,
			Notes:            in.Notes,
		}
		if in.ActualQuantity != nil {
			c.Record(*in.ActualQuantity)
		}
		created, err = repos.ProductChecks.Create(ctx, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("check_id", created.ID).Str("product_id", created.ProductID).
		Str("status", created.Status).Int("discrepancy", created.Discrepancy).Msg("conteo registrado")
	out := dto.ToProductCheckResponse(created)
	return &out, nil
}

// GetByID obtiene un conteo del tenant.
func (uc *ProductCheckUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ProductCheckResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRead, authz.ResourceProductCheck); err != nil {
		return nil, err
	}
	c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceProductCheck, uc.d.Repos.ProductChecks.FindByID, id, productCheckOwner)
	if err != nil {
		return nil, err
	}
	out := dto.ToProductCheckResponse(c)
	return &out, nil
}

// List conteos del tenant; con filtro de estado usa ListByStatus.
func (uc *ProductCheckUseCase) List(ctx context.Context, actor entity.Actor, q dto.ListQuery, f dto.ProductCheckFilter) (*dto.Page[dto.ProductCheckResponse], error) {
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceProductCheck); err != nil {
		return nil, err
	}
	status := f.Status
	f.Status = ""
	opts, tenant, err := listOptions(actor, q, dto.ProductCheckSortable, f.Filters())
	if err != nil {
		return nil, err
	}
	var page *repository.PaginatedResult[entity.ProductCheck]
	if status != "" {
		page, err = uc.d.Repos.ProductChecks.ListByStatus(ctx, tenant, status, opts)
	} else {
		page, err = uc.d.Repos.ProductChecks.FindAll(ctx, opts)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewPage(page, dto.ToProductCheckResponse), nil
}

// History conteos de un producto, del más reciente al más antiguo.
func (uc *ProductCheckUseCase) History(ctx context.Context, actor entity.Actor, productID string) ([]dto.ProductCheckResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceProductCheck); err != nil {
		return nil, err
	}
	p, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceProduct, uc.d.Repos.Products.FindByID, productID, productOwner)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Repos.ProductChecks.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductCheckResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ToProductCheckResponse(c))
	}
	return out, nil
}

// Update registra (o corrige) el conteo real; discrepancia y estado se recalculan.
func (uc *ProductCheckUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductCheckRequest) (*dto.ProductCheckResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionUpdate, authz.ResourceProductCheck); err != nil {
		return nil, err
	}
	var updated *entity.ProductCheck
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionUpdate, authz.ResourceProductCheck, repos.ProductChecks.FindByID, id, productCheckOwner)
		if err != nil {
			return err
		}
		changes := repository.Changes{}
		if in.ActualQuantity != nil {
			c.Record(*in.ActualQuantity)
			changes["actual_quantity"] = c.ActualQuantity
			changes["discrepancy"] = c.Discrepancy
			changes["status"] = c.Status
			changes["checked_by"] = actor.ID
		}
		if in.Notes != nil {
			changes["notes"] = *in.Notes
		}
		updated, err = repos.ProductChecks.Update(ctx, c.ID, changes)
		if err == nil && updated == nil {
			return notFound(authz.ResourceProductCheck)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("check_id", id).
		Str("status", updated.Status).Msg("conteo actualizado")
	out := dto.ToProductCheckResponse(updated)
	return &out, nil
}

// Delete borrado lógico del conteo.
func (uc *ProductCheckUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.d.Policy.Authorize(actor, authz.ActionDelete, authz.ResourceProductCheck); err != nil {
		return err
	}
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionDelete, authz.ResourceProductCheck, repos.ProductChecks.FindByID, id, productCheckOwner)
		if err != nil {
			return err
		}
		return softDelete(ctx, repos.ProductChecks.SoftDelete, c.ID, authz.ResourceProductCheck)
	})
	if err != nil {
		return err
	}
	uc.d.logMutation(actor).Str("check_id", id).Msg("conteo eliminado")
	return nil
}

// Restore deshace el borrado lógico.
func (uc *ProductCheckUseCase) Restore(ctx context.Context, actor entity.Actor, id string) (*dto.ProductCheckResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRestore, authz.ResourceProductCheck); err != nil {
		return nil, err
	}
	var restored *entity.ProductCheck
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRestore, authz.ResourceProductCheck, repos.ProductChecks.FindByIDIncludingDeleted, id, productCheckOwner)
		if err != nil {
			return err
		}
		if err := restore(ctx, repos.ProductChecks.Restore, c.ID, authz.ResourceProductCheck); err != nil {
			return err
		}
		restored, err = repos.ProductChecks.FindByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("check_id", id).Msg("conteo restaurado")
	out := dto.ToProductCheckResponse(restored)
	return &out, nil
}
