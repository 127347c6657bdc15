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
)

const defaultUnit = "unit"

// ProductUseCase casos de uso CRUD para productos. El stock se mueve con transacciones.
type ProductUseCase struct {
	d Deps
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(d Deps) *ProductUseCase {
	return &ProductUseCase{d: d.named("product")}
}

// Create crea un producto. La tienda y la categoría deben existir y ser del tenant;
// SKU y código de barras son únicos por tienda.
func (uc *ProductUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	name := normalizeName(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if name == "" || sku == "" {
		return nil, domain.NewValidationError("Product name and sku are required")
	}
	ownerID, err := uc.d.Policy.OwnerIDForCreate(actor, authz.ResourceProduct)
	if err != nil {
		return nil, err
	}

	var created *entity.Product
	err = uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		store, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceStore, repos.Stores.FindByID, in.StoreID, storeOwner)
		if err != nil {
			return err
		}
		if !store.IsActive {
			return domain.NewValidationError("Store %q is inactive", store.Name)
		}
		categoryID, err := uc.resolveCategory(ctx, repos, actor, store.ID, in.CategoryID)
		if err != nil {
			return err
		}
		barcode := strings.TrimSpace(in.Barcode)
		if err := ensureProductCodesFree(ctx, repos.Products, store.ID, sku, barcode, ""); err != nil {
			return err
		}
		unit := strings.TrimSpace(in.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		created, err = repos.Products.Create(ctx, &entity.Product{
			Model:      entity.Model{ID: uuid.NewString()},
			OwnerID:    ownerID,
			StoreID:    store.ID,
			CategoryID: categoryID,
			Name:       name,
			SKU:        sku,
			Barcode:    barcode,
			Price:      in.Price,
			Cost:       in.Cost,
			Quantity:   in.Quantity,
			MinStock:   in.MinStock,
			Unit:       unit,
			IsActive:   true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("product_id", created.ID).Str("sku", sku).Msg("producto creado")
	out := dto.ToProductResponse(created)
	return &out, nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.ProductResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRead, authz.ResourceProduct); err != nil {
		return nil, err
	}
	p, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceProduct, uc.d.Repos.Products.FindByID, id, productOwner)
	if err != nil {
		return nil, err
	}
	out := dto.ToProductResponse(p)
	return &out, nil
}

// List productos del tenant con filtros por tienda, categoría, SKU y estado.
func (uc *ProductUseCase) List(ctx context.Context, actor entity.Actor, q dto.ListQuery, f dto.ProductFilter) (*dto.Page[dto.ProductResponse], error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceProduct); err != nil {
		return nil, err
	}
	opts, _, err := listOptions(actor, q, dto.ProductSortable, f.Filters())
	if err != nil {
		return nil, err
	}
	page, err := uc.d.Repos.Products.FindAll(ctx, opts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(page, dto.ToProductResponse), nil
}

// Search busca por nombre, SKU o código de barras dentro del tenant.
func (uc *ProductUseCase) Search(ctx context.Context, actor entity.Actor, term string, q dto.ListQuery, f dto.ProductFilter) (*dto.Page[dto.ProductResponse], error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceProduct); err != nil {
		return nil, err
	}
	if strings.TrimSpace(term) == "" {
		return nil, domain.NewValidationError("Search term is required")
	}
	opts, tenant, err := listOptions(actor, q, dto.ProductSortable, f.Filters())
	if err != nil {
		return nil, err
	}
	page, err := uc.d.Repos.Products.Search(ctx, tenant, term, opts)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(page, dto.ToProductResponse), nil
}

// LowStock productos activos del tenant en o por debajo del stock mínimo.
func (uc *ProductUseCase) LowStock(ctx context.Context, actor entity.Actor) ([]dto.ProductResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceProduct); err != nil {
		return nil, err
	}
	tenant, err := tenantOf(actor)
	if err != nil {
		return nil, err
	}
	list, err := uc.d.Repos.Products.ListLowStock(ctx, tenant)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Update actualiza un producto. No modifica el stock.
func (uc *ProductUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionUpdate, authz.ResourceProduct); err != nil {
		return nil, err
	}

	var updated *entity.Product
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		p, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionUpdate, authz.ResourceProduct, repos.Products.FindByID, id, productOwner)
		if err != nil {
			return err
		}
		changes := repository.Changes{}
		if in.CategoryID != nil {
			categoryID, err := uc.resolveCategory(ctx, repos, actor, p.StoreID, in.CategoryID)
			if err != nil {
				return err
			}
			changes["category_id"] = categoryID
		}
		if in.Name != nil {
			name := normalizeName(*in.Name)
			if name == "" {
				return domain.NewValidationError("Product name is required")
			}
			changes["name"] = name
		}
		sku, barcode := "", ""
		if in.SKU != nil && strings.TrimSpace(*in.SKU) != p.SKU {
			sku = strings.TrimSpace(*in.SKU)
			if sku == "" {
				return domain.NewValidationError("Product sku is required")
			}
			changes["sku"] = sku
		}
		if in.Barcode != nil && strings.TrimSpace(*in.Barcode) != p.Barcode {
			barcode = strings.TrimSpace(*in.Barcode)
			changes["barcode"] = barcode
		}
		if err := ensureProductCodesFree(ctx, repos.Products, p.StoreID, sku, barcode, p.ID); err != nil {
			return err
		}
		if in.Price != nil {
			changes["price"] = *in.Price
		}
		if in.Cost != nil {
			changes["cost"] = *in.Cost
		}
		if in.MinStock != nil {
			changes["min_stock"] = *in.MinStock
		}
		if in.Unit != nil {
			changes["unit"] = strings.TrimSpace(*in.Unit)
		}
		if in.IsActive != nil {
			changes["is_active"] = *in.IsActive
		}
		updated, err = repos.Products.Update(ctx, p.ID, changes)
		if err == nil && updated == nil {
			return notFound(authz.ResourceProduct)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("product_id", id).Msg("producto actualizado")
	out := dto.ToProductResponse(updated)
	return &out, nil
}

// Delete borrado lógico (sólo OWNER).
func (uc *ProductUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.d.Policy.Authorize(actor, authz.ActionDelete, authz.ResourceProduct); err != nil {
		return err
	}
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		p, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionDelete, authz.ResourceProduct, repos.Products.FindByID, id, productOwner)
		if err != nil {
			return err
		}
		return softDelete(ctx, repos.Products.SoftDelete, p.ID, authz.ResourceProduct)
	})
	if err != nil {
		return err
	}
	uc.d.logMutation(actor).Str("product_id", id).Msg("producto eliminado")
	return nil
}

// Restore revierte el borrado si SKU y código de barras siguen libres en la tienda.
func (uc *ProductUseCase) Restore(ctx context.Context, actor entity.Actor, id string) (*dto.ProductResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRestore, authz.ResourceProduct); err != nil {
		return nil, err
	}
	var restored *entity.Product
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		p, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRestore, authz.ResourceProduct, repos.Products.FindByIDIncludingDeleted, id, productOwner)
		if err != nil {
			return err
		}
		if p.IsDeleted() {
			if err := ensureProductCodesFree(ctx, repos.Products, p.StoreID, p.SKU, p.Barcode, p.ID); err != nil {
				return err
			}
		}
		if err := restore(ctx, repos.Products.Restore, p.ID, authz.ResourceProduct); err != nil {
			return err
		}
		restored, err = repos.Products.FindByID(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("product_id", id).Msg("producto restaurado")
	out := dto.ToProductResponse(restored)
	return &out, nil
}

// resolveCategory valida la categoría referida: "" la desasigna; si no, debe existir,
// ser del tenant y de la misma tienda.
func (uc *ProductUseCase) resolveCategory(ctx context.Context, repos repository.Set, actor entity.Actor, storeID string, categoryID *string) (*string, error) {
	if categoryID == nil || strings.TrimSpace(*categoryID) == "" {
		return nil, nil
	}
	c, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceCategory, repos.Categories.FindByID, *categoryID, categoryOwner)
	if err != nil {
		return nil, err
	}
	if c.StoreID != storeID {
		return nil, domain.NewValidationError("Category %q belongs to another store", c.Name)
	}
	return &c.ID, nil
}

// ensureProductCodesFree 409 si sku o barcode (no vacíos) ya los usa otro producto activo de la tienda.
func ensureProductCodesFree(ctx context.Context, products repository.ProductRepository, storeID, sku, barcode, exceptID string) error {
	if sku != "" {
		dup, err := products.FindByStoreAndSKU(ctx, storeID, sku)
		if err != nil {
			return err
		}
		if dup != nil && dup.ID != exceptID {
			return domain.NewConflictError("A product with sku %q already exists in this store", sku)
		}
	}
	if barcode != "" {
		dup, err := products.FindByStoreAndBarcode(ctx, storeID, barcode)
		if err != nil {
			return err
		}
		if dup != nil && dup.ID != exceptID {
			return domain.NewConflictError("A product with barcode %q already exists in this store", barcode)
		}
	}
	return nil
}
