package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/inventory"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ReceiptGenerator genera el comprobante de una transacción (PDF).
type ReceiptGenerator interface {
	GenerateReceipt(ctx context.Context, store *entity.Store, tx *entity.Transaction) ([]byte, error)
}

// TransactionUseCase ventas, compras, ajustes y devoluciones con su efecto en el stock.
type TransactionUseCase struct {
	d        Deps
	receipts ReceiptGenerator
}

// NewTransactionUseCase construye el caso de uso. receipts puede ser nil (Receipt devuelve error).
func NewTransactionUseCase(d Deps, receipts ReceiptGenerator) *TransactionUseCase {
	return &TransactionUseCase{d: d.named("transaction"), receipts: receipts}
}

// Create registra la transacción. Con estado COMPLETED (por defecto) mueve el stock en la misma
// transacción de BD; si algún producto quedaría negativo no se persiste nada. La tienda debe
// estar activa y una venta no admite productos inactivos.
func (uc *TransactionUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	typ := entity.TransactionType(in.Type)
	status := entity.TransactionCompleted
	if in.Status != "" {
		status = entity.TransactionStatus(in.Status)
	}
	for i, it := range in.Items {
		if typ != entity.TransactionAdjustment && it.Quantity <= 0 {
			return nil, domain.NewValidationError("Item %d: quantity must be positive for %s", i, typ)
		}
	}
	ownerID, err := uc.d.Policy.OwnerIDForCreate(actor, authz.ResourceTransaction)
	if err != nil {
		return nil, err
	}

	var created *entity.Transaction
	err = uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		store, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceStore, repos.Stores.FindByID, in.StoreID, storeOwner)
		if err != nil {
			return err
		}
		if !store.IsActive {
			return domain.NewValidationError("Store %q is inactive", store.Name)
		}
		t := &entity.Transaction{
			Model:       entity.Model{ID: uuid.NewString()},
			OwnerID:     ownerID,
			StoreID:     store.ID,
			UserID:      actor.ID,
			Type:        typ,
			Status:      status,
			Items:       make([]entity.TransactionItem, 0, len(in.Items)),
			TotalAmount: decimal.Zero,
			Notes:       in.Notes,
		}
		for _, it := range in.Items {
			p, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceProduct, repos.Products.FindByID, it.ProductID, productOwner)
			if err != nil {
				return err
			}
			if p.StoreID != store.ID {
				return domain.NewValidationError("Product %q does not belong to store %q", p.Name, store.Name)
			}
			if typ == entity.TransactionSale && !p.IsActive {
				return domain.NewValidationError("Product %q is inactive", p.Name)
			}
			price := defaultUnitPrice(typ, p)
			if it.UnitPrice != nil {
				price = *it.UnitPrice
			}
			subtotal := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			t.Items = append(t.Items, entity.TransactionItem{
				ProductID: p.ID,
				Name:      p.Name,
				Quantity:  it.Quantity,
				UnitPrice: price,
				Subtotal:  subtotal,
			})
			t.TotalAmount = t.TotalAmount.Add(subtotal)
		}
		if status == entity.TransactionCompleted {
			if err := completeStock(ctx, repos.Products, t); err != nil {
				return err
			}
		}
		created, err = repos.Transactions.Create(ctx, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("transaction_id", created.ID).
		Str("type", string(typ)).Str("total", created.TotalAmount.String()).Msg("transacción registrada")
	out := dto.ToTransactionResponse(created)
	return &out, nil
}

// GetByID obtiene una transacción; CASHIER sólo ve ventas.
func (uc *TransactionUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.TransactionResponse, error) {
	t, err := uc.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := dto.ToTransactionResponse(t)
	return &out, nil
}

// List transacciones del tenant. A un CASHIER se le fuerza el tipo SALE.
func (uc *TransactionUseCase) List(ctx context.Context, actor entity.Actor, q dto.ListQuery, f dto.TransactionFilter) (*dto.Page[dto.TransactionResponse], error) {
	if err := dto.Validate(f); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionList, authz.ResourceTransaction); err != nil {
		return nil, err
	}
	if typ, restricted := authz.VisibleTransactionType(actor); restricted {
		f.Type = string(typ)
	}
	status := entity.TransactionStatus(f.Status)
	f.Status = ""
	opts, tenant, err := listOptions(actor, q, dto.TransactionSortable, f.Filters())
	if err != nil {
		return nil, err
	}

	var page *repository.PaginatedResult[entity.Transaction]
	if status != "" {
		page, err = uc.d.Repos.Transactions.ListByStatus(ctx, tenant, status, opts)
	} else {
		page, err = uc.d.Repos.Transactions.FindAll(ctx, opts)
	}
	if err != nil {
		return nil, err
	}
	return dto.NewPage(page, dto.ToTransactionResponse), nil
}

// Update sólo cambia las notas.
func (uc *TransactionUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionUpdate, authz.ResourceTransaction); err != nil {
		return nil, err
	}
	var updated *entity.Transaction
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		t, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionUpdate, authz.ResourceTransaction, repos.Transactions.FindByID, id, transactionOwner)
		if err != nil {
			return err
		}
		changes := repository.Changes{}
		if in.Notes != nil {
			changes["notes"] = *in.Notes
		}
		updated, err = repos.Transactions.Update(ctx, t.ID, changes)
		if err == nil && updated == nil {
			return notFound(authz.ResourceTransaction)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("transaction_id", id).Msg("transacción actualizada")
	out := dto.ToTransactionResponse(updated)
	return &out, nil
}

// UpdateStatus PENDING → COMPLETED aplica el stock; COMPLETED → CANCELLED lo revierte.
func (uc *TransactionUseCase) UpdateStatus(ctx context.Context, actor entity.Actor, id string, in dto.UpdateTransactionStatusRequest) (*dto.TransactionResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := uc.d.Policy.Authorize(actor, authz.ActionUpdate, authz.ResourceTransaction); err != nil {
		return nil, err
	}
	next := entity.TransactionStatus(in.Status)

	var updated *entity.Transaction
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		t, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionUpdate, authz.ResourceTransaction, repos.Transactions.FindByID, id, transactionOwner)
		if err != nil {
			return err
		}
		if !t.Status.CanTransitionTo(next) {
			return domain.NewValidationError("Cannot change transaction status from %s to %s", t.Status, next)
		}
		switch {
		case next == entity.TransactionCompleted:
			err = completeStock(ctx, repos.Products, t)
		case t.Status == entity.TransactionCompleted && next == entity.TransactionCancelled:
			err = applyStock(ctx, repos.Products.AdjustQuantityIncludingDeleted, t.StockMoves(true))
		}
		if err != nil {
			return err
		}
		updated, err = repos.Transactions.UpdateStatus(ctx, t.ID, next)
		if err == nil && updated == nil {
			return notFound(authz.ResourceTransaction)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("transaction_id", id).
		Str("status", string(next)).Msg("estado de transacción actualizado")
	out := dto.ToTransactionResponse(updated)
	return &out, nil
}

// Delete borrado lógico (sólo OWNER). No revierte stock: para eso está la cancelación.
func (uc *TransactionUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if err := uc.d.Policy.Authorize(actor, authz.ActionDelete, authz.ResourceTransaction); err != nil {
		return err
	}
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		t, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionDelete, authz.ResourceTransaction, repos.Transactions.FindByID, id, transactionOwner)
		if err != nil {
			return err
		}
		return softDelete(ctx, repos.Transactions.SoftDelete, t.ID, authz.ResourceTransaction)
	})
	if err != nil {
		return err
	}
	uc.d.logMutation(actor).Str("transaction_id", id).Msg("transacción eliminada")
	return nil
}

// Restore deshace el borrado lógico; tampoco toca el stock.
func (uc *TransactionUseCase) Restore(ctx context.Context, actor entity.Actor, id string) (*dto.TransactionResponse, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRestore, authz.ResourceTransaction); err != nil {
		return nil, err
	}
	var restored *entity.Transaction
	err := uc.d.Tx.Run(ctx, func(repos repository.Set) error {
		t, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRestore, authz.ResourceTransaction, repos.Transactions.FindByIDIncludingDeleted, id, transactionOwner)
		if err != nil {
			return err
		}
		if err := restore(ctx, repos.Transactions.Restore, t.ID, authz.ResourceTransaction); err != nil {
			return err
		}
		restored, err = repos.Transactions.FindByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.d.logMutation(actor).Str("transaction_id", id).Msg("transacción restaurada")
	out := dto.ToTransactionResponse(restored)
	return &out, nil
}

// Receipt PDF de la transacción con los datos de su tienda.
func (uc *TransactionUseCase) Receipt(ctx context.Context, actor entity.Actor, id string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, errors.New("receipt generator no configurado")
	}
	t, err := uc.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	store, err := uc.d.Repos.Stores.FindByIDIncludingDeleted(ctx, t.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, notFound(authz.ResourceStore)
	}
	return uc.receipts.GenerateReceipt(ctx, store, t)
}

// loadVisible lectura común de GetByID y Receipt: rol → existencia → tenant → tipo visible.
func (uc *TransactionUseCase) loadVisible(ctx context.Context, actor entity.Actor, id string) (*entity.Transaction, error) {
	if err := uc.d.Policy.Authorize(actor, authz.ActionRead, authz.ResourceTransaction); err != nil {
		return nil, err
	}
	t, err := findOwned(ctx, uc.d.Policy, actor, authz.ActionRead, authz.ResourceTransaction, uc.d.Repos.Transactions.FindByID, id, transactionOwner)
	if err != nil {
		return nil, err
	}
	if typ, restricted := authz.VisibleTransactionType(actor); restricted && t.Type != typ {
		return nil, domain.NewAuthorizationError("Cashiers can only view %s transactions", typ)
	}
	return t, nil
}

// defaultUnitPrice ventas y devoluciones usan el precio; compras y ajustes, el costo.
func defaultUnitPrice(typ entity.TransactionType, p *entity.Product) decimal.Decimal {
	switch typ {
	case entity.TransactionSale, entity.TransactionReturn:
		return p.Price
	default:
		return p.Cost
	}
}

// completeStock mueve el stock de una transacción que pasa a COMPLETED. Una compra además
// revaloriza el costo de cada producto con el promedio ponderado. Cancelar una compra no
// restaura el costo anterior.
func completeStock(ctx context.Context, products repository.ProductRepository, t *entity.Transaction) error {
	if err := applyStock(ctx, products.AdjustQuantity, t.StockMoves(false)); err != nil {
		return err
	}
	if t.Type != entity.TransactionPurchase {
		return nil
	}
	type entry struct {
		qty   int
		total decimal.Decimal
	}
	entries := make(map[string]*entry, len(t.Items))
	ids := make([]string, 0, len(t.Items))
	for _, it := range t.Items {
		e, ok := entries[it.ProductID]
		if !ok {
			e = &entry{total: decimal.Zero}
			entries[it.ProductID] = e
			ids = append(ids, it.ProductID)
		}
		e.qty += it.Quantity
		e.total = e.total.Add(it.Subtotal)
	}
	sort.Strings(ids)
	for _, id := range ids {
		e := entries[id]
		p, err := products.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return notFound(authz.ResourceProduct)
		}
		unitCost := e.total.Div(decimal.NewFromInt(int64(e.qty)))
		cost := inventory.WeightedAverageCost(p.Quantity-e.qty, p.Cost, e.qty, unitCost)
		if cost.Equal(p.Cost) {
			continue
		}
		if _, err := products.Update(ctx, id, repository.Changes{"cost": cost}); err != nil {
			return err
		}
	}
	return nil
}

// stockAdjuster AdjustQuantity o su variante que incluye productos eliminados.
type stockAdjuster func(ctx context.Context, id string, delta int) (*entity.Product, error)

// applyStock aplica los deltas en orden de id para que dos transacciones concurrentes
// bloqueen las filas en el mismo orden. La reversión de una cancelación usa el ajustador
// que incluye eliminados: borrar un producto no bloquea la cancelación.
func applyStock(ctx context.Context, adjust stockAdjuster, moves map[string]int) error {
	ids := make([]string, 0, len(moves))
	for id := range moves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		delta := moves[id]
		if delta == 0 {
			continue
		}
		p, err := adjust(ctx, id, delta)
		if errors.Is(err, domain.ErrInsufficientStock) {
			return domain.NewValidationError("Insufficient stock for product %s", id).
				WithDetails(map[string]any{"productId": id, "delta": delta})
		}
		if err != nil {
			return err
		}
		if p == nil {
			return notFound(authz.ResourceProduct)
		}
	}
	return nil
}
