package usecase

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio genérico en memoria (mismo contrato que postgres.BaseRepository)
// ──────────────────────────────────────────────────────────────────────────────

type modelPtr[T any] interface {
	*T
	Base() *entity.Model
}

type memRepo[T any, P modelPtr[T]] struct {
	rows  map[string]*T
	order []string
	get   func(e *T, col string) (any, bool)
	set   func(e *T, col string, v any)
}

func newMem[T any, P modelPtr[T]](get func(*T, string) (any, bool), set func(*T, string, any)) *memRepo[T, P] {
	return &memRepo[T, P]{rows: map[string]*T{}, get: get, set: set}
}

func (m *memRepo[T, P]) Create(_ context.Context, e *T) (*T, error) {
	cp := *e
	b := P(&cp).Base()
	if _, dup := m.rows[b.ID]; dup {
		return nil, domain.NewConflictError("duplicate id")
	}
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	m.rows[b.ID] = &cp
	m.order = append(m.order, b.ID)
	out := cp
	return &out, nil
}

func (m *memRepo[T, P]) find(id string, includeDeleted bool) *T {
	e, ok := m.rows[id]
	if !ok || (!includeDeleted && P(e).Base().DeletedAt != nil) {
		return nil
	}
	cp := *e
	return &cp
}

func (m *memRepo[T, P]) FindByID(_ context.Context, id string) (*T, error) {
	return m.find(id, false), nil
}

func (m *memRepo[T, P]) FindByIDIncludingDeleted(_ context.Context, id string) (*T, error) {
	return m.find(id, true), nil
}

func (m *memRepo[T, P]) matching(filters repository.Filters, includeDeleted bool, extra func(*T) bool) []*T {
	out := make([]*T, 0)
	for _, id := range m.order {
		e := m.rows[id]
		if !includeDeleted && P(e).Base().DeletedAt != nil {
			continue
		}
		if !matches(m.get, e, filters) || (extra != nil && !extra(e)) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out
}

func (m *memRepo[T, P]) page(rows []*T, opts repository.FindOptions) *repository.PaginatedResult[T] {
	opts = opts.Normalize()
	total := len(rows)
	from := min(opts.Offset(), total)
	to := min(from+opts.Limit, total)
	return repository.NewPaginatedResult(rows[from:to], total, opts)
}

func (m *memRepo[T, P]) FindAll(_ context.Context, opts repository.FindOptions) (*repository.PaginatedResult[T], error) {
	return m.page(m.matching(opts.Filters, opts.IncludeDeleted, nil), opts), nil
}

func (m *memRepo[T, P]) Update(_ context.Context, id string, changes repository.Changes) (*T, error) {
	e, ok := m.rows[id]
	if !ok || P(e).Base().DeletedAt != nil {
		return nil, nil
	}
	for k, v := range changes {
		m.set(e, k, v)
	}
	P(e).Base().UpdatedAt = time.Now()
	cp := *e
	return &cp, nil
}

func (m *memRepo[T, P]) SoftDelete(_ context.Context, id string) (bool, error) {
	e, ok := m.rows[id]
	if !ok || P(e).Base().DeletedAt != nil {
		return false, nil
	}
	now := time.Now()
	P(e).Base().DeletedAt = &now
	return true, nil
}

func (m *memRepo[T, P]) Restore(_ context.Context, id string) (bool, error) {
	e, ok := m.rows[id]
	if !ok || P(e).Base().DeletedAt == nil {
		return false, nil
	}
	P(e).Base().DeletedAt = nil
	return true, nil
}

func (m *memRepo[T, P]) HardDelete(_ context.Context, id string) (bool, error) {
	_, ok := m.rows[id]
	delete(m.rows, id)
	return ok, nil
}

func (m *memRepo[T, P]) Count(_ context.Context, opts repository.CountOptions) (int, error) {
	return len(m.matching(opts.Filters, opts.IncludeDeleted, nil)), nil
}

func (m *memRepo[T, P]) Exists(_ context.Context, id string) (bool, error) {
	return m.find(id, false) != nil, nil
}

// put inserta una fila tal cual (fixtures).
func (m *memRepo[T, P]) put(e *T) {
	id := P(e).Base().ID
	m.rows[id] = e
	m.order = append(m.order, id)
}

func matches[T any](get func(*T, string) (any, bool), e *T, filters repository.Filters) bool {
	for k, v := range filters {
		if v == nil {
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			v = rv.Elem().Interface()
		}
		got, ok := get(e, k)
		if !ok {
			continue
		}
		if rg := reflect.ValueOf(got); rg.Kind() == reflect.Pointer {
			if rg.IsNil() {
				return false
			}
			got = rg.Elem().Interface()
		}
		if fmt.Sprint(got) != fmt.Sprint(v) {
			return false
		}
	}
	return true
}

func strOrNil(v any) *string {
	switch s := v.(type) {
	case *string:
		return s
	case string:
		return &s
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios por entidad
// ──────────────────────────────────────────────────────────────────────────────

type memUsers struct {
	*memRepo[entity.User, *entity.User]
}

func newMemUsers() *memUsers {
	return &memUsers{newMem[entity.User, *entity.User](
		func(u *entity.User, col string) (any, bool) {
			switch col {
			case "id":
				return u.ID, true
			case "owner_id":
				return u.OwnerID, true
			case "store_id":
				return u.StoreID, true
			case "role":
				return string(u.Role), true
			case "is_active":
				return u.IsActive, true
			}
			return nil, false
		},
		func(u *entity.User, col string, v any) {
			switch col {
			case "username":
				u.Username = v.(string)
			case "email":
				u.Email = v.(string)
			case "name":
				u.Name = v.(string)
			case "password_hash":
				u.PasswordHash = v.(string)
			case "role":
				u.Role = entity.Role(v.(string))
			case "is_active":
				u.IsActive = v.(bool)
			case "store_id":
				u.StoreID = strOrNil(v)
			}
		},
	)}
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	for _, u := range r.matching(nil, false, nil) {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.matching(nil, false, nil) {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memUsers) ListByOwner(_ context.Context, ownerID string, opts repository.FindOptions) (*repository.PaginatedResult[entity.User], error) {
	rows := r.matching(opts.Filters, opts.IncludeDeleted, func(u *entity.User) bool {
		return u.ID == ownerID || (u.OwnerID != nil && *u.OwnerID == ownerID)
	})
	return r.page(rows, opts), nil
}

func (r *memUsers) CountByOwnerAndRole(ctx context.Context, ownerID string, role entity.Role) (int, error) {
	return r.Count(ctx, repository.CountOptions{Filters: repository.Filters{
		"owner_id": ownerID, "role": string(role), "is_active": true,
	}})
}

type memStores struct {
	*memRepo[entity.Store, *entity.Store]
}

func newMemStores() *memStores {
	return &memStores{newMem[entity.Store, *entity.Store](
		func(s *entity.Store, col string) (any, bool) {
			switch col {
			case "owner_id":
				return s.OwnerID, true
			case "is_active":
				return s.IsActive, true
			}
			return nil, false
		},
		func(s *entity.Store, col string, v any) {
			switch col {
			case "name":
				s.Name = v.(string)
			case "address":
				s.Address = v.(string)
			case "phone":
				s.Phone = v.(string)
			case "is_active":
				s.IsActive = v.(bool)
			}
		},
	)}
}

func (r *memStores) FindByOwnerAndName(_ context.Context, ownerID, name string) (*entity.Store, error) {
	for _, s := range r.matching(repository.Filters{"owner_id": ownerID}, false, nil) {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memStores) ListByOwner(ctx context.Context, ownerID string, opts repository.FindOptions) (*repository.PaginatedResult[entity.Store], error) {
	f := repository.Filters{}
	for k, v := range opts.Filters {
		f[k] = v
	}
	f["owner_id"] = ownerID
	opts.Filters = f
	return r.FindAll(ctx, opts)
}

func (r *memStores) ListActiveByOwner(_ context.Context, ownerID string) ([]*entity.Store, error) {
	return r.matching(repository.Filters{"owner_id": ownerID, "is_active": true}, false, nil), nil
}

type memCategories struct {
	*memRepo[entity.Category, *entity.Category]
}

func newMemCategories() *memCategories {
	return &memCategories{newMem[entity.Category, *entity.Category](
		func(c *entity.Category, col string) (any, bool) {
			switch col {
			case "owner_id":
				return c.OwnerID, true
			case "store_id":
				return c.StoreID, true
			}
			return nil, false
		},
		func(c *entity.Category, col string, v any) {
			switch col {
			case "name":
				c.Name = v.(string)
			case "description":
				c.Description = v.(string)
			}
		},
	)}
}

func (r *memCategories) ListByStore(_ context.Context, storeID string) ([]*entity.Category, error) {
	return r.matching(repository.Filters{"store_id": storeID}, false, nil), nil
}

type memProducts struct {
	*memRepo[entity.Product, *entity.Product]
}

func newMemProducts() *memProducts {
	return &memProducts{newMem[entity.Product, *entity.Product](
		func(p *entity.Product, col string) (any, bool) {
			switch col {
			case "owner_id":
				return p.OwnerID, true
			case "store_id":
				return p.StoreID, true
			case "category_id":
				return p.CategoryID, true
			case "sku":
				return p.SKU, true
			case "is_active":
				return p.IsActive, true
			}
			return nil, false
		},
		func(p *entity.Product, col string, v any) {
			switch col {
			case "name":
				p.Name = v.(string)
			case "sku":
				p.SKU = v.(string)
			case "barcode":
				p.Barcode = v.(string)
			case "price":
				p.Price = v.(decimal.Decimal)
			case "cost":
				p.Cost = v.(decimal.Decimal)
			case "unit":
				p.Unit = v.(string)
			case "min_stock":
				p.MinStock = v.(int)
			case "is_active":
				p.IsActive = v.(bool)
			case "category_id":
				p.CategoryID = strOrNil(v)
			}
		},
	)}
}

func (r *memProducts) FindByStoreAndSKU(_ context.Context, storeID, sku string) (*entity.Product, error) {
	for _, p := range r.matching(repository.Filters{"store_id": storeID, "sku": sku}, false, nil) {
		return p, nil
	}
	return nil, nil
}

func (r *memProducts) FindByStoreAndBarcode(_ context.Context, storeID, barcode string) (*entity.Product, error) {
	for _, p := range r.matching(repository.Filters{"store_id": storeID}, false, nil) {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memProducts) Search(_ context.Context, ownerID, term string, opts repository.FindOptions) (*repository.PaginatedResult[entity.Product], error) {
	term = strings.ToLower(term)
	rows := r.matching(repository.Filters{"owner_id": ownerID}, false, func(p *entity.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), term) || strings.Contains(strings.ToLower(p.SKU), term)
	})
	return r.page(rows, opts), nil
}

func (r *memProducts) ListLowStock(_ context.Context, ownerID string) ([]*entity.Product, error) {
	return r.matching(repository.Filters{"owner_id": ownerID}, false, func(p *entity.Product) bool {
		return p.IsActive && p.LowStock()
	}), nil
}

func (r *memProducts) AdjustQuantity(ctx context.Context, id string, delta int) (*entity.Product, error) {
	if p, ok := r.rows[id]; ok && p.DeletedAt != nil {
		return nil, nil
	}
	return r.AdjustQuantityIncludingDeleted(ctx, id, delta)
}

func (r *memProducts) AdjustQuantityIncludingDeleted(_ context.Context, id string, delta int) (*entity.Product, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	if p.Quantity+delta < 0 {
		return nil, domain.ErrInsufficientStock
	}
	p.Quantity += delta
	cp := *p
	return &cp, nil
}

type memTransactions struct {
	*memRepo[entity.Transaction, *entity.Transaction]
}

func newMemTransactions() *memTransactions {
	return &memTransactions{newMem[entity.Transaction, *entity.Transaction](
		func(t *entity.Transaction, col string) (any, bool) {
			switch col {
			case "owner_id":
				return t.OwnerID, true
			case "store_id":
				return t.StoreID, true
			case "user_id":
				return t.UserID, true
			case "type":
				return string(t.Type), true
			case "status":
				return string(t.Status), true
			}
			return nil, false
		},
		func(t *entity.Transaction, col string, v any) {
			if col == "notes" {
				t.Notes = v.(string)
			}
		},
	)}
}

func (r *memTransactions) ListByStatus(ctx context.Context, ownerID string, status entity.TransactionStatus, opts repository.FindOptions) (*repository.PaginatedResult[entity.Transaction], error) {
	f := repository.Filters{"owner_id": ownerID, "status": string(status)}
	for k, v := range opts.Filters {
		f[k] = v
	}
	opts.Filters = f
	return r.FindAll(ctx, opts)
}

func (r *memTransactions) UpdateStatus(_ context.Context, id string, status entity.TransactionStatus) (*entity.Transaction, error) {
	t, ok := r.rows[id]
	if !ok || t.DeletedAt != nil {
		return nil, nil
	}
	t.Status = status
	cp := *t
	return &cp, nil
}

type memChecks struct {
	*memRepo[entity.ProductCheck, *entity.ProductCheck]
}

func newMemChecks() *memChecks {
	return &memChecks{newMem[entity.ProductCheck, *entity.ProductCheck](
		func(c *entity.ProductCheck, col string) (any, bool) {
			switch col {
			case "owner_id":
				return c.OwnerID, true
			case "store_id":
				return c.StoreID, true
			case "product_id":
				return c.ProductID, true
			case "status":
				return c.Status, true
			}
			return nil, false
		},
		func(c *entity.ProductCheck, col string, v any) {
			switch col {
			case "actual_quantity":
				c.ActualQuantity = v.(int)
			case "discrepancy":
				c.Discrepancy = v.(int)
			case "status":
				c.Status = v.(string)
			case "checked_by":
				c.CheckedBy = v.(string)
			case "notes":
				c.Notes = v.(string)
			}
		},
	)}
}

func (r *memChecks) ListByProduct(_ context.Context, productID string) ([]*entity.ProductCheck, error) {
	rows := r.matching(repository.Filters{"product_id": productID}, false, nil)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	return rows, nil
}

func (r *memChecks) ListByStatus(ctx context.Context, ownerID, status string, opts repository.FindOptions) (*repository.PaginatedResult[entity.ProductCheck], error) {
	f := repository.Filters{"owner_id": ownerID, "status": status}
	for k, v := range opts.Filters {
		f[k] = v
	}
	opts.Filters = f
	return r.FindAll(ctx, opts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Entorno de prueba
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	users      *memUsers
	stores     *memStores
	categories *memCategories
	products   *memProducts
	txs        *memTransactions
	checks     *memChecks
	txCalls    int
}

func newMemStore() *memStore {
	return &memStore{
		users:      newMemUsers(),
		stores:     newMemStores(),
		categories: newMemCategories(),
		products:   newMemProducts(),
		txs:        newMemTransactions(),
		checks:     newMemChecks(),
	}
}

func (m *memStore) set() repository.Set {
	return repository.Set{
		Users:         m.users,
		Stores:        m.stores,
		Categories:    m.categories,
		Products:      m.products,
		Transactions:  m.txs,
		ProductChecks: m.checks,
	}
}

// Run ejecuta fn sobre el mismo set (sin rollback real).
func (m *memStore) Run(_ context.Context, fn func(repository.Set) error) error {
	m.txCalls++
	return fn(m.set())
}

func (m *memStore) deps() Deps {
	return Deps{Repos: m.set(), Tx: m, Policy: authz.NewPolicy(), Log: logger.Nop()}
}

func strPtr(s string) *string { return &s }

var (
	owner1   = entity.Actor{ID: "o1", Role: entity.RoleOwner, IsActive: true}
	owner2   = entity.Actor{ID: "o2", Role: entity.RoleOwner, IsActive: true}
	admin1   = entity.Actor{ID: "a1", Role: entity.RoleAdmin, OwnerID: strPtr("o1"), IsActive: true}
	staff1   = entity.Actor{ID: "s1", Role: entity.RoleStaff, OwnerID: strPtr("o1"), IsActive: true}
	cashier1 = entity.Actor{ID: "c1", Role: entity.RoleCashier, OwnerID: strPtr("o1"), IsActive: true}
)
