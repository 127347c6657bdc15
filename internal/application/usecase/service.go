// Package usecase contiene los servicios por entidad. Cada método sigue el mismo orden:
// validar entrada → barrera por rol → cargar referencias (404) → tenant (403) →
// unicidad (409) → persistir dentro de TxRunner.Run → dar forma a la respuesta.
package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/pkg/logger"
	"github.com/rs/zerolog"
)

// Deps dependencias comunes de los casos de uso.
type Deps struct {
	Repos  repository.Set // atado al pool: lecturas fuera de transacción
	Tx     repository.TxRunner
	Policy *authz.Policy
	Log    *logger.Logger
}

func (d Deps) named(component string) Deps {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	d.Log = d.Log.Named(component)
	if d.Policy == nil {
		d.Policy = authz.NewPolicy()
	}
	return d
}

// logMutation evento Info con user_id y owner_id; toda escritura lo usa.
func (d Deps) logMutation(actor entity.Actor) *zerolog.Event {
	return d.Log.Info().Str("user_id", actor.ID).Str("owner_id", actor.TenantID())
}

// findOwned carga la entidad por id (404 si no existe o está eliminada) y luego aplica
// la regla de tenant (403).
func findOwned[T any](
	ctx context.Context,
	policy *authz.Policy,
	actor entity.Actor,
	action authz.Action,
	res authz.Resource,
	find func(context.Context, string) (*T, error),
	id string,
	ownerOf func(*T) string,
) (*T, error) {
	e, err := find(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, notFound(res)
	}
	if err := policy.CheckOwnership(actor, action, res, ownerOf(e)); err != nil {
		return nil, err
	}
	return e, nil
}

func notFound(res authz.Resource) *domain.AppError {
	return domain.NewNotFoundError(title(res))
}

// title "product check" → "Product check".
func title(res authz.Resource) string {
	s := res.Singular()
	return strings.ToUpper(s[:1]) + s[1:]
}

// tenantOf tenant al que se acotan los listados del actor.
func tenantOf(actor entity.Actor) (string, error) {
	t := actor.TenantID()
	if t == "" || !actor.IsActive {
		return "", domain.NewAuthorizationError("You do not have access to this tenant")
	}
	return t, nil
}

// listOptions valida orden/paginación y fuerza owner_id al tenant del actor.
// Sólo un OWNER puede pedir filas eliminadas.
func listOptions(actor entity.Actor, q dto.ListQuery, sortable []string, filters repository.Filters) (repository.FindOptions, string, error) {
	tenant, err := tenantOf(actor)
	if err != nil {
		return repository.FindOptions{}, "", err
	}
	if actor.Role != entity.RoleOwner {
		q.IncludeDeleted = false
	}
	if filters == nil {
		filters = repository.Filters{}
	}
	filters["owner_id"] = tenant
	opts, err := q.FindOptions(sortable, filters)
	return opts, tenant, err
}

// ownerOf* extractores de owner para findOwned.
func storeOwner(s *entity.Store) string               { return s.OwnerID }
func categoryOwner(c *entity.Category) string         { return c.OwnerID }
func productOwner(p *entity.Product) string           { return p.OwnerID }
func transactionOwner(t *entity.Transaction) string   { return t.OwnerID }
func productCheckOwner(c *entity.ProductCheck) string { return c.OwnerID }
