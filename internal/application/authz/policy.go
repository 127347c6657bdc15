// Package authz concentra las reglas de acceso: jerarquía de roles, aislamiento por tenant
// (owner) y la tabla de permisos por recurso. Son funciones puras: no tocan la BD.
//
// Orden de evaluación que siguen los casos de uso:
//
//	Authorize (rol vs. acción, antes de leer nada) → existencia (404) → CheckOwnership (403)
package authz

import (
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
)

// Action operación sobre un recurso.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionList    Action = "list"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
)

// Resource tipo de entidad protegida.
type Resource string

const (
	ResourceUser         Resource = "user"
	ResourceStore        Resource = "store"
	ResourceCategory     Resource = "category"
	ResourceProduct      Resource = "product"
	ResourceTransaction  Resource = "transaction"
	ResourceProductCheck Resource = "product_check"
	ResourceReport       Resource = "report"
)

var resourceNames = map[Resource][2]string{
	ResourceUser:         {"user", "users"},
	ResourceStore:        {"store", "stores"},
	ResourceCategory:     {"category", "categories"},
	ResourceProduct:      {"product", "products"},
	ResourceTransaction:  {"transaction", "transactions"},
	ResourceProductCheck: {"product check", "product checks"},
	ResourceReport:       {"report", "reports"},
}

// Singular nombre legible del recurso ("product check").
func (r Resource) Singular() string { return resourceNames[r][0] }

// Plural nombre legible en plural ("product checks").
func (r Resource) Plural() string { return resourceNames[r][1] }

// Rule roles permitidos por acción. Una acción ausente se deniega a todos.
type Rule map[Action][]entity.Role

var (
	allRoles    = []entity.Role{entity.RoleOwner, entity.RoleAdmin, entity.RoleStaff, entity.RoleCashier}
	managers    = []entity.Role{entity.RoleOwner, entity.RoleAdmin}
	ownerOnly   = []entity.Role{entity.RoleOwner}
	managedRule = Rule{
		ActionCreate:  managers,
		ActionRead:    allRoles,
		ActionList:    allRoles,
		ActionUpdate:  managers,
		ActionDelete:  ownerOnly,
		ActionRestore: ownerOnly,
	}
)

// DefaultRules tabla de permisos por recurso. Para usuarios la tabla es sólo la primera
// barrera; las reglas finas están en user_rules.go.
var DefaultRules = map[Resource]Rule{
	ResourceStore:        managedRule,
	ResourceCategory:     managedRule,
	ResourceProduct:      managedRule,
	ResourceTransaction:  managedRule,
	ResourceProductCheck: managedRule,
	ResourceUser: {
		ActionCreate:  managers,
		ActionRead:    allRoles,
		ActionList:    managers,
		ActionUpdate:  allRoles,
		ActionDelete:  ownerOnly,
		ActionRestore: ownerOnly,
	},
	// Reportes de ventas y márgenes: sólo lectura para OWNER y ADMIN.
	ResourceReport: {
		ActionRead: managers,
	},
}

// Policy componente único de autorización, parametrizado por la tabla de reglas.
type Policy struct {
	rules map[Resource]Rule
}

// NewPolicy construye la política con DefaultRules.
func NewPolicy() *Policy {
	return NewPolicyWithRules(DefaultRules)
}

// NewPolicyWithRules construye la política con una tabla propia.
func NewPolicyWithRules(rules map[Resource]Rule) *Policy {
	return &Policy{rules: rules}
}

// Allows indica si el rol del actor puede ejecutar action sobre resource (sin mirar owner).
func (p *Policy) Allows(actor entity.Actor, action Action, resource Resource) bool {
	if !actor.IsActive || !actor.Role.Valid() {
		return false
	}
	for _, r := range p.rules[resource][action] {
		if r == actor.Role {
			return true
		}
	}
	return false
}

// Authorize barrera por rol. Se evalúa antes de cualquier lectura: un rol sin permiso
// recibe 403 exista o no el recurso.
func (p *Policy) Authorize(actor entity.Actor, action Action, resource Resource) error {
	allowed := p.Allows(actor, action, resource)
	metrics.RecordDecision(string(resource), string(action), allowed)
	if allowed {
		return nil
	}
	return roleDenied(actor, action, resource)
}

// CheckOwnership regla de tenant: OWNER ⇒ ownerID == actor.ID; resto ⇒ ownerID == actor.OwnerID.
// La jerarquía de roles nunca cruza tenants.
func (p *Policy) CheckOwnership(actor entity.Actor, action Action, resource Resource, ownerID string) error {
	allowed := SameTenant(actor, ownerID)
	metrics.RecordDecision(string(resource), string(action)+"_ownership", allowed)
	if allowed {
		return nil
	}
	if !actor.IsActive {
		return domain.NewAuthorizationError("Account is inactive")
	}
	return domain.NewAuthorizationError("You do not have access to this %s", resource.Singular())
}

// AuthorizeResource Authorize + CheckOwnership sobre un recurso ya cargado.
func (p *Policy) AuthorizeResource(actor entity.Actor, action Action, resource Resource, ownerID string) error {
	if err := p.Authorize(actor, action, resource); err != nil {
		return err
	}
	return p.CheckOwnership(actor, action, resource, ownerID)
}

// OwnerIDForCreate owner a asignar a un recurso nuevo: OWNER ⇒ su id; ADMIN ⇒ su ownerId.
func (p *Policy) OwnerIDForCreate(actor entity.Actor, resource Resource) (string, error) {
	if err := p.Authorize(actor, ActionCreate, resource); err != nil {
		return "", err
	}
	return OwnerIDForCreate(actor)
}

// SameTenant indica si ownerID es el tenant del actor. Actores inactivos nunca coinciden.
func SameTenant(actor entity.Actor, ownerID string) bool {
	if !actor.IsActive || ownerID == "" {
		return false
	}
	tenant := actor.TenantID()
	return tenant != "" && tenant == ownerID
}

// OwnerIDForCreate resuelve el owner para creación sin consultar la tabla de reglas.
func OwnerIDForCreate(actor entity.Actor) (string, error) {
	switch actor.Role {
	case entity.RoleOwner:
		return actor.ID, nil
	case entity.RoleAdmin:
		if actor.OwnerID == nil || *actor.OwnerID == "" {
			return "", domain.NewAuthorizationError("Admin user is not attached to an owner")
		}
		return *actor.OwnerID, nil
	default:
		return "", domain.NewAuthorizationError("Insufficient permissions to create resources")
	}
}

// VisibleTransactionType tipo al que se restringe la lectura de transacciones para el actor.
// ok == false significa sin restricción.
func VisibleTransactionType(actor entity.Actor) (entity.TransactionType, bool) {
	if actor.Role == entity.RoleCashier {
		return entity.TransactionSale, true
	}
	return "", false
}

func roleDenied(actor entity.Actor, action Action, resource Resource) error {
	if !actor.IsActive {
		return domain.NewAuthorizationError("Account is inactive")
	}
	if !actor.Role.Valid() {
		return domain.NewAuthorizationError("Unknown role")
	}
	if actor.Role == entity.RoleAdmin && (action == ActionDelete || action == ActionRestore) {
		return domain.NewAuthorizationError("Admin users cannot %s %s", action, resource.Plural())
	}
	return domain.NewAuthorizationError("Insufficient permissions to %s %s", action, resource.Plural())
}
