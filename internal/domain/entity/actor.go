package entity

// Role rol de un usuario dentro de su tenant.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleAdmin   Role = "ADMIN"
	RoleStaff   Role = "STAFF"
	RoleCashier Role = "CASHIER"
)

// Roles en orden descendente de jerarquía.
var Roles = []Role{RoleOwner, RoleAdmin, RoleStaff, RoleCashier}

// Level nivel jerárquico del rol (OWNER=4 ... CASHIER=1, 0 si es desconocido).
func (r Role) Level() int {
	switch r {
	case RoleOwner:
		return 4
	case RoleAdmin:
		return 3
	case RoleStaff:
		return 2
	case RoleCashier:
		return 1
	default:
		return 0
	}
}

// Valid indica si el rol es uno de los cuatro conocidos.
func (r Role) Valid() bool { return r.Level() > 0 }

// Outranks indica si r está estrictamente por encima de other. No concede acceso entre tenants.
func (r Role) Outranks(other Role) bool { return r.Level() > other.Level() }

// Actor es el usuario autenticado que origina la petición.
// OwnerID es nil sólo cuando Role == OWNER; en ese caso ID es la identidad del tenant.
type Actor struct {
	ID       string
	Role     Role
	OwnerID  *string
	IsActive bool
}

// TenantID devuelve el id del OWNER al que pertenece el actor ("" si no se puede resolver).
func (a Actor) TenantID() string {
	if a.Role == RoleOwner {
		return a.ID
	}
	if a.OwnerID == nil {
		return ""
	}
	return *a.OwnerID
}

// IsSelf indica si userID es el propio actor.
func (a Actor) IsSelf(userID string) bool { return a.ID != "" && a.ID == userID }
