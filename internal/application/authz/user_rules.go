package authz

import (
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

// UserChange describe qué campos sensibles toca una actualización de usuario.
// Los campos de perfil (nombre, email, username, password) no aparecen: siempre se permiten
// a quien pasa las demás reglas.
type UserChange struct {
	Role         *entity.Role // nil si no cambia
	ChangeStatus bool
	ChangeStore  bool
}

// CanCreateUser decide si el actor puede crear un usuario con role y devuelve el owner a asignar.
// OWNER crea cualquier rol salvo OWNER; ADMIN sólo STAFF; STAFF/CASHIER nada.
func (p *Policy) CanCreateUser(actor entity.Actor, role entity.Role) (string, error) {
	if err := p.Authorize(actor, ActionCreate, ResourceUser); err != nil {
		return "", err
	}
	if role == entity.RoleOwner {
		return "", domain.NewValidationError("Cannot create another OWNER user")
	}
	if !role.Valid() {
		return "", domain.NewValidationError("Invalid role %q", role)
	}
	if actor.Role == entity.RoleAdmin && role != entity.RoleStaff {
		return "", domain.NewAuthorizationError("Admin users can only create STAFF users")
	}
	return OwnerIDForCreate(actor)
}

// CanReadUser el propio perfil siempre; OWNER/ADMIN dentro de su tenant; STAFF/CASHIER nada más.
func (p *Policy) CanReadUser(actor entity.Actor, target *entity.User) error {
	if err := p.Authorize(actor, ActionRead, ResourceUser); err != nil {
		return err
	}
	if actor.IsSelf(target.ID) {
		return nil
	}
	if actor.Role != entity.RoleOwner && actor.Role != entity.RoleAdmin {
		return domain.NewAuthorizationError("You can only view your own profile")
	}
	return p.CheckOwnership(actor, ActionRead, ResourceUser, target.TenantID())
}

// CanListUsers sólo OWNER y ADMIN listan usuarios (siempre acotado a su tenant).
func (p *Policy) CanListUsers(actor entity.Actor) error {
	return p.Authorize(actor, ActionList, ResourceUser)
}

// CanUpdateUser reglas de actualización:
//   - STAFF/CASHIER: sólo su perfil y sólo campos de perfil.
//   - ADMIN: no cambia roles; no modifica ADMIN/OWNER salvo a sí mismo.
//   - OWNER: cualquier campo de su tenant; nunca promueve a OWNER ni cambia el rol de un OWNER.
func (p *Policy) CanUpdateUser(actor entity.Actor, target *entity.User, change UserChange) error {
	if err := p.Authorize(actor, ActionUpdate, ResourceUser); err != nil {
		return err
	}
	self := actor.IsSelf(target.ID)
	if !self {
		if err := p.CheckOwnership(actor, ActionUpdate, ResourceUser, target.TenantID()); err != nil {
			return err
		}
	}

	switch actor.Role {
	case entity.RoleOwner:
		if change.Role != nil {
			if *change.Role == entity.RoleOwner {
				return domain.NewValidationError("Cannot promote a user to OWNER")
			}
			if target.Role == entity.RoleOwner {
				return domain.NewValidationError("Cannot change the role of an OWNER user")
			}
			if !change.Role.Valid() {
				return domain.NewValidationError("Invalid role %q", *change.Role)
			}
		}
	case entity.RoleAdmin:
		if change.Role != nil {
			return domain.NewAuthorizationError("Only owners can change user roles")
		}
		if !self && (target.Role == entity.RoleAdmin || target.Role == entity.RoleOwner) {
			return domain.NewAuthorizationError("Admin users cannot modify admin or owner accounts")
		}
	default:
		if !self {
			return domain.NewAuthorizationError("You can only update your own profile")
		}
		if change.Role != nil {
			return domain.NewAuthorizationError("Only owners can change user roles")
		}
		if change.ChangeStatus || change.ChangeStore {
			return domain.NewAuthorizationError("You can only update your own profile fields")
		}
	}

	if self && change.ChangeStatus {
		return domain.NewValidationError("Cannot change the status of your own account")
	}
	return nil
}

// CanDeleteUser sólo OWNER borra, nunca a otro OWNER (ni a sí mismo).
func (p *Policy) CanDeleteUser(actor entity.Actor, target *entity.User) error {
	return p.ownerManagesUser(actor, ActionDelete, target)
}

// CanRestoreUser mismas reglas que el borrado.
func (p *Policy) CanRestoreUser(actor entity.Actor, target *entity.User) error {
	return p.ownerManagesUser(actor, ActionRestore, target)
}

func (p *Policy) ownerManagesUser(actor entity.Actor, action Action, target *entity.User) error {
	if err := p.Authorize(actor, action, ResourceUser); err != nil {
		return err
	}
	if target.Role == entity.RoleOwner {
		return domain.NewAuthorizationError("Cannot %s an OWNER user", action)
	}
	return p.CheckOwnership(actor, action, ResourceUser, target.TenantID())
}
