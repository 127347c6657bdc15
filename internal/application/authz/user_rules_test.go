package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/authz"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/domain/entity"
)

func userOf(a entity.Actor) *entity.User {
	u := &entity.User{Role: a.Role, OwnerID: a.OwnerID, IsActive: a.IsActive}
	u.ID = a.ID
	return u
}

func rolePtr(r entity.Role) *entity.Role { return &r }

var (
	staff2User   = &entity.User{Model: entity.Model{ID: "s2"}, Role: entity.RoleStaff, OwnerID: strPtr("o1"), IsActive: true}
	admin3User   = &entity.User{Model: entity.Model{ID: "a3"}, Role: entity.RoleAdmin, OwnerID: strPtr("o1"), IsActive: true}
	foreignStaff = &entity.User{Model: entity.Model{ID: "s9"}, Role: entity.RoleStaff, OwnerID: strPtr("o2"), IsActive: true}
)

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

// Escenario E: OWNER intentando crear otro OWNER → ValidationError.
func TestCanCreateUser_OwnerNoCreaOwner(t *testing.T) {
	p := authz.NewPolicy()
	_, err := p.CanCreateUser(owner1, entity.RoleOwner)
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, "Cannot create another OWNER user", err.Error())
}

func TestCanCreateUser_OwnerCreaCualquierOtroRol(t *testing.T) {
	p := authz.NewPolicy()
	for _, r := range []entity.Role{entity.RoleAdmin, entity.RoleStaff, entity.RoleCashier} {
		ownerID, err := p.CanCreateUser(owner1, r)
		require.NoError(t, err, r)
		assert.Equal(t, "o1", ownerID)
	}
}

// ADMIN sólo crea STAFF y hereda su ownerId.
func TestCanCreateUser_AdminSoloStaff(t *testing.T) {
	p := authz.NewPolicy()
	ownerID, err := p.CanCreateUser(admin1, entity.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, "o1", ownerID)

	for _, r := range []entity.Role{entity.RoleAdmin, entity.RoleCashier} {
		_, err := p.CanCreateUser(admin1, r)
		assert.True(t, domain.IsAuthorization(err), r)
	}
}

func TestCanCreateUser_StaffYCashierNada(t *testing.T) {
	p := authz.NewPolicy()
	for _, a := range []entity.Actor{staff1, cashier1} {
		_, err := p.CanCreateUser(a, entity.RoleCashier)
		assert.True(t, domain.IsAuthorization(err), a.Role)
	}
}

func TestCanCreateUser_RolInvalido(t *testing.T) {
	p := authz.NewPolicy()
	_, err := p.CanCreateUser(owner1, entity.Role("ROOT"))
	assert.True(t, domain.IsValidation(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Lectura
// ──────────────────────────────────────────────────────────────────────────────

// Escenario C: STAFF lee su propio perfil pero no el de otro STAFF del mismo owner.
func TestCanReadUser_StaffSoloSuPerfil(t *testing.T) {
	p := authz.NewPolicy()
	assert.NoError(t, p.CanReadUser(staff1, userOf(staff1)))

	err := p.CanReadUser(staff1, staff2User)
	require.Error(t, err)
	assert.True(t, domain.IsAuthorization(err))
}

func TestCanReadUser_OwnerYAdminDentroDelTenant(t *testing.T) {
	p := authz.NewPolicy()
	assert.NoError(t, p.CanReadUser(owner1, staff2User))
	assert.NoError(t, p.CanReadUser(admin1, staff2User))
	assert.NoError(t, p.CanReadUser(admin1, userOf(owner1)))

	assert.Error(t, p.CanReadUser(owner1, foreignStaff))
	assert.Error(t, p.CanReadUser(owner1, userOf(owner2)), "un OWNER no ve a otro OWNER")
}

func TestCanListUsers(t *testing.T) {
	p := authz.NewPolicy()
	assert.NoError(t, p.CanListUsers(owner1))
	assert.NoError(t, p.CanListUsers(admin1))
	assert.Error(t, p.CanListUsers(staff1))
	assert.Error(t, p.CanListUsers(cashier1))
}

// ──────────────────────────────────────────────────────────────────────────────
// Actualización
// ──────────────────────────────────────────────────────────────────────────────

func TestCanUpdateUser_StaffPerfilPropio(t *testing.T) {
	p := authz.NewPolicy()
	assert.NoError(t, p.CanUpdateUser(staff1, userOf(staff1), authz.UserChange{}))

	err := p.CanUpdateUser(staff1, userOf(staff1), authz.UserChange{Role: rolePtr(entity.RoleAdmin)})
	assert.True(t, domain.IsAuthorization(err), "STAFF no cambia su rol")

	err = p.CanUpdateUser(staff1, userOf(staff1), authz.UserChange{ChangeStore: true})
	assert.True(t, domain.IsAuthorization(err))

	err = p.CanUpdateUser(staff1, staff2User, authz.UserChange{})
	assert.True(t, domain.IsAuthorization(err), "STAFF no edita a otros")
}

func TestCanUpdateUser_Admin(t *testing.T) {
	p := authz.NewPolicy()
	assert.NoError(t, p.CanUpdateUser(admin1, staff2User, authz.UserChange{ChangeStatus: true}))
	assert.NoError(t, p.CanUpdateUser(admin1, userOf(admin1), authz.UserChange{}))

	err := p.CanUpdateUser(admin1, staff2User, authz.UserChange{Role: rolePtr(entity.RoleCashier)})
	assert.EqualError(t, err, "Only owners can change user roles")

	err = p.CanUpdateUser(admin1, admin3User, authz.UserChange{})
	assert.EqualError(t, err, "Admin users cannot modify admin or owner accounts")

	err = p.CanUpdateUser(admin1, userOf(owner1), authz.UserChange{})
	assert.True(t, domain.IsAuthorization(err))

	err = p.CanUpdateUser(admin1, foreignStaff, authz.UserChange{})
	assert.True(t, domain.IsAuthorization(err))
}

func TestCanUpdateUser_Owner(t *testing.T) {
	p := authz.NewPolicy()
	assert.NoError(t, p.CanUpdateUser(owner1, admin3User, authz.UserChange{Role: rolePtr(entity.RoleStaff)}))
	assert.NoError(t, p.CanUpdateUser(owner1, userOf(owner1), authz.UserChange{}))

	err := p.CanUpdateUser(owner1, staff2User, authz.UserChange{Role: rolePtr(entity.RoleOwner)})
	assert.True(t, domain.IsValidation(err), "no se promueve a OWNER")

	err = p.CanUpdateUser(owner1, userOf(owner1), authz.UserChange{Role: rolePtr(entity.RoleAdmin)})
	assert.True(t, domain.IsValidation(err), "el rol de un OWNER no cambia")

	err = p.CanUpdateUser(owner1, userOf(owner1), authz.UserChange{ChangeStatus: true})
	assert.True(t, domain.IsValidation(err), "no se desactiva a sí mismo")

	err = p.CanUpdateUser(owner1, foreignStaff, authz.UserChange{})
	assert.True(t, domain.IsAuthorization(err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestCanDeleteUser(t *testing.T) {
	p := authz.NewPolicy()
	assert.NoError(t, p.CanDeleteUser(owner1, staff2User))
	assert.NoError(t, p.CanDeleteUser(owner1, admin3User))

	assert.EqualError(t, p.CanDeleteUser(admin1, staff2User), "Admin users cannot delete users")
	assert.True(t, domain.IsAuthorization(p.CanDeleteUser(staff1, staff2User)))
	assert.EqualError(t, p.CanDeleteUser(owner1, userOf(owner1)), "Cannot delete an OWNER user")
	assert.True(t, domain.IsAuthorization(p.CanDeleteUser(owner1, foreignStaff)))
	assert.True(t, domain.IsAuthorization(p.CanRestoreUser(admin1, staff2User)))
}
