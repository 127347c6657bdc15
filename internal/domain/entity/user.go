package entity

// User usuario del sistema. Los OWNER no tienen OwnerID: son el ancla de su tenant.
type User struct {
	Model
	OwnerID      *string
	StoreID      *string
	Username     string
	Email        string
	PasswordHash string // bcrypt, nunca se serializa
	Name         string
	Role         Role
	IsActive     bool
}

// TenantID id del OWNER del usuario (él mismo si es OWNER).
func (u *User) TenantID() string {
	if u.Role == RoleOwner || u.OwnerID == nil {
		return u.ID
	}
	return *u.OwnerID
}

// AsActor convierte el usuario persistido en el actor de una petición.
func (u *User) AsActor() Actor {
	return Actor{ID: u.ID, Role: u.Role, OwnerID: u.OwnerID, IsActive: u.IsActive}
}
