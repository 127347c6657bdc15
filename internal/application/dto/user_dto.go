package dto

import (
	"time"

	"github.com/jhoicas/warehouse-api/internal/domain/entity"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
)

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50,alphanumunicode"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Name     string  `json:"name" validate:"required,min=1,max=200"`
	Role     string  `json:"role" validate:"required,oneof=OWNER ADMIN STAFF CASHIER"`
	StoreID  *string `json:"storeId" validate:"omitempty,min=1"`
}

// UpdateUserRequest actualización parcial; campos nil no cambian.
type UpdateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50,alphanumunicode"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role     *string `json:"role" validate:"omitempty,oneof=OWNER ADMIN STAFF CASHIER"`
	StoreID  *string `json:"storeId"`
	IsActive *bool   `json:"isActive"`
}

// UserFilter columnas filtrables del listado de usuarios.
type UserFilter struct {
	Role     string `query:"role" validate:"omitempty,oneof=OWNER ADMIN STAFF CASHIER"`
	StoreID  string `query:"storeId"`
	IsActive *bool  `query:"isActive"`
}

// Filters convierte el filtro a condiciones del repositorio.
func (f UserFilter) Filters() repository.Filters {
	out := repository.Filters{"is_active": f.IsActive}
	putString(out, "role", f.Role)
	putString(out, "store_id", f.StoreID)
	return out
}

// UserSortable columnas de orden permitidas para usuarios.
var UserSortable = sortKeys("username", "email", "name", "role")

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string     `json:"id"`
	OwnerID   *string    `json:"ownerId"`
	StoreID   *string    `json:"storeId"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"isActive"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// ToUserResponse quita el hash de la contraseña.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		OwnerID:   u.OwnerID,
		StoreID:   u.StoreID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		DeletedAt: u.DeletedAt,
	}
}

// LoginRequest entrada para login: username o email en el mismo campo.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterOwnerRequest alta pública de un OWNER (ancla de un tenant nuevo).
type RegisterOwnerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanumunicode"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"` // segundos
	User      UserResponse `json:"user"`
}
