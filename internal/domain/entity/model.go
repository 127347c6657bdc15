package entity

import "time"

// Model campos comunes a todas las tablas (id, timestamps y borrado lógico).
type Model struct {
	ID        string     `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Base expone el Model embebido; lo usan los repositorios genéricos.
func (m *Model) Base() *Model { return m }

// IsDeleted indica si la fila está eliminada lógicamente.
func (m *Model) IsDeleted() bool { return m.DeletedAt != nil }
