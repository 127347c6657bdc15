package entity

// Store tienda o bodega de un OWNER.
type Store struct {
	Model
	OwnerID  string
	Name     string
	Address  string
	Phone    string
	IsActive bool
}
