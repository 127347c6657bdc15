package entity

// Category categoría de productos dentro de una tienda.
type Category struct {
	Model
	OwnerID     string
	StoreID     string
	Name        string
	Description string
}
