package entity

// Estados de un conteo físico.
const (
	CheckPending     = "PENDING"
	CheckVerified    = "VERIFIED"
	CheckDiscrepancy = "DISCREPANCY"
)

// ProductCheck conteo físico de un producto contra el stock registrado.
type ProductCheck struct {
	Model
	OwnerID          string
	StoreID          string
	ProductID        string
	CheckedBy        string
	ExpectedQuantity int
	ActualQuantity   int
	Discrepancy      int // actual - esperado
	Status           string
	Notes            string
}

// Record registra el conteo real y deriva discrepancia y estado.
func (c *ProductCheck) Record(actual int) {
	c.ActualQuantity = actual
	c.Discrepancy = actual - c.ExpectedQuantity
	if c.Discrepancy == 0 {
		c.Status = CheckVerified
	} else {
		c.Status = CheckDiscrepancy
	}
}
