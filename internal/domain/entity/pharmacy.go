package entity

import "time"

// Pharmacy representa la farmacia dueña de inventario, facturas y deudas.
type Pharmacy struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
