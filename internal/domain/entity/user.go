package entity

import "time"

// Roles de usuario de la farmacia.
const (
	RoleAdmin      = "admin"
	RolePharmacist = "farmaceutico"
	RoleCashier    = "cajero"
)

// User representa un usuario del sistema (empleado de la farmacia).
type User struct {
	ID           string
	PharmacyID   string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
