package entity

// Roles válidos emitidos por el servicio de cuentas del marketplace.
const (
	RoleAdmin  = "admin"
	RoleDealer = "dealer"
	RoleUser   = "user"
)

// Actor identidad autenticada que ejecuta una operación (viene del token, no de la DB).
type Actor struct {
	ID   string
	Role string
}

// IsAdmin indica si el actor puede modificar la taxonomía.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
