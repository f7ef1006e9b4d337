package entity

type UserRole string

const (
	RoleTraveler UserRole = "traveler"
	RoleHost     UserRole = "host"
	RoleAdmin    UserRole = "admin"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleTraveler, RoleHost, RoleAdmin:
		return true
	}
	return false
}

// User mirrors an identity provider account. RoleSynced is false while a
// local role change still has to be written back to the provider.
type User struct {
	Base
	ExternalID string   `db:"external_id"`
	Email      string   `db:"email"`
	Name       string   `db:"name"`
	Role       UserRole `db:"role"`
	RoleSynced bool     `db:"role_synced"`
}
