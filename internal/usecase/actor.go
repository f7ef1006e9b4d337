package usecase

import (
	"experience-market/internal/data/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID uuid.UUID
	Role   entity.UserRole
}

func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CanManage reports whether the actor owns a resource or is an admin
func (a Actor) CanManage(ownerID uuid.UUID) bool {
	return a.IsAdmin() || (a.Authenticated() && a.UserID == ownerID)
}

func requireAuth(a Actor) error {
	if !a.Authenticated() {
		return newError(ErrUnauthenticated, "authentication required")
	}
	return nil
}

func requireAdmin(a Actor) error {
	if err := requireAuth(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return forbidden("admin role required")
	}
	return nil
}
