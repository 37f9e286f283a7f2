package service

import (
	"github.com/google/uuid"

	"github.com/cookeasy/backend/internal/models"
)

// Actor is the authenticated caller as seen by ownership checks
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// CanManage reports whether the actor may edit or delete the recipe
func (a *Actor) CanManage(r *models.Recipe) bool {
	return a != nil && (a.IsAdmin() || r.OwnedBy(a.ID))
}
