package services

import (
	"github.com/Mapachitomamalon/CosmoFood/models"
	"github.com/google/uuid"
)

// Actor identifies the authenticated account performing an operation.
// Controllers build it from the JWT claims; services gate on it.
type Actor struct {
	ID   uuid.UUID
	Role models.Role
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...models.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
