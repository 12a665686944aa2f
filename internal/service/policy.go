package service

import (
	"errors"

	"github.com/inkline/internal/db"
)

// ErrForbidden is returned when an actor fails the mutation policy
// for a resource they can otherwise see.
var ErrForbidden = errors.New("operation not allowed")

// Actor identifies the authenticated user a service call runs on behalf of.
type Actor struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == db.RoleAdmin
}

// CanMutate decides whether the actor may mutate a resource owned by ownerID.
// Admins may mutate anything; everyone else only their own resources.
func CanMutate(actor Actor, ownerID uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == ownerID
}

// CanManageTaxonomy decides whether the actor may mutate tags and categories.
// These carry no owner, so only admins qualify.
func CanManageTaxonomy(actor Actor) bool {
	return actor.IsAdmin()
}
