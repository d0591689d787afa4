// Package permission decides whether an actor may perform an action on a
// resource. Evaluation is pure: no I/O, no transport types.
package permission

import (
	"yamdb/internal/data/entity"

	"github.com/google/uuid"
)

type Policy int

const (
	// AdminOnly allows admins and superusers, for reads too.
	AdminOnly Policy = iota
	// StaffOrReadOnly lets anyone read and admins or moderators write.
	StaffOrReadOnly
	// AdminModeratorAuthorOrReadOnly lets anyone read, any authenticated user
	// create, and admins, moderators or the author change a resource.
	AdminModeratorAuthorOrReadOnly
)

func (p Policy) String() string {
	switch p {
	case AdminOnly:
		return "admin_only"
	case StaffOrReadOnly:
		return "staff_or_read_only"
	case AdminModeratorAuthorOrReadOnly:
		return "admin_moderator_author_or_read_only"
	}
	return "unknown"
}

type Action int

const (
	List Action = iota
	Retrieve
	Create
	Update
	Delete
)

// IsRead reports whether the action never mutates state.
func (a Action) IsRead() bool {
	return a == List || a == Retrieve
}

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

// Resource describes what is being acted on. AuthorID is nil for collections
// and for resources without an owner.
type Resource struct {
	AuthorID *uuid.UUID
}

// Owned is shorthand for a resource authored by id.
func Owned(id uuid.UUID) Resource {
	return Resource{AuthorID: &id}
}

// Evaluate applies policy to actor performing action on res. A nil actor is
// anonymous.
func Evaluate(policy Policy, actor *entity.User, action Action, res Resource) Decision {
	if policy != AdminOnly && action.IsRead() {
		return Allow
	}
	if actor == nil {
		return DenyUnauthenticated
	}

	switch policy {
	case AdminOnly:
		if actor.IsAdmin() {
			return Allow
		}
	case StaffOrReadOnly:
		if actor.IsAdmin() || actor.IsModerator() {
			return Allow
		}
	case AdminModeratorAuthorOrReadOnly:
		if action == Create || actor.IsAdmin() || actor.IsModerator() {
			return Allow
		}
		if res.AuthorID != nil && *res.AuthorID == actor.ID {
			return Allow
		}
	}

	return DenyForbidden
}
