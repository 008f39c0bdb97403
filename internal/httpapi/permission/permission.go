// Package permission holds the allow/deny predicates gating every resource.
// Predicates are pure functions of (actor, action, optional target) and are
// composed with Any: a request passes if at least one predicate allows it,
// deny is the default.
package permission

import "reviewhub/internal/httpapi/models"

type Action int

const (
	// ActionRead covers list/retrieve, ActionWrite covers create/update/delete.
	ActionRead Action = iota
	ActionWrite
)

// Actor is the party making a request. Role is the effective role, with the
// superuser/staff flags already collapsed in (see models.User.EffectiveRole),
// so predicates never re-derive it.
type Actor struct {
	ID            string
	Username      string
	Role          string
	Authenticated bool
}

// Anonymous is the actor for requests carrying no credentials.
var Anonymous = Actor{}

// Target carries the parts of the entity under access that predicates care
// about. Nil target means the check is collection-level.
type Target struct {
	AuthorID string
}

type Predicate func(actor Actor, action Action, target *Target) bool

// AdminOrReadOnly lets anyone read and admins write. Governs the catalog
// resources (titles, categories, genres).
func AdminOrReadOnly(actor Actor, action Action, _ *Target) bool {
	if action == ActionRead {
		return true
	}
	return actor.Authenticated && actor.Role == models.RoleAdmin
}

// RoleAdmin allows only authenticated admins.
func RoleAdmin(actor Actor, _ Action, _ *Target) bool {
	return actor.Authenticated && actor.Role == models.RoleAdmin
}

// RoleModerator allows authenticated moderators and admins.
func RoleModerator(actor Actor, _ Action, _ *Target) bool {
	return actor.Authenticated && (actor.Role == models.RoleModerator || actor.Role == models.RoleAdmin)
}

// AuthorOrReadOnly lets anyone read; writes require the actor to be the
// target's author. A write with no target (create) only needs authentication.
func AuthorOrReadOnly(actor Actor, action Action, target *Target) bool {
	if action == ActionRead {
		return true
	}
	if !actor.Authenticated {
		return false
	}
	if target == nil {
		return true
	}
	return target.AuthorID == actor.ID
}

// ReadOnly allows safe actions only.
func ReadOnly(_ Actor, action Action, _ *Target) bool {
	return action == ActionRead
}

// Any composes predicates with a short-circuit OR.
func Any(preds ...Predicate) Predicate {
	return func(actor Actor, action Action, target *Target) bool {
		for _, pred := range preds {
			if pred(actor, action, target) {
				return true
			}
		}
		return false
	}
}

// ReviewAccess is the shared gate for reviews and comments: moderators and
// admins may touch anything, authors their own, everyone may read.
var ReviewAccess = Any(RoleAdmin, RoleModerator, AuthorOrReadOnly)
