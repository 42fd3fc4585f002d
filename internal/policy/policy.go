// Package policy decides whether an acting user may mutate a resource.
// Decisions are pure: no I/O, no clock.
package policy

import "github.com/anup-shanbhag/TrelloQuora/internal/models"

type Decision struct {
	Allowed bool
	Reason  string
}

const (
	ReasonOwner    = "owner"
	ReasonAdmin    = "admin"
	ReasonNotOwner = "not owner"
	ReasonNotAdmin = "not admin"
)

func allow(reason string) Decision { return Decision{Allowed: true, Reason: reason} }
func deny(reason string) Decision  { return Decision{Reason: reason} }

// CanMutate allows the owner of a resource, and admins when allowAdminOverride
// is set. Ownership is compared by external id.
func CanMutate(acting, owner models.User, allowAdminOverride bool) Decision {
	if acting.UUID != "" && acting.UUID == owner.UUID {
		return allow(ReasonOwner)
	}
	if allowAdminOverride && acting.IsAdmin() {
		return allow(ReasonAdmin)
	}
	return deny(ReasonNotOwner)
}

// CanEdit is owner-only. Admins cannot edit content they do not own.
func CanEdit(acting, owner models.User) Decision {
	return CanMutate(acting, owner, false)
}

func CanDelete(acting, owner models.User) Decision {
	return CanMutate(acting, owner, true)
}

// CanDeleteUser is admin-only and does not look at the target.
func CanDeleteUser(acting models.User) Decision {
	if acting.IsAdmin() {
		return allow(ReasonAdmin)
	}
	return deny(ReasonNotAdmin)
}
