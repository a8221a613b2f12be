package domain

import (
	"strings"
	"time"
)

// Role is a closed enumeration of the permission groups a user may belong to.
// Incoming role names that do not parse are discarded, never stored.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// AllRoles lists every role known to the system, in stable order.
var AllRoles = []Role{RoleAdmin, RoleUser}

// ParseRole maps a role name to its enumeration value.
// Matching is case-insensitive; unknown names return ok=false.
func ParseRole(name string) (Role, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case string(RoleAdmin):
		return RoleAdmin, true
	case string(RoleUser):
		return RoleUser, true
	default:
		return "", false
	}
}

// ParseRoles converts a list of role names into the subset of recognized
// roles, dropping unknown names and duplicates.
func ParseRoles(names []string) []Role {
	seen := make(map[Role]struct{}, len(names))
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		r, ok := ParseRole(n)
		if !ok {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	return roles
}

// User is the aggregate root for an account, owning its role set.
// Login is the immutable business key; ID is the storage identifier
// (the identity provider subject for provisioned users).
type User struct {
	ID             string    `json:"id"`
	Login          string    `json:"login"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	LangKey        string    `json:"lang_key"`
	ImageURL       string    `json:"image_url,omitempty"`
	Activated      bool      `json:"activated"`
	Roles          []Role    `json:"roles"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	LastModifiedBy string    `json:"last_modified_by"`
	LastModifiedAt time.Time `json:"last_modified_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleNames returns the user's roles as plain strings.
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = string(r)
	}
	return names
}
