package models

import "slices"

// PermissionGroup is a named, server-defined bundle of permissions that can be
// assigned to roles as a unit.
type PermissionGroup struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	Roles       []string `json:"roles"`
}

// HasRole reports whether the group record lists role as a member.
func (g PermissionGroup) HasRole(role Role) bool {
	for _, r := range g.Roles {
		if parsed, ok := ParseRole(r); ok && parsed == role {
			return true
		}
	}
	return false
}

// Assignments maps each role to an unordered set of items, stored as a list
// without duplicates. It backs both RoleGroupMap and RolePermissionMap.
type Assignments map[Role][]string

// RoleGroupMap maps a role to the names of the permission groups it includes.
type RoleGroupMap = Assignments

// RolePermissionMap maps a role to its directly granted permission strings.
type RolePermissionMap = Assignments

// NewAssignments returns a map with an empty, non-nil list for every fixed role.
func NewAssignments() Assignments {
	a := make(Assignments, len(allRoles))
	for _, r := range allRoles {
		a[r] = []string{}
	}
	return a
}

// Contains reports whether item is already assigned to role.
func (a Assignments) Contains(role Role, item string) bool {
	return slices.Contains(a[role], item)
}

// Add appends item to role's list unless it is already present.
// Returns true if the list changed.
func (a Assignments) Add(role Role, item string) bool {
	if a.Contains(role, item) {
		return false
	}
	a[role] = append(a[role], item)
	return true
}

// Remove filters item out of role's list. Returns true if the list changed.
func (a Assignments) Remove(role Role, item string) bool {
	cur := a[role]
	if !slices.Contains(cur, item) {
		return false
	}
	next := make([]string, 0, len(cur)-1)
	for _, v := range cur {
		if v != item {
			next = append(next, v)
		}
	}
	a[role] = next
	return true
}

// Get returns a copy of role's list, never nil.
func (a Assignments) Get(role Role) []string {
	out := make([]string, len(a[role]))
	copy(out, a[role])
	return out
}

// Clone returns a deep copy. Fixed roles missing from a are present, empty, in the copy.
func (a Assignments) Clone() Assignments {
	out := NewAssignments()
	for r, items := range a {
		out[r] = slices.Clone(items)
		if out[r] == nil {
			out[r] = []string{}
		}
	}
	return out
}
