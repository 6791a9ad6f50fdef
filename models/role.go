package models

import "strings"

// Role is one of the fixed hospital operator archetypes used as the unit of
// access assignment. Roles are never created or destroyed at runtime.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleNurse        Role = "NURSE"
	RolePatient      Role = "PATIENT"
	RoleReceptionist Role = "RECEPTIONIST"
	RoleTechnician   Role = "TECHNICIAN"
	RoleFinance      Role = "FINANCE"
)

var allRoles = []Role{
	RoleAdmin,
	RoleDoctor,
	RoleNurse,
	RolePatient,
	RoleReceptionist,
	RoleTechnician,
	RoleFinance,
}

// AllRoles returns every role in display order. The slice is a copy.
func AllRoles() []Role {
	out := make([]Role, len(allRoles))
	copy(out, allRoles)
	return out
}

// ParseRole converts a role name to a Role, case-insensitive.
// Returns ok=false if the name is not one of the fixed roles.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of the fixed roles.
func (r Role) Valid() bool {
	for _, known := range allRoles {
		if r == known {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }
