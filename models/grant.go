package models

// GrantMode selects which of the two mutually exclusive identifiers a
// temporary grant carries.
type GrantMode string

const (
	GrantModeGroup      GrantMode = "group"
	GrantModeIndividual GrantMode = "individual"
)

// Valid reports whether m is a known grant mode.
func (m GrantMode) Valid() bool {
	return m == GrantModeGroup || m == GrantModeIndividual
}

// Expiry bounds for temporary grants, in hours. One week max.
const (
	MinGrantHours = 1
	MaxGrantHours = 168
)

// TemporaryGrant is a time-boxed, reason-logged elevation of a single user's
// access. It is write-only: the client issues grants and never reads them back.
type TemporaryGrant struct {
	TargetUserID    string
	PermissionGroup string
	Permission      string
	ExpiresInHours  int
	Reason          string
}
