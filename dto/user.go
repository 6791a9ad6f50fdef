package dto

// OverrideRequest is the flattened "module.action" -> granted map posted to
// /api/users/{id}/permissions/override.
type OverrideRequest map[string]bool

// TemporaryGrantRequest is the body posted to /api/users/{id}/permissions/temporary.
// Exactly one of PermissionGroup and Permission is set.
type TemporaryGrantRequest struct {
	PermissionGroup string `json:"permissionGroup,omitempty" validate:"required_without=Permission,excluded_with=Permission"`
	Permission      string `json:"permission,omitempty" validate:"required_without=PermissionGroup,excluded_with=PermissionGroup,permission"`
	ExpiresInHours  int    `json:"expiresInHours" validate:"required,min=1,max=168"`
	Reason          string `json:"reason" validate:"required"`
}
