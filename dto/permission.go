package dto

import "github.com/carewell-hms/permadmin/models"

// CatalogResponse is the body of GET /api/permissions/all.
type CatalogResponse struct {
	Permissions []string `json:"permissions"`
}

// GroupResponse is the body of GET /api/permissions/groups/{name}.
type GroupResponse struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
	Roles       []string `json:"roles"`
}

// ToModel converts GroupResponse to models.PermissionGroup. When the server
// omits the name, fallback (the name the group was requested by) is used.
func (r *GroupResponse) ToModel(fallback string) models.PermissionGroup {
	name := r.Name
	if name == "" {
		name = fallback
	}
	return models.PermissionGroup{
		Name:        name,
		Description: r.Description,
		Permissions: nonNil(r.Permissions),
		Roles:       nonNil(r.Roles),
	}
}

// FromGroup converts a models.PermissionGroup to GroupResponse.
func FromGroup(g models.PermissionGroup) GroupResponse {
	return GroupResponse{
		Name:        g.Name,
		Description: g.Description,
		Permissions: nonNil(g.Permissions),
		Roles:       nonNil(g.Roles),
	}
}

// CreateGroupRequest is the body of POST /api/permissions/groups.
type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

// RolePermissions is both the body of GET /api/permissions/role/{role} and
// of PUT /api/permissions/role/{role}.
type RolePermissions struct {
	Permissions []string `json:"permissions"`
}

// RoleGroups is the body of PUT /api/permissions/role/{role}/groups.
type RoleGroups struct {
	Groups []string `json:"groups"`
}

// ErrorResponse is the error envelope returned by the hospital API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
