package client

import (
	"context"
	"net/http"

	"github.com/carewell-hms/permadmin/dto"
	"github.com/carewell-hms/permadmin/models"
)

// PermissionsService covers the /api/permissions endpoints.
type PermissionsService struct {
	client *Client
}

// Catalog returns the full permission catalog.
func (s *PermissionsService) Catalog(ctx context.Context) ([]string, error) {
	var out dto.CatalogResponse
	if err := s.client.do(ctx, http.MethodGet, "/api/permissions/all", nil, nil, &out); err != nil {
		return nil, err
	}
	if out.Permissions == nil {
		return []string{}, nil
	}
	return out.Permissions, nil
}

// GroupNames lists the names of every permission group.
func (s *PermissionsService) GroupNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.client.do(ctx, http.MethodGet, "/api/permissions/groups", nil, nil, &names); err != nil {
		return nil, err
	}
	if names == nil {
		return []string{}, nil
	}
	return names, nil
}

// Group fetches one group's detail record, including its member roles.
func (s *PermissionsService) Group(ctx context.Context, name string) (*models.PermissionGroup, error) {
	var out dto.GroupResponse
	err := s.client.do(ctx, http.MethodGet, "/api/permissions/groups/{name}", map[string]string{"name": name}, nil, &out)
	if err != nil {
		return nil, err
	}
	g := out.ToModel(name)
	return &g, nil
}

// CreateGroup creates a permission group with the given member permissions.
func (s *PermissionsService) CreateGroup(ctx context.Context, req dto.CreateGroupRequest) error {
	if req.Permissions == nil {
		req.Permissions = []string{}
	}
	return s.client.do(ctx, http.MethodPost, "/api/permissions/groups", nil, req, nil)
}

// DeleteGroup deletes a permission group by name.
func (s *PermissionsService) DeleteGroup(ctx context.Context, name string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/permissions/groups/{name}", map[string]string{"name": name}, nil, nil)
}

// RolePermissions returns the role's direct (individual) permission list.
func (s *PermissionsService) RolePermissions(ctx context.Context, role models.Role) ([]string, error) {
	var out dto.RolePermissions
	err := s.client.do(ctx, http.MethodGet, "/api/permissions/role/{role}", map[string]string{"role": role.String()}, nil, &out)
	if err != nil {
		return nil, err
	}
	if out.Permissions == nil {
		return []string{}, nil
	}
	return out.Permissions, nil
}

// SetRoleGroups overwrites the role's group membership on the server.
func (s *PermissionsService) SetRoleGroups(ctx context.Context, role models.Role, groups []string) error {
	if groups == nil {
		groups = []string{}
	}
	return s.client.do(ctx, http.MethodPut, "/api/permissions/role/{role}/groups",
		map[string]string{"role": role.String()}, dto.RoleGroups{Groups: groups}, nil)
}

// SetRolePermissions overwrites the role's direct permission list on the server.
func (s *PermissionsService) SetRolePermissions(ctx context.Context, role models.Role, permissions []string) error {
	if permissions == nil {
		permissions = []string{}
	}
	return s.client.do(ctx, http.MethodPut, "/api/permissions/role/{role}",
		map[string]string{"role": role.String()}, dto.RolePermissions{Permissions: permissions}, nil)
}
