package client

import (
	"context"
	"net/http"

	"github.com/carewell-hms/permadmin/dto"
)

// UsersService covers the per-user permission endpoints.
type UsersService struct {
	client *Client
}

// OverridePermissions posts a flattened "module.action" -> granted map for one user.
func (s *UsersService) OverridePermissions(ctx context.Context, userID string, overrides dto.OverrideRequest) error {
	if overrides == nil {
		overrides = dto.OverrideRequest{}
	}
	return s.client.do(ctx, http.MethodPost, "/api/users/{id}/permissions/override",
		map[string]string{"id": userID}, overrides, nil)
}

// GrantTemporaryRole issues a time-boxed grant to one user.
func (s *UsersService) GrantTemporaryRole(ctx context.Context, userID string, req dto.TemporaryGrantRequest) error {
	return s.client.do(ctx, http.MethodPost, "/api/users/{id}/permissions/temporary",
		map[string]string{"id": userID}, req, nil)
}
