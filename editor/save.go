package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carewell-hms/permadmin/models"
)

// Saver writes one role's assignments to the server.
type Saver interface {
	SetRoleGroups(ctx context.Context, role models.Role, groups []string) error
	SetRolePermissions(ctx context.Context, role models.Role, permissions []string) error
}

// RoleResult is the outcome of saving one role.
type RoleResult struct {
	Role           models.Role
	Groups         []string
	Permissions    []string
	GroupsSent     bool
	// GroupsUnsaved is set when the group list changed but was emptied, so
	// no request could carry the change.
	GroupsUnsaved  bool
	GroupsErr      error
	PermissionsErr error
}

// OK reports whether every request sent for the role succeeded.
func (r RoleResult) OK() bool { return r.GroupsErr == nil && r.PermissionsErr == nil }

// SaveReport collects per-role outcomes in fixed role order.
type SaveReport struct {
	Results []RoleResult
}

// Failed lists the roles with at least one failed request.
func (r *SaveReport) Failed() []models.Role {
	var out []models.Role
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res.Role)
		}
	}
	return out
}

// Unsaved lists the roles whose group changes could not be sent.
func (r *SaveReport) Unsaved() []models.Role {
	var out []models.Role
	for _, res := range r.Results {
		if res.GroupsUnsaved {
			out = append(out, res.Role)
		}
	}
	return out
}

// Err joins every per-role failure, or returns nil when all succeeded.
func (r *SaveReport) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.GroupsErr != nil {
			errs = append(errs, fmt.Errorf("%s groups: %w", res.Role, res.GroupsErr))
		}
		if res.PermissionsErr != nil {
			errs = append(errs, fmt.Errorf("%s permissions: %w", res.Role, res.PermissionsErr))
		}
	}
	return errors.Join(errs...)
}

// Entries renders one journal entry per request sent.
func (r *SaveReport) Entries() []models.JournalEntry {
	var out []models.JournalEntry
	for _, res := range r.Results {
		if res.GroupsSent {
			out = append(out, models.NewJournalEntry(models.OpSaveRoleGroups, res.Role.String(), encodeItems(res.Groups), res.GroupsErr))
		}
		out = append(out, models.NewJournalEntry(models.OpSaveRolePermissions, res.Role.String(), encodeItems(res.Permissions), res.PermissionsErr))
	}
	return out
}

func encodeItems(items []string) string {
	b, err := json.Marshal(items)
	if err != nil {
		return ""
	}
	return string(b)
}

// Save writes every fixed role in order. A role's group list is sent only
// when it is non-empty; its permission list is always sent. A failing role
// does not stop later ones. Each list becomes clean once its request succeeds;
// an emptied group list stays dirty because nothing was sent for it.
// The returned error is non-nil only when ctx ends before every role was
// attempted; the report then covers the roles attempted so far.
func (s *Session) Save(ctx context.Context, saver Saver) (*SaveReport, error) {
	report := &SaveReport{}
	for _, role := range models.AllRoles() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		res := RoleResult{
			Role:        role,
			Groups:      s.groups.Get(role),
			Permissions: s.perms.Get(role),
		}
		if len(res.Groups) > 0 {
			res.GroupsSent = true
			res.GroupsErr = saver.SetRoleGroups(ctx, role, res.Groups)
			if res.GroupsErr == nil {
				delete(s.dirty[ModeGroups], role)
			}
		} else {
			res.GroupsUnsaved = s.dirty[ModeGroups][role]
		}
		res.PermissionsErr = saver.SetRolePermissions(ctx, role, res.Permissions)
		if res.PermissionsErr == nil {
			delete(s.dirty[ModePermissions], role)
		}
		report.Results = append(report.Results, res)
	}
	return report, nil
}
