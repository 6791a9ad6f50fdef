// Package editor holds the state of one role assignment editing session: two
// independent role maps, a view mode selecting which one commands address,
// a pending drag payload, and the role context menu.
package editor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/carewell-hms/permadmin/loader"
	"github.com/carewell-hms/permadmin/models"
)

// ViewMode selects which role map editing commands address.
type ViewMode string

const (
	ModeGroups      ViewMode = "groups"
	ModePermissions ViewMode = "permissions"
)

// ParseViewMode accepts "groups" or "permissions", case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeGroups:
		return ModeGroups, nil
	case ModePermissions:
		return ModePermissions, nil
	}
	return "", fmt.Errorf("unknown view mode %q (want groups or permissions)", s)
}

// State is the drag state of a session.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Menu is an open role context menu for one item.
type Menu struct {
	Item  string
	Roles []models.Role
}

// Session is a single editing session. It is not safe for concurrent use.
type Session struct {
	mode     ViewMode
	groups   models.RoleGroupMap
	perms    models.RolePermissionMap
	names    []string
	catalog  []string
	payload  string
	dragging bool
	menu     *Menu
	dirty    map[ViewMode]map[models.Role]bool
}

// New starts a session in groups mode over copies of the two maps.
func New(roleGroups models.RoleGroupMap, rolePermissions models.RolePermissionMap) *Session {
	if roleGroups == nil {
		roleGroups = models.NewAssignments()
	}
	if rolePermissions == nil {
		rolePermissions = models.NewAssignments()
	}
	return &Session{
		mode:   ModeGroups,
		groups: roleGroups.Clone(),
		perms:  rolePermissions.Clone(),
		dirty: map[ViewMode]map[models.Role]bool{
			ModeGroups:      {},
			ModePermissions: {},
		},
	}
}

// FromSnapshot starts a session over a loaded snapshot. The snapshot's group
// names and catalog become the available items of each mode.
func FromSnapshot(snap *loader.Snapshot) *Session {
	s := New(snap.RoleGroups, snap.RolePermissions)
	s.names = slices.Clone(snap.GroupNames)
	s.catalog = slices.Clone(snap.Catalog)
	return s
}

func (s *Session) Mode() ViewMode { return s.mode }

// SetMode switches which map later commands address. Data is never moved
// between the maps.
func (s *Session) SetMode(m ViewMode) error {
	if m != ModeGroups && m != ModePermissions {
		return fmt.Errorf("unknown view mode %q", m)
	}
	s.mode = m
	return nil
}

func (s *Session) current() models.Assignments {
	if s.mode == ModePermissions {
		return s.perms
	}
	return s.groups
}

// Available lists the items that can be assigned in the current mode.
func (s *Session) Available() []string {
	if s.mode == ModePermissions {
		return slices.Clone(s.catalog)
	}
	return slices.Clone(s.names)
}

// Items returns role's list in the current mode.
func (s *Session) Items(role models.Role) []string {
	return s.current().Get(role)
}

// RoleGroups returns a copy of the group assignments.
func (s *Session) RoleGroups() models.RoleGroupMap { return s.groups.Clone() }

// RolePermissions returns a copy of the direct permission assignments.
func (s *Session) RolePermissions() models.RolePermissionMap { return s.perms.Clone() }

// Assign appends item to role's list in the current mode unless it is
// already there. Both drop and context menu selection end up here.
func (s *Session) Assign(item string, role models.Role) bool {
	if item == "" || !role.Valid() {
		return false
	}
	if !s.current().Add(role, item) {
		return false
	}
	s.dirty[s.mode][role] = true
	return true
}

// Remove filters item out of role's list in the current mode.
func (s *Session) Remove(role models.Role, item string) bool {
	if !s.current().Remove(role, item) {
		return false
	}
	s.dirty[s.mode][role] = true
	return true
}

// State reports whether a drag is in progress.
func (s *Session) State() State {
	if s.dragging {
		return Dragging
	}
	return Idle
}

// Payload returns the pending drag item.
func (s *Session) Payload() (string, bool) { return s.payload, s.dragging }

// DragStart records item as the drag payload. Nothing is assigned yet.
func (s *Session) DragStart(item string) {
	s.payload = item
	s.dragging = item != ""
}

// Drop assigns the payload to role and returns to idle, whether or not the
// assignment changed anything. Dropping with no payload is a no-op.
func (s *Session) Drop(role models.Role) bool {
	if !s.dragging {
		return false
	}
	item := s.payload
	s.CancelDrag()
	return s.Assign(item, role)
}

// CancelDrag clears the payload without assigning it.
func (s *Session) CancelDrag() {
	s.payload = ""
	s.dragging = false
}

// OpenContextMenu opens the role menu for item, replacing any open menu.
func (s *Session) OpenContextMenu(item string) Menu {
	s.menu = &Menu{Item: item, Roles: models.AllRoles()}
	return *s.menu
}

// ContextMenu returns the open menu, if any.
func (s *Session) ContextMenu() (Menu, bool) {
	if s.menu == nil {
		return Menu{}, false
	}
	return *s.menu, true
}

// SelectRole assigns the menu's item to role and closes the menu.
func (s *Session) SelectRole(role models.Role) bool {
	if s.menu == nil {
		return false
	}
	item := s.menu.Item
	s.menu = nil
	return s.Assign(item, role)
}

// DismissMenu closes the menu without assigning.
func (s *Session) DismissMenu() { s.menu = nil }

// IsDirty reports whether either of role's lists holds changes the server
// has not accepted yet.
func (s *Session) IsDirty(role models.Role) bool {
	return s.dirty[ModeGroups][role] || s.dirty[ModePermissions][role]
}

// IsDirtyIn reports whether role's list in mode holds unsaved changes.
func (s *Session) IsDirtyIn(mode ViewMode, role models.Role) bool { return s.dirty[mode][role] }

// Dirty lists the dirty roles in fixed role order.
func (s *Session) Dirty() []models.Role {
	var out []models.Role
	for _, r := range models.AllRoles() {
		if s.IsDirty(r) {
			out = append(out, r)
		}
	}
	return out
}
