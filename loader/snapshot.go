package loader

import (
	"slices"

	"github.com/carewell-hms/permadmin/models"
)

// Snapshot is one consistent view of the permission data. Groups and
// GroupNames follow the server's listing order; a group whose detail request
// failed appears in GroupNames but not in Groups.
type Snapshot struct {
	Catalog         []string
	GroupNames      []string
	Groups          []models.PermissionGroup
	RoleGroups      models.RoleGroupMap
	RolePermissions models.RolePermissionMap
	Failures        []Failure
}

// Group looks a loaded group up by name.
func (s *Snapshot) Group(name string) (models.PermissionGroup, bool) {
	for _, g := range s.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return models.PermissionGroup{}, false
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Catalog:         slices.Clone(s.Catalog),
		GroupNames:      slices.Clone(s.GroupNames),
		Groups:          make([]models.PermissionGroup, len(s.Groups)),
		RoleGroups:      s.RoleGroups.Clone(),
		RolePermissions: s.RolePermissions.Clone(),
		Failures:        slices.Clone(s.Failures),
	}
	for i, g := range s.Groups {
		g.Permissions = slices.Clone(g.Permissions)
		g.Roles = slices.Clone(g.Roles)
		out.Groups[i] = g
	}
	return out
}
