package fakeapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/carewell-hms/permadmin/dto"
	"github.com/gin-gonic/gin"
)

func (a *API) handleCatalog(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c.JSON(http.StatusOK, dto.CatalogResponse{Permissions: nonNil(a.catalog)})
}

func (a *API) handleListGroups(c *gin.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	c.JSON(http.StatusOK, nonNil(a.groupOrder))
}

func (a *API) handleGetGroup(c *gin.Context) {
	name := c.Param("name")
	a.mu.Lock()
	defer a.mu.Unlock()
	g, ok := a.groups[name]
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: "group " + name})
		return
	}
	c.JSON(http.StatusOK, g)
}

func (a *API) handleCreateGroup(c *gin.Context) {
	var body dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.groups[body.Name]; exists {
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "conflict", Message: "group exists"})
		return
	}
	a.groupOrder = append(a.groupOrder, body.Name)
	a.groups[body.Name] = &dto.GroupResponse{
		Name:        body.Name,
		Description: body.Description,
		Permissions: nonNil(body.Permissions),
		Roles:       []string{},
	}
	c.JSON(http.StatusCreated, a.groups[body.Name])
}

func (a *API) handleDeleteGroup(c *gin.Context) {
	name := c.Param("name")
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.groups[name]; !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "not_found"})
		return
	}
	delete(a.groups, name)
	a.groupOrder = slices.DeleteFunc(a.groupOrder, func(n string) bool { return n == name })
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (a *API) handleGetRolePermissions(c *gin.Context) {
	role := c.Param("role")
	a.mu.Lock()
	defer a.mu.Unlock()
	c.JSON(http.StatusOK, dto.RolePermissions{Permissions: nonNil(a.rolePerms[role])})
}

func (a *API) handlePutRolePermissions(c *gin.Context) {
	var body dto.RolePermissions
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rolePerms[c.Param("role")] = nonNil(body.Permissions)
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// handlePutRoleGroups makes the posted list the role's exact group membership.
func (a *API) handlePutRoleGroups(c *gin.Context) {
	var body dto.RoleGroups
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request"})
		return
	}
	role := c.Param("role")
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, name := range body.Groups {
		if _, ok := a.groups[name]; !ok {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown_group", Message: name})
			return
		}
	}
	for name, g := range a.groups {
		has := slices.Contains(g.Roles, role)
		want := slices.Contains(body.Groups, name)
		switch {
		case want && !has:
			g.Roles = append(g.Roles, role)
		case !want && has:
			g.Roles = slices.DeleteFunc(g.Roles, func(r string) bool { return r == role })
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (a *API) handleOverride(c *gin.Context) {
	var body dto.OverrideRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.overrides[c.Param("id")] = body
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (a *API) handleTemporaryGrant(c *gin.Context) {
	var body dto.TemporaryGrantRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request"})
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.grants = append(a.grants, Grant{UserID: c.Param("id"), TemporaryGrantRequest: body})
	c.JSON(http.StatusCreated, gin.H{"message": "ok"})
}
