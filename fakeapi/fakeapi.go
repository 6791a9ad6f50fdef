// Package fakeapi is an in-memory stand-in for the hospital permission API,
// used by tests. It stores whatever it is told, records every request, and can
// be told to fail specific routes. It performs no authorization.
package fakeapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"

	"github.com/carewell-hms/permadmin/dto"
	"github.com/gin-gonic/gin"
)

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Body          string
	Authorization string
	RequestID     string
}

// Grant is one recorded temporary grant.
type Grant struct {
	UserID string
	dto.TemporaryGrantRequest
}

// API holds the fake server state.
type API struct {
	mu         sync.Mutex
	catalog    []string
	groupOrder []string
	groups     map[string]*dto.GroupResponse
	rolePerms  map[string][]string
	overrides  map[string]dto.OverrideRequest
	grants     []Grant
	requests   []Request
	failures   map[string]int
}

// New returns an empty fake.
func New() *API {
	return &API{
		groups:    make(map[string]*dto.GroupResponse),
		rolePerms: make(map[string][]string),
		overrides: make(map[string]dto.OverrideRequest),
		failures:  make(map[string]int),
	}
}

// SetCatalog replaces the permission catalog.
func (a *API) SetCatalog(perms ...string) *API {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.catalog = slices.Clone(perms)
	return a
}

// AddGroup registers or replaces a group. Listing order is insertion order.
func (a *API) AddGroup(g dto.GroupResponse) *API {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.groups[g.Name]; !ok {
		a.groupOrder = append(a.groupOrder, g.Name)
	}
	cp := g
	cp.Permissions = nonNil(g.Permissions)
	cp.Roles = nonNil(g.Roles)
	a.groups[g.Name] = &cp
	return a
}

// SetRolePermissions replaces a role's direct permissions.
func (a *API) SetRolePermissions(role string, perms ...string) *API {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rolePerms[role] = slices.Clone(perms)
	return a
}

// FailOn makes every request matching method and path answer with status.
// The path is the decoded URL path, e.g. "/api/permissions/role/DOCTOR".
func (a *API) FailOn(method, path string, status int) *API {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures[method+" "+path] = status
	return a
}

// ClearFailures removes every injected failure.
func (a *API) ClearFailures() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failures = make(map[string]int)
}

// Requests returns a copy of every recorded request in arrival order.
func (a *API) Requests() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.requests)
}

// RequestsTo returns recorded requests matching method and path.
func (a *API) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range a.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Group returns the stored group, if any.
func (a *API) Group(name string) (dto.GroupResponse, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g, ok := a.groups[name]
	if !ok {
		return dto.GroupResponse{}, false
	}
	cp := *g
	cp.Roles = slices.Clone(g.Roles)
	cp.Permissions = slices.Clone(g.Permissions)
	return cp, true
}

// RolePermissions returns the stored direct permissions of a role.
func (a *API) RolePermissions(role string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.rolePerms[role])
}

// Overrides returns the last override map posted for a user.
func (a *API) Overrides(userID string) dto.OverrideRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.overrides[userID]
}

// Grants returns every recorded temporary grant.
func (a *API) Grants() []Grant {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.grants)
}

// Start serves the fake on a local httptest server.
func (a *API) Start() *httptest.Server {
	return httptest.NewServer(a.Engine())
}

// Engine builds the gin router for the fake.
func (a *API) Engine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(a.recordMiddleware(), a.failureMiddleware())

	api := r.Group("/api")
	api.GET("/permissions/all", a.handleCatalog)
	api.GET("/permissions/groups", a.handleListGroups)
	api.POST("/permissions/groups", a.handleCreateGroup)
	api.GET("/permissions/groups/:name", a.handleGetGroup)
	api.DELETE("/permissions/groups/:name", a.handleDeleteGroup)
	api.GET("/permissions/role/:role", a.handleGetRolePermissions)
	api.PUT("/permissions/role/:role", a.handlePutRolePermissions)
	api.PUT("/permissions/role/:role/groups", a.handlePutRoleGroups)
	api.POST("/users/:id/permissions/override", a.handleOverride)
	api.POST("/users/:id/permissions/temporary", a.handleTemporaryGrant)
	return r
}

func (a *API) recordMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
		}
		a.mu.Lock()
		a.requests = append(a.requests, Request{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Body:          string(body),
			Authorization: c.GetHeader("Authorization"),
			RequestID:     c.GetHeader("X-Request-ID"),
		})
		a.mu.Unlock()
		c.Next()
	}
}

func (a *API) failureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		a.mu.Lock()
		status, ok := a.failures[c.Request.Method+" "+c.Request.URL.Path]
		a.mu.Unlock()
		if ok {
			c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: "injected_failure", Message: http.StatusText(status)})
			return
		}
		c.Next()
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return slices.Clone(s)
}
