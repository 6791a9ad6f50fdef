package loader

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/carewell-hms/permadmin/client"
	"github.com/carewell-hms/permadmin/dto"
	"github.com/carewell-hms/permadmin/fakeapi"
	"github.com/carewell-hms/permadmin/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apiSource(t *testing.T, api *fakeapi.API) Source {
	t.Helper()
	srv := api.Start()
	t.Cleanup(srv.Close)
	return client.NewClient(&client.Config{BaseURL: srv.URL, Timeout: 5 * time.Second}).Permissions
}

func TestLoadInvertsGroupRoles(t *testing.T) {
	api := fakeapi.New().
		SetCatalog("patients.read", "patients.delete").
		AddGroup(dto.GroupResponse{Name: "MEDICAL_STAFF", Permissions: []string{"patients.read"}, Roles: []string{"DOCTOR"}})

	snap, err := New(apiSource(t, api)).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, snap.Err())

	assert.Equal(t, []string{"patients.read", "patients.delete"}, snap.Catalog)
	assert.Equal(t, []string{"MEDICAL_STAFF"}, snap.RoleGroups[models.RoleDoctor])
	assert.NotNil(t, snap.RoleGroups[models.RoleNurse])
	assert.Empty(t, snap.RoleGroups[models.RoleNurse])
	for _, r := range models.AllRoles() {
		assert.NotNil(t, snap.RolePermissions[r], r)
	}
}

func TestLoadKeepsGroupOrderAndDirectPermissions(t *testing.T) {
	api := fakeapi.New().
		AddGroup(dto.GroupResponse{Name: "B_GROUP", Roles: []string{"NURSE", "doctor"}}).
		AddGroup(dto.GroupResponse{Name: "A_GROUP", Roles: []string{"DOCTOR", "JANITOR"}}).
		SetRolePermissions("NURSE", "patients.read", "vitals.write")

	snap, err := New(apiSource(t, api), WithConcurrency(1)).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, snap.Err())

	assert.Equal(t, []string{"B_GROUP", "A_GROUP"}, snap.RoleGroups[models.RoleDoctor])
	assert.Equal(t, []string{"B_GROUP"}, snap.RoleGroups[models.RoleNurse])
	assert.Equal(t, []string{"patients.read", "vitals.write"}, snap.RolePermissions[models.RoleNurse])
	g, ok := snap.Group("A_GROUP")
	require.True(t, ok)
	assert.Equal(t, []string{"DOCTOR", "JANITOR"}, g.Roles)
}

func TestLoadToleratesPartialFailures(t *testing.T) {
	api := fakeapi.New().
		SetCatalog("patients.read").
		AddGroup(dto.GroupResponse{Name: "BROKEN", Roles: []string{"ADMIN"}}).
		AddGroup(dto.GroupResponse{Name: "FINE", Roles: []string{"ADMIN"}}).
		SetRolePermissions("FINANCE", "billing.read").
		FailOn(http.MethodGet, "/api/permissions/groups/BROKEN", http.StatusInternalServerError).
		FailOn(http.MethodGet, "/api/permissions/role/NURSE", http.StatusForbidden)

	snap, err := New(apiSource(t, api)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Failures, 2)

	assert.Equal(t, KindGroup, snap.Failures[0].Kind)
	assert.Equal(t, "BROKEN", snap.Failures[0].Key)
	assert.Equal(t, http.StatusInternalServerError, client.StatusCode(snap.Failures[0].Err))
	assert.Equal(t, KindRolePermissions, snap.Failures[1].Kind)
	assert.Equal(t, "NURSE", snap.Failures[1].Key)
	assert.True(t, client.IsForbidden(snap.Failures[1].Err))
	assert.ErrorContains(t, snap.Err(), `load role_permissions "NURSE"`)

	assert.Equal(t, []string{"FINE"}, snap.RoleGroups[models.RoleAdmin])
	assert.Equal(t, []string{"BROKEN", "FINE"}, snap.GroupNames)
	assert.Equal(t, []string{"billing.read"}, snap.RolePermissions[models.RoleFinance])
	assert.Empty(t, snap.RolePermissions[models.RoleNurse])
}

func TestLoadRecordsCatalogAndListFailures(t *testing.T) {
	api := fakeapi.New().
		FailOn(http.MethodGet, "/api/permissions/all", http.StatusBadGateway).
		FailOn(http.MethodGet, "/api/permissions/groups", http.StatusBadGateway)

	snap, err := New(apiSource(t, api)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Failures, 2)
	assert.Equal(t, KindCatalog, snap.Failures[0].Kind)
	assert.Equal(t, KindGroupNames, snap.Failures[1].Kind)
	assert.Empty(t, snap.Catalog)
	assert.Empty(t, snap.Groups)
}

// countingSource blocks every call until release is closed.
type countingSource struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *countingSource) wait(ctx context.Context) error {
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *countingSource) Catalog(ctx context.Context) ([]string, error) {
	s.calls.Add(1)
	return []string{"patients.read"}, s.wait(ctx)
}

func (s *countingSource) GroupNames(ctx context.Context) ([]string, error) {
	return []string{}, s.wait(ctx)
}

func (s *countingSource) Group(ctx context.Context, name string) (*models.PermissionGroup, error) {
	return nil, errors.New("unexpected")
}

func (s *countingSource) RolePermissions(ctx context.Context, role models.Role) ([]string, error) {
	return []string{}, s.wait(ctx)
}

func TestLoadSharesInFlightRequest(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	l := New(src)

	var wg sync.WaitGroup
	results := make([]*Snapshot, 5)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := l.Load(context.Background())
			assert.NoError(t, err)
			results[i] = snap
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(src.release)
	wg.Wait()

	assert.Equal(t, int32(1), src.calls.Load())
	results[0].Catalog[0] = "mutated"
	assert.Equal(t, "patients.read", results[1].Catalog[0])
}

func TestLoadHonoursCancellation(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	defer close(src.release)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(src).Load(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFollowerOutlivesCancelledLeader(t *testing.T) {
	src := &countingSource{release: make(chan struct{})}
	l := New(src)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := l.Load(leaderCtx)
		leaderErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	type result struct {
		snap *Snapshot
		err  error
	}
	follower := make(chan result, 1)
	go func() {
		snap, err := l.Load(context.Background())
		follower <- result{snap, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelLeader()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(src.release)
	res := <-follower
	require.NoError(t, res.err)
	assert.Equal(t, []string{"patients.read"}, res.snap.Catalog)
	assert.Equal(t, int32(1), src.calls.Load())
}

// nilGroupSource answers every group lookup with neither a record nor an error.
type nilGroupSource struct{}

func (nilGroupSource) Catalog(ctx context.Context) ([]string, error) { return nil, nil }

func (nilGroupSource) GroupNames(ctx context.Context) ([]string, error) {
	return []string{"GHOST", "GHOST_TWO"}, nil
}

func (nilGroupSource) Group(ctx context.Context, name string) (*models.PermissionGroup, error) {
	return nil, nil
}

func (nilGroupSource) RolePermissions(ctx context.Context, role models.Role) ([]string, error) {
	return nil, nil
}

func TestLoadRecordsNilGroupAsFailure(t *testing.T) {
	snap, err := New(nilGroupSource{}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Failures, 2)
	assert.Equal(t, KindGroup, snap.Failures[0].Kind)
	assert.Equal(t, "GHOST", snap.Failures[0].Key)
	assert.Empty(t, snap.Groups)
	assert.Empty(t, snap.RoleGroups[models.RoleAdmin])
}
