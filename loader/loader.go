// Package loader fetches the permission catalog and role assignments that a
// role assignment editing session starts from.
package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/carewell-hms/permadmin/models"
	"github.com/carewell-hms/permadmin/utils/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// DefaultConcurrency bounds the per-group and per-role fetch fan-out when no
// other limit is configured.
const DefaultConcurrency = 4

const snapshotKey = "snapshot"

var errEmptyGroup = errors.New("empty group record")

// Source is the read side of the permission API.
type Source interface {
	Catalog(ctx context.Context) ([]string, error)
	GroupNames(ctx context.Context) ([]string, error)
	Group(ctx context.Context, name string) (*models.PermissionGroup, error)
	RolePermissions(ctx context.Context, role models.Role) ([]string, error)
}

// Kind names the request category a Failure belongs to.
type Kind string

const (
	KindCatalog         Kind = "catalog"
	KindGroupNames      Kind = "group_names"
	KindGroup           Kind = "group"
	KindRolePermissions Kind = "role_permissions"
)

// Failure is one request that failed while the rest of the load went on.
type Failure struct {
	Kind Kind
	Key  string
	Err  error
}

func (f Failure) Error() string {
	if f.Key == "" {
		return fmt.Sprintf("load %s: %v", f.Kind, f.Err)
	}
	return fmt.Sprintf("load %s %q: %v", f.Kind, f.Key, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Loader assembles snapshots from a Source.
type Loader struct {
	src         Source
	log         *logger.Logger
	concurrency int
	flight      singleflight.Group
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for partial failures and skipped roles.
func WithLogger(log *logger.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// WithConcurrency bounds how many group and role requests run at once.
// Values below one fall back to DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(l *Loader) { l.concurrency = n }
}

// New returns a Loader reading from src.
func New(src Source, opts ...Option) *Loader {
	l := &Loader{src: src, log: logger.Discard(), concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(l)
	}
	if l.concurrency < 1 {
		l.concurrency = DefaultConcurrency
	}
	if l.log == nil {
		l.log = logger.Discard()
	}
	return l
}

// Load fetches a fresh snapshot. Concurrent callers share one in-flight load
// and each receives its own copy of the result. The shared load does not end
// when the caller that started it gives up; each caller only stops waiting
// once its own ctx is done. Individual request failures are recorded in
// Snapshot.Failures.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	shared := context.WithoutCancel(ctx)
	ch := l.flight.DoChan(snapshotKey, func() (interface{}, error) {
		return l.load(shared)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot).Clone(), nil
	}
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	roles := models.AllRoles()
	var (
		catalog    []string
		names      []string
		catalogErr error
		namesErr   error
		rolePerms  = make([][]string, len(roles))
		roleErrs   = make([]error, len(roles))
	)

	// Catalog, group names, and per-role permissions are independent.
	g := new(errgroup.Group)
	g.SetLimit(l.concurrency)
	g.Go(func() error {
		catalog, catalogErr = l.src.Catalog(ctx)
		return nil
	})
	g.Go(func() error {
		names, namesErr = l.src.GroupNames(ctx)
		return nil
	})
	for i, role := range roles {
		g.Go(func() error {
			rolePerms[i], roleErrs[i] = l.src.RolePermissions(ctx, role)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups := make([]*models.PermissionGroup, len(names))
	groupErrs := make([]error, len(names))
	g = new(errgroup.Group)
	g.SetLimit(l.concurrency)
	for i, name := range names {
		g.Go(func() error {
			groups[i], groupErrs[i] = l.src.Group(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Catalog:         nonNil(catalog),
		GroupNames:      nonNil(names),
		Groups:          make([]models.PermissionGroup, 0, len(names)),
		RoleGroups:      models.NewAssignments(),
		RolePermissions: models.NewAssignments(),
	}
	if catalogErr != nil {
		snap.fail(l.log, Failure{Kind: KindCatalog, Err: catalogErr})
	}
	if namesErr != nil {
		snap.fail(l.log, Failure{Kind: KindGroupNames, Err: namesErr})
	}

	for i, name := range names {
		if groupErrs[i] != nil {
			snap.fail(l.log, Failure{Kind: KindGroup, Key: name, Err: groupErrs[i]})
			continue
		}
		if groups[i] == nil {
			snap.fail(l.log, Failure{Kind: KindGroup, Key: name, Err: errEmptyGroup})
			continue
		}
		grp := *groups[i]
		snap.Groups = append(snap.Groups, grp)
		for _, raw := range grp.Roles {
			role, ok := models.ParseRole(raw)
			if !ok {
				l.log.Warn("group %q lists unknown role %q, skipping", name, raw)
				continue
			}
			snap.RoleGroups.Add(role, name)
		}
	}

	for i, role := range roles {
		if roleErrs[i] != nil {
			snap.fail(l.log, Failure{Kind: KindRolePermissions, Key: role.String(), Err: roleErrs[i]})
			continue
		}
		for _, p := range rolePerms[i] {
			snap.RolePermissions.Add(role, p)
		}
	}

	l.log.Debug("loaded %d permissions, %d groups, %d failures", len(snap.Catalog), len(snap.Groups), len(snap.Failures))
	return snap, nil
}

func (s *Snapshot) fail(log *logger.Logger, f Failure) {
	s.Failures = append(s.Failures, f)
	_ = log.Error("partial load failure", f)
}

// Err joins every recorded failure, or returns nil for a complete snapshot.
func (s *Snapshot) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(s.Failures))
	for i, f := range s.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
