// Package grant composes and submits temporary, reason-logged grants of a
// permission group or a single permission to one user.
package grant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carewell-hms/permadmin/dto"
	"github.com/carewell-hms/permadmin/models"
	"github.com/carewell-hms/permadmin/utils/logger"
)

var (
	ErrClosed  = errors.New("grant: composer is closed")
	ErrNoUser  = errors.New("grant: target user id is required")
	ErrInvalid = errors.New("grant: form is incomplete")
)

// Granter posts a temporary grant for one user.
type Granter interface {
	GrantTemporaryRole(ctx context.Context, userID string, req dto.TemporaryGrantRequest) error
}

// Composer is the temporary grant form for one target user.
type Composer struct {
	userID     string
	mode       models.GrantMode
	group      string
	permission string
	hours      int
	reason     string
	open       bool
	onSuccess  func(models.TemporaryGrant)
	log        *logger.Logger
}

// Option configures a Composer.
type Option func(*Composer)

// WithOnSuccess registers a callback run after a successful submit.
func WithOnSuccess(fn func(models.TemporaryGrant)) Option {
	return func(c *Composer) { c.onSuccess = fn }
}

func WithLogger(log *logger.Logger) Option {
	return func(c *Composer) { c.log = log }
}

// New opens a composer for userID in group mode.
func New(userID string, opts ...Option) *Composer {
	c := &Composer{userID: strings.TrimSpace(userID), mode: models.GrantModeGroup, open: true}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Discard()
	}
	return c
}

func (c *Composer) Mode() models.GrantMode { return c.mode }

// SetMode switches between group and individual mode, clearing the
// selection of the mode being left.
func (c *Composer) SetMode(m models.GrantMode) error {
	if !m.Valid() {
		return fmt.Errorf("grant: unknown mode %q", m)
	}
	if m == c.mode {
		return nil
	}
	c.mode = m
	if m == models.GrantModeGroup {
		c.permission = ""
	} else {
		c.group = ""
	}
	return nil
}

// SelectGroup sets the group to grant. It only applies in group mode.
func (c *Composer) SelectGroup(name string) error {
	if c.mode != models.GrantModeGroup {
		return fmt.Errorf("grant: group selection requires %s mode", models.GrantModeGroup)
	}
	c.group = strings.TrimSpace(name)
	return nil
}

// SelectPermission sets the permission to grant. It only applies in individual mode.
func (c *Composer) SelectPermission(p string) error {
	if c.mode != models.GrantModeIndividual {
		return fmt.Errorf("grant: permission selection requires %s mode", models.GrantModeIndividual)
	}
	c.permission = strings.TrimSpace(p)
	return nil
}

// SetExpiresInHours sets the expiry. Zero clears it; anything else must lie
// within MinGrantHours..MaxGrantHours.
func (c *Composer) SetExpiresInHours(h int) error {
	if h != 0 && (h < models.MinGrantHours || h > models.MaxGrantHours) {
		return fmt.Errorf("grant: expiry must be between %d and %d hours, got %d", models.MinGrantHours, models.MaxGrantHours, h)
	}
	c.hours = h
	return nil
}

func (c *Composer) SetReason(r string) { c.reason = r }

// IsValid reports whether every field the active mode requires is present.
func (c *Composer) IsValid() bool {
	if strings.TrimSpace(c.reason) == "" || c.hours == 0 {
		return false
	}
	if c.mode == models.GrantModeGroup {
		return c.group != ""
	}
	return c.permission != ""
}

func (c *Composer) IsOpen() bool { return c.open }

// Close discards the form.
func (c *Composer) Close() { c.open = false }

// Grant returns the form as a model value.
func (c *Composer) Grant() models.TemporaryGrant {
	return models.TemporaryGrant{
		TargetUserID:    c.userID,
		PermissionGroup: c.group,
		Permission:      c.permission,
		ExpiresInHours:  c.hours,
		Reason:          strings.TrimSpace(c.reason),
	}
}

// Payload builds and validates the request body.
func (c *Composer) Payload() (dto.TemporaryGrantRequest, error) {
	g := c.Grant()
	req := dto.TemporaryGrantRequest{
		PermissionGroup: g.PermissionGroup,
		Permission:      g.Permission,
		ExpiresInHours:  g.ExpiresInHours,
		Reason:          g.Reason,
	}
	if !c.IsValid() {
		return req, ErrInvalid
	}
	if err := Validate(req); err != nil {
		return req, err
	}
	return req, nil
}

// Submit posts the grant. On success the callback runs and the composer
// closes; on failure the error is logged and returned and the form stays open
// with its state intact.
func (c *Composer) Submit(ctx context.Context, granter Granter) error {
	if !c.open {
		return ErrClosed
	}
	if c.userID == "" {
		return ErrNoUser
	}
	req, err := c.Payload()
	if err != nil {
		return err
	}
	if err := granter.GrantTemporaryRole(ctx, c.userID, req); err != nil {
		return c.log.Error("temporary grant for user %s failed", err, c.userID)
	}
	c.log.Info("temporary grant issued user=%s hours=%d", c.userID, req.ExpiresInHours)
	if c.onSuccess != nil {
		c.onSuccess(c.Grant())
	}
	c.Close()
	return nil
}
