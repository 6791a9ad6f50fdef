package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/carewell-hms/permadmin/grant"
	"github.com/carewell-hms/permadmin/models"
	"github.com/carewell-hms/permadmin/permission"
	"github.com/spf13/cobra"
)

func newGrantCmd(get func() *app) *cobra.Command {
	var (
		group, perm, reason string
		hours               int
	)
	cmd := &cobra.Command{
		Use:   "grant USER_ID",
		Short: "Issue a temporary grant of a group or a single permission to one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (group == "") == (perm == "") {
				return errors.New("exactly one of --group and --permission is required")
			}
			a := get()
			c := grant.New(args[0], grant.WithLogger(a.log), grant.WithOnSuccess(func(g models.TemporaryGrant) {
				what := "group " + g.PermissionGroup
				if g.Permission != "" {
					what = "permission " + g.Permission
				}
				fmt.Fprintf(a.out, "granted %s to %s for %dh\n", what, g.TargetUserID, g.ExpiresInHours)
			}))
			if group != "" {
				_ = c.SelectGroup(group)
			} else {
				_ = c.SetMode(models.GrantModeIndividual)
				p, err := permission.Parse(perm)
				if err != nil {
					return err
				}
				_ = c.SelectPermission(p.String())
			}
			if err := c.SetExpiresInHours(hours); err != nil {
				return err
			}
			c.SetReason(reason)
			if !c.IsValid() {
				return errors.New("--hours and a non-empty --reason are required")
			}

			api, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			req, _ := c.Payload()
			err = c.Submit(ctx, api.Users)
			a.record(ctx, models.NewJournalEntry(models.OpTemporaryGrant, args[0], encodeJSON(req), err))
			return err
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Permission group to grant")
	cmd.Flags().StringVar(&perm, "permission", "", "Single permission to grant")
	cmd.Flags().IntVar(&hours, "hours", 0, fmt.Sprintf("Expiry in hours (%d-%d)", models.MinGrantHours, models.MaxGrantHours))
	cmd.Flags().StringVar(&reason, "reason", "", "Why the grant is needed")
	return cmd
}

func newOverrideCmd(get func() *app) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "override USER_ID",
		Short: "Set per-user permission overrides",
		Long: `override posts per-user grants and revocations, e.g.

  permadmin override u-17 --set patients.delete=false --set billing.refund=true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sets) == 0 {
				return errors.New("at least one --set module.action=true|false is required")
			}
			matrix := permission.Matrix{}
			for _, s := range sets {
				tok, val, ok := strings.Cut(s, "=")
				if !ok {
					return fmt.Errorf("invalid --set %q, want module.action=true|false", s)
				}
				p, err := permission.Parse(tok)
				if err != nil {
					return err
				}
				granted, err := parseBool(val)
				if err != nil {
					return fmt.Errorf("invalid --set %q: %w", s, err)
				}
				if matrix[p.Module] == nil {
					matrix[p.Module] = map[string]bool{}
				}
				matrix[p.Module][p.Action] = granted
			}
			flat, err := permission.Flatten(matrix)
			if err != nil {
				return err
			}

			a := get()
			api, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = api.Users.OverridePermissions(ctx, args[0], flat)
			a.record(ctx, models.NewJournalEntry(models.OpUserOverride, args[0], encodeJSON(flat), err))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "applied %d overrides to %s\n", len(flat), args[0])
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "module.action=true|false (repeatable)")
	return cmd
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on", "grant":
		return true, nil
	case "false", "0", "no", "off", "revoke":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
