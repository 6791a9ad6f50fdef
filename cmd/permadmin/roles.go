package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/carewell-hms/permadmin/editor"
	"github.com/carewell-hms/permadmin/loader"
	"github.com/carewell-hms/permadmin/models"
	"github.com/carewell-hms/permadmin/permission"
	"github.com/spf13/cobra"
)

func newRolesCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Show and edit role assignments",
	}
	cmd.AddCommand(newRolesShowCmd(get), newRolesEditCmd(get, "assign"), newRolesEditCmd(get, "remove"))
	return cmd
}

func newRolesShowCmd(get func() *app) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "show [ROLE...]",
		Short: "Print each role's groups or direct permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := editor.ParseViewMode(mode)
			if err != nil {
				return err
			}
			roles, err := parseRoles(args)
			if err != nil {
				return err
			}
			a := get()
			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			warnFailures(a, snap)
			s := editor.FromSnapshot(snap)
			_ = s.SetMode(vm)
			printRoles(a.out, s, roles)
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(editor.ModeGroups), "View mode: groups or permissions")
	return cmd
}

func newRolesEditCmd(get func() *app, verb string) *cobra.Command {
	var (
		mode  string
		force bool
	)
	short := "Assign items to a role and save"
	if verb == "remove" {
		short = "Remove items from a role and save"
	}
	cmd := &cobra.Command{
		Use:   verb + " ROLE ITEM...",
		Short: short,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm, err := editor.ParseViewMode(mode)
			if err != nil {
				return err
			}
			role, ok := models.ParseRole(args[0])
			if !ok {
				return fmt.Errorf("unknown role %q", args[0])
			}
			a := get()
			ctx := cmd.Context()
			snap, err := a.loadSnapshot(ctx)
			if err != nil {
				return err
			}
			// Saving rewrites every role, so a role that failed to load would be cleared.
			if len(snap.Failures) > 0 && !force {
				warnFailures(a, snap)
				return errors.New("refusing to save over a partial load; rerun with --force to save anyway")
			}

			s := editor.FromSnapshot(snap)
			_ = s.SetMode(vm)
			available := s.Available()
			for _, item := range args[1:] {
				if vm == editor.ModePermissions {
					p, err := permission.Parse(item)
					if err != nil {
						return err
					}
					item = p.String()
				}
				var changed bool
				if verb == "assign" {
					if !slices.Contains(available, item) {
						a.log.Warn("%q is not listed by the server", item)
					}
					changed = s.Assign(item, role)
				} else {
					changed = s.Remove(role, item)
				}
				if !changed {
					fmt.Fprintf(a.out, "%s: %s unchanged (%s)\n", role, item, vm)
				}
			}
			if !s.IsDirty(role) {
				fmt.Fprintln(a.out, "nothing to save")
				return nil
			}

			c, err := a.client()
			if err != nil {
				return err
			}
			report, err := s.Save(ctx, c.Permissions)
			a.record(ctx, report.Entries()...)
			printReport(a.out, report)
			if err != nil {
				return err
			}
			if err := report.Err(); err != nil {
				return err
			}
			if unsaved := report.Unsaved(); len(unsaved) > 0 {
				for _, r := range unsaved {
					a.log.Warn("%s: removing the last group cannot be saved; the server still holds the previous groups", r)
				}
				return fmt.Errorf("group changes not saved for %v", unsaved)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(editor.ModeGroups), "View mode: groups or permissions")
	cmd.Flags().BoolVar(&force, "force", false, "Save even if part of the current state failed to load")
	return cmd
}

func parseRoles(args []string) ([]models.Role, error) {
	if len(args) == 0 {
		return models.AllRoles(), nil
	}
	out := make([]models.Role, 0, len(args))
	for _, arg := range args {
		r, ok := models.ParseRole(arg)
		if !ok {
			return nil, fmt.Errorf("unknown role %q", arg)
		}
		out = append(out, r)
	}
	return out, nil
}

func warnFailures(a *app, snap *loader.Snapshot) {
	for _, f := range snap.Failures {
		a.log.Warn("%v", f)
	}
}

func printRoles(w io.Writer, s *editor.Session, roles []models.Role) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ROLE\t%s\n", strings.ToUpper(string(s.Mode())))
	for _, r := range roles {
		items := s.Items(r)
		if len(items) == 0 {
			fmt.Fprintf(tw, "%s\t-\n", r)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", r, strings.Join(items, ", "))
	}
	_ = tw.Flush()
}

func printReport(w io.Writer, report *editor.SaveReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tGROUPS\tPERMISSIONS")
	for _, res := range report.Results {
		groups := "skipped"
		switch {
		case res.GroupsSent:
			groups = outcome(res.GroupsErr)
		case res.GroupsUnsaved:
			groups = "not saved (empty list)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", res.Role, groups, outcome(res.PermissionsErr))
	}
	_ = tw.Flush()
}

func outcome(err error) string {
	if err != nil {
		return "failed: " + err.Error()
	}
	return "ok"
}
