package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/carewell-hms/permadmin/dto"
	"github.com/carewell-hms/permadmin/filter"
	"github.com/carewell-hms/permadmin/models"
	"github.com/carewell-hms/permadmin/permission"
	"github.com/spf13/cobra"
)

func newGroupsCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List, inspect, create, and delete permission groups",
	}
	cmd.AddCommand(newGroupsListCmd(get), newGroupsShowCmd(get), newGroupsCreateCmd(get), newGroupsDeleteCmd(get))
	return cmd
}

func groupField(g models.PermissionGroup, field string) (string, bool) {
	switch field {
	case "name":
		return g.Name, true
	case "description":
		return g.Description, true
	case "permissions":
		return strings.Join(g.Permissions, " "), true
	case "roles":
		return strings.Join(g.Roles, " "), true
	}
	return "", false
}

func newGroupsListCmd(get func() *app) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List permission groups with their member roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			snap, err := a.loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			warnFailures(a, snap)
			groups := filter.Apply(snap.Groups, filter.Query{
				Term:         search,
				SearchFields: []string{"name", "description", "permissions"},
			}, groupField)

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPERMISSIONS\tROLES\tDESCRIPTION")
			for _, g := range groups {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", g.Name, len(g.Permissions), strings.Join(g.Roles, ","), g.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only groups whose name, description, or permissions contain this text")
	return cmd
}

func newGroupsShowCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME",
		Short: "Print one group's detail record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			c, err := a.client()
			if err != nil {
				return err
			}
			g, err := c.Permissions.Group(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Name:        %s\n", g.Name)
			fmt.Fprintf(a.out, "Description: %s\n", g.Description)
			fmt.Fprintf(a.out, "Roles:       %s\n", strings.Join(g.Roles, ", "))
			fmt.Fprintln(a.out, "Permissions:")
			for _, p := range g.Permissions {
				fmt.Fprintf(a.out, "  %s\n", p)
			}
			return nil
		},
	}
}

func newGroupsCreateCmd(get func() *app) *cobra.Command {
	var (
		description string
		perms       []string
	)
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a permission group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.CreateGroupRequest{Name: strings.TrimSpace(args[0]), Description: description, Permissions: []string{}}
			if req.Name == "" {
				return fmt.Errorf("group name is required")
			}
			for _, raw := range perms {
				p, err := permission.Parse(raw)
				if err != nil {
					return err
				}
				req.Permissions = append(req.Permissions, p.String())
			}
			a := get()
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = c.Permissions.CreateGroup(ctx, req)
			a.record(ctx, models.NewJournalEntry(models.OpGroupCreate, req.Name, encodeJSON(req.Permissions), err))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created group %s with %d permissions\n", req.Name, len(req.Permissions))
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "Group description")
	cmd.Flags().StringSliceVar(&perms, "permission", nil, "Member permission (repeatable)")
	return cmd
}

func newGroupsDeleteCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a permission group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			c, err := a.client()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			err = c.Permissions.DeleteGroup(ctx, args[0])
			a.record(ctx, models.NewJournalEntry(models.OpGroupDelete, args[0], "", err))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "deleted group %s\n", args[0])
			return nil
		},
	}
}
