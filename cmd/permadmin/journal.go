package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/carewell-hms/permadmin/filter"
	"github.com/carewell-hms/permadmin/migrate"
	"github.com/carewell-hms/permadmin/models"
	"github.com/spf13/cobra"
)

var errJournalDisabled = errors.New("journal is disabled; set journal.driver (PERMADMIN_JOURNAL__DRIVER)")

func journalField(e models.JournalEntry, field string) (string, bool) {
	switch field {
	case "id":
		return e.ID, true
	case "operation", "op":
		return e.Operation, true
	case "target":
		return e.Target, true
	case "items":
		return e.Items, true
	case "status":
		return e.Status, true
	case "error":
		return e.Error, true
	}
	return "", false
}

func newJournalCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect the local record of changes sent to the API",
	}
	cmd.AddCommand(newJournalListCmd(get))
	return cmd
}

func newJournalListCmd(get func() *app) *cobra.Command {
	var (
		search  string
		filters []string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := filter.Query{
				Term:         search,
				Filters:      map[string]string{},
				SearchFields: []string{"operation", "target", "items", "error"},
				FilterFields: map[string]string{"op": "operation"},
			}
			for _, f := range filters {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid --filter %q, want key=value", f)
				}
				q.Filters[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}

			a := get()
			j, err := a.journalStore()
			if err != nil {
				return err
			}
			if j == nil {
				return errJournalDisabled
			}
			entries, err := j.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			entries = filter.Apply(entries, q, journalField)
			if limit > 0 && len(entries) > limit {
				entries = entries[:limit]
			}

			tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tOPERATION\tTARGET\tSTATUS\tITEMS")
			for _, e := range entries {
				status := e.Status
				if e.Error != "" {
					status += " (" + e.Error + ")"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.CreatedAt.Local().Format(time.DateTime), e.Operation, e.Target, status, e.Items)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only entries containing this text")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Exact match key=value on op, target, or status (repeatable)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum matching entries to print, 0 for all")
	return cmd
}

func newMigrateCmd(get func() *app) *cobra.Command {
	var target int64
	cmd := &cobra.Command{
		Use:       "migrate [up|down|status|version|up-to|down-to|redo|reset]",
		Short:     "Manage the journal schema",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down", "status", "version", "up-to", "down-to", "redo", "reset"},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := "up"
			if len(args) == 1 {
				command = args[0]
			}
			a := get()
			j, err := a.journalStore()
			if err != nil {
				return err
			}
			if j == nil {
				return errJournalDisabled
			}
			sqlDB, err := j.DB.DB()
			if err != nil {
				return err
			}
			if err := migrate.Run(migrate.Options{DB: sqlDB, Driver: j.Driver(), Command: command, Target: target, Logger: a.log}); err != nil {
				return err
			}
			v, err := migrate.CurrentVersion(sqlDB, j.Driver())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "journal schema version %d\n", v)
			return nil
		},
	}
	cmd.Flags().Int64Var(&target, "target", 0, "Target version for up-to and down-to")
	return cmd
}
