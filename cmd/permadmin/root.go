package main

import (
	"fmt"
	"io"

	"github.com/carewell-hms/permadmin/config"
	"github.com/spf13/cobra"
)

// execute runs one invocation and releases whatever it opened.
func execute(cfg *config.AppConfig, args []string, out, errOut io.Writer) error {
	root, cleanup := newRootCmd(cfg)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.Execute()
	if cerr := cleanup(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(errOut, "Error:", err)
	}
	return err
}

func newRootCmd(cfg *config.AppConfig) (*cobra.Command, func() error) {
	var logLevel string
	var a *app

	root := &cobra.Command{
		Use:   "permadmin",
		Short: "Manage hospital role permissions from the command line",
		Long: `permadmin edits which permission groups and individual permissions each
hospital role holds, issues temporary grants to single users, and keeps an
optional local journal of every change it sends.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			a = newApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	get := func() *app { return a }
	root.AddCommand(
		newRolesCmd(get),
		newGroupsCmd(get),
		newCatalogCmd(get),
		newGrantCmd(get),
		newOverrideCmd(get),
		newLoginCmd(get),
		newLogoutCmd(get),
		newJournalCmd(get),
		newMigrateCmd(get),
		newVersionCmd(),
	)
	cleanup := func() error {
		if a == nil {
			return nil
		}
		return a.close()
	}
	return root, cleanup
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "permadmin %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
