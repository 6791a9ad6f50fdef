package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newLoginCmd(get func() *app) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the bearer token sent with every request",
		Long:  "login stores a bearer token issued by the hospital API. The token may also be given in PERMADMIN_TOKEN.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				token = os.Getenv("PERMADMIN_TOKEN")
			}
			if strings.TrimSpace(token) == "" {
				return errors.New("--token is required")
			}
			a := get()
			ts, err := a.tokenStore()
			if err != nil {
				return err
			}
			if err := ts.SaveToken(token); err != nil {
				return err
			}
			tok, err := ts.Token()
			if err != nil {
				return err
			}
			if !tok.Expiry.IsZero() {
				if time.Now().After(tok.Expiry) {
					a.log.Warn("stored token already expired at %s", tok.Expiry.Format(time.RFC3339))
				}
				fmt.Fprintf(a.out, "token stored, expires %s\n", tok.Expiry.Format(time.RFC3339))
				return nil
			}
			fmt.Fprintln(a.out, "token stored")
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	return cmd
}

func newLogoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := get()
			ts, err := a.tokenStore()
			if err != nil {
				return err
			}
			if err := ts.ClearToken(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "token removed")
			return nil
		},
	}
}
