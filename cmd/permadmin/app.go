package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/carewell-hms/permadmin/client"
	"github.com/carewell-hms/permadmin/config"
	"github.com/carewell-hms/permadmin/loader"
	"github.com/carewell-hms/permadmin/models"
	"github.com/carewell-hms/permadmin/store"
	"github.com/carewell-hms/permadmin/utils/logger"
)

// app holds the dependencies of one CLI invocation. Everything but the
// config and logger is opened on first use.
type app struct {
	cfg     *config.AppConfig
	log     *logger.Logger
	out     io.Writer
	tokens  store.TokenStore
	api     *client.Client
	journal *store.JournalStore
}

func newApp(cfg *config.AppConfig, out, errOut io.Writer) *app {
	log := logger.New("permadmin").WithOutput(errOut).WithLevel(logger.ParseLevel(cfg.Log.Level))
	return &app{cfg: cfg, log: log, out: out}
}

func (a *app) tokenStore() (store.TokenStore, error) {
	if a.tokens != nil {
		return a.tokens, nil
	}
	var (
		ts  store.TokenStore
		err error
	)
	switch strings.ToLower(a.cfg.Auth.Backend) {
	case "", "bunt":
		ts, err = store.NewBuntTokenStore(a.cfg.Auth.Path)
	case "valkey":
		ts, err = store.NewValkeyTokenStore(a.cfg.Auth.ValkeyAddr, a.cfg.Auth.Prefix)
	default:
		return nil, fmt.Errorf("unknown auth backend %q", a.cfg.Auth.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	a.tokens = ts
	return ts, nil
}

func (a *app) client() (*client.Client, error) {
	if a.api != nil {
		return a.api, nil
	}
	ts, err := a.tokenStore()
	if err != nil {
		return nil, err
	}
	a.api = client.NewClient(&client.Config{
		BaseURL:    a.cfg.BaseURL(),
		Tokens:     ts,
		Timeout:    a.cfg.API.Timeout,
		RetryCount: a.cfg.API.RetryCount,
		Debug:      a.cfg.API.Debug,
		Logger:     a.log,
	})
	return a.api, nil
}

// journalStore opens the journal, or returns nil when it is disabled.
func (a *app) journalStore() (*store.JournalStore, error) {
	if a.journal != nil || !a.cfg.JournalEnabled() {
		return a.journal, nil
	}
	j, err := store.OpenJournal(a.cfg.Journal.Driver, a.cfg.Journal.DSN, nil)
	if err != nil {
		return nil, err
	}
	a.journal = j
	return j, nil
}

// record writes entries to the journal when one is configured. Journal
// problems are reported but never fail the command.
func (a *app) record(ctx context.Context, entries ...models.JournalEntry) {
	j, err := a.journalStore()
	if err != nil {
		a.log.Warn("journal unavailable: %v", err)
		return
	}
	if j == nil {
		return
	}
	if err := j.Record(ctx, entries...); err != nil {
		a.log.Warn("journal write failed: %v", err)
	}
}

func (a *app) loadSnapshot(ctx context.Context) (*loader.Snapshot, error) {
	c, err := a.client()
	if err != nil {
		return nil, err
	}
	l := loader.New(c.Permissions, loader.WithLogger(a.log), loader.WithConcurrency(a.cfg.Fetch.Concurrency))
	return l.Load(ctx)
}

func (a *app) close() error {
	var errs []error
	if a.tokens != nil {
		errs = append(errs, a.tokens.Close())
	}
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
	}
	return errors.Join(errs...)
}
