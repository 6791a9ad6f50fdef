package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"strings"

	"github.com/carewell-hms/permadmin/utils/logger"
	"github.com/pressly/goose/v3"
)

// migrationsFS holds embedded SQL migrations in migrate/sql.
//
//go:embed sql/*.sql
var migrationsFS embed.FS

// Options defines how to run migrations.
type Options struct {
	DB      *sql.DB
	Driver  string         // sqlite or postgres
	Command string         // up, down, status, version, up-to, down-to, redo, reset
	Target  int64          // used with up-to/down-to
	Logger  *logger.Logger // optional logger
}

// Dialect maps a journal driver name to the goose dialect.
func Dialect(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return "sqlite3", nil
	case "postgres", "postgresql":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported journal driver: %q", driver)
	}
}

// Run executes migrations against opts.DB.
func Run(opts Options) error {
	if opts.DB == nil {
		return fmt.Errorf("migrate: no database")
	}
	dialect, err := Dialect(opts.Driver)
	if err != nil {
		return err
	}
	if opts.Logger != nil {
		goose.SetLogger(gooseLogger{opts.Logger})
	} else {
		goose.SetLogger(goose.NopLogger())
	}
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}

	dir := "sql"
	switch strings.ToLower(strings.TrimSpace(opts.Command)) {
	case "", "up":
		return goose.Up(opts.DB, dir)
	case "down":
		return goose.Down(opts.DB, dir)
	case "status":
		return goose.Status(opts.DB, dir)
	case "version":
		return goose.Version(opts.DB, dir)
	case "up-to":
		return goose.UpTo(opts.DB, dir, opts.Target)
	case "down-to":
		return goose.DownTo(opts.DB, dir, opts.Target)
	case "redo":
		return goose.Redo(opts.DB, dir)
	case "reset":
		return goose.Reset(opts.DB, dir)
	default:
		return fmt.Errorf("unknown migration command: %s", opts.Command)
	}
}

// CurrentVersion reports the applied schema version.
func CurrentVersion(db *sql.DB, driver string) (int64, error) {
	dialect, err := Dialect(driver)
	if err != nil {
		return 0, err
	}
	goose.SetTableName("schema_migrations")
	if err := goose.SetDialect(dialect); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db)
}

type gooseLogger struct{ l *logger.Logger }

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.l.Info(strings.TrimSuffix(format, "\n"), v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.l.Error(format, fmt.Errorf("fatal migration error"), v...)
	os.Exit(1)
}
