package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/carewell-hms/permadmin/migrate"
	"github.com/carewell-hms/permadmin/models"
	"github.com/carewell-hms/permadmin/utils/logger"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// JournalStore persists the outcome of every outbound mutation.
type JournalStore struct {
	DB     *gorm.DB
	driver string
}

// OpenJournal connects to the journal database and applies pending migrations.
// driver is "sqlite" (dsn is a file path) or "postgres" (dsn is a URL or key/value DSN).
func OpenJournal(driver, dsn string, log *logger.Logger) (*JournalStore, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported journal driver: %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := migrate.Run(migrate.Options{DB: sqlDB, Driver: driver, Command: "up", Logger: log}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &JournalStore{DB: db, driver: driver}, nil
}

// Driver returns the driver the store was opened with.
func (s *JournalStore) Driver() string { return s.driver }

// Record inserts entries in one statement. Recording nothing is a no-op.
func (s *JournalStore) Record(ctx context.Context, entries ...models.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).Create(&entries).Error
}

// List returns up to limit entries, newest first. limit <= 0 means no limit.
func (s *JournalStore) List(ctx context.Context, limit int) ([]models.JournalEntry, error) {
	q := s.DB.WithContext(ctx).Model(&models.JournalEntry{}).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.JournalEntry
	return out, q.Find(&out).Error
}

// Close releases the underlying connection pool.
func (s *JournalStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
