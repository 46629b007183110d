package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"wedding-site/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrInvalid is returned when a record fails an enum check
	ErrInvalid = errors.New("invalid record")
)

// Options selects the database backend
type Options struct {
	Type string // sqlite or postgres
	DSN  string
}

// Open opens the database and migrates the schema
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Type {
	case "", "sqlite":
		if err := ensureSQLiteDir(opts.DSN); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(opts.DSN)
	case "postgres":
		dialector = postgres.New(postgres.Config{DriverName: "postgres", DSN: opts.DSN})
	default:
		return nil, fmt.Errorf("unsupported database type %q", opts.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates all tables
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Location{},
		&models.WeddingPartyMember{},
		&models.RSVP{},
		&models.Guest{},
		&models.PhotoUpload{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ensureSQLiteDir creates the directory holding a file backed sqlite database
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || strings.Contains(path, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
