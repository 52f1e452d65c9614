// Package store wraps the on-device sqlite database behind the small session
// surface the rest of the SDK depends on: create/read/update through gorm,
// raw statements, transactions, and opening a second store rooted at an
// arbitrary file path (used to operate on in-progress export snapshots).
package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is a session over a single sqlite database file.
type Store struct {
	db   *gorm.DB
	path string
}

// Open opens (creating if absent) the database at path.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// OpenExternal opens a second store rooted at an arbitrary database file.
// The caller owns the returned store and must Close it.
func (s *Store) OpenExternal(path string) (*Store, error) {
	return Open(path)
}

// DB exposes the underlying gorm session.
func (s *Store) DB() *gorm.DB { return s.db }

// Path returns the backing database file path.
func (s *Store) Path() string { return s.path }

// Migrate creates or updates the schema for the given models.
func (s *Store) Migrate(models ...any) error {
	if err := s.db.AutoMigrate(models...); err != nil {
		return wrapDB("migrate", err)
	}
	return nil
}

// Exec runs a raw statement against the store.
func (s *Store) Exec(stmt string, args ...any) error {
	if err := s.db.Exec(stmt, args...).Error; err != nil {
		return wrapDB("exec", err)
	}
	return nil
}

// Transaction runs fn inside a single database transaction. The statements
// issued through the store passed to fn commit or roll back together.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, path: s.path})
	})
	if err != nil {
		return wrapDB("transaction", err)
	}
	return nil
}

// TableNames lists the user tables present in the database. Internal sqlite
// bookkeeping tables (sqlite_sequence etc.) are excluded.
func (s *Store) TableNames() ([]string, error) {
	var names []string
	err := s.db.Raw("select name from sqlite_master where type = ? and name not like 'sqlite_%'", "table").
		Scan(&names).Error
	if err != nil {
		return nil, wrapDB("table names", err)
	}
	return names, nil
}

// CopyTo copies the backing database file to dst. The source connection is
// left open; callers must not write through this store while copying.
func (s *Store) CopyTo(fs afero.Fs, dst string) error {
	if s.path == "" {
		return &DBError{Op: "copy", Err: errors.New("store has no backing file")}
	}
	src, err := fs.Open(s.path)
	if err != nil {
		return fmt.Errorf("open source database: %w", err)
	}
	defer src.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create snapshot database: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("copy database to %q: %w", dst, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// wrapDB converts storage-level failures into DBError, leaving the SDK's own
// typed errors (raised inside transactions) untouched.
func wrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	var validation *ValidationError
	var noData *NoDataFoundError
	var dbErr *DBError
	if errors.As(err, &validation) || errors.As(err, &noData) || errors.As(err, &dbErr) {
		return err
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return &DBError{Op: op, Err: sqliteErr}
	}
	return &DBError{Op: op, Err: err}
}
