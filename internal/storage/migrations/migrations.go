// Package migrations carries the schema as embedded golang-migrate files.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Status reports the schema version before and after a migration run.
type Status struct {
	Before uint
	After  uint
}

// Migrator owns the database handle it is built on; Close releases it.
type Migrator struct {
	m *migrate.Migrate
}

func New(db *sql.DB) (*Migrator, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: open source: %w", err)
	}
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrations: postgres.WithInstance: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrations: migrate.NewWithInstance: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration. Running it on a current schema is a no-op.
func (m *Migrator) Up() (Status, error) {
	return m.run(m.m.Up)
}

// Down reverts every migration.
func (m *Migrator) Down() (Status, error) {
	return m.run(m.m.Down)
}

// Version returns the current schema version; zero when nothing is applied.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func (m *Migrator) Close() error {
	sourceErr, dbErr := m.m.Close()
	return errors.Join(sourceErr, dbErr)
}

func (m *Migrator) run(step func() error) (Status, error) {
	var status Status
	before, _, err := m.Version()
	if err != nil {
		return status, fmt.Errorf("migrations: version before: %w", err)
	}
	status.Before = before

	if err := step(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return status, fmt.Errorf("migrations: %w", err)
	}

	after, _, err := m.Version()
	if err != nil {
		return status, fmt.Errorf("migrations: version after: %w", err)
	}
	status.After = after
	return status, nil
}
