package main

import (
	"database/sql"
	"os"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	server_config "github.com/carson-networks/bank-ledger/internal/config"
	"github.com/carson-networks/bank-ledger/internal/storage/migrations"
)

func main() {
	app := &cli.App{
		Name:  "db_migrations",
		Usage: "apply or revert the bank-ledger schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "optional YAML config file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrations.Migrator) error {
						status, err := m.Up()
						if err != nil {
							return err
						}
						logStatus(status)
						return nil
					})
				},
			},
			{
				Name:  "down",
				Usage: "revert all migrations",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrations.Migrator) error {
						status, err := m.Down()
						if err != nil {
							return err
						}
						logStatus(status)
						return nil
					})
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(m *migrations.Migrator) error {
						version, dirty, err := m.Version()
						if err != nil {
							return err
						}
						logrus.WithFields(logrus.Fields{
							"version": version,
							"dirty":   dirty,
						}).Info("Migration version")
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("db_migrations")
	}
}

func withMigrator(c *cli.Context, fn func(m *migrations.Migrator) error) error {
	env, err := server_config.Load(c.String("config"), ".env")
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", env.PostgresDSN())
	if err != nil {
		return err
	}

	m, err := migrations.New(db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logrus.WithError(err).Warn("db_migrations.Close")
		}
	}()

	return fn(m)
}

func logStatus(status migrations.Status) {
	logrus.WithFields(logrus.Fields{
		"preMigrationVersion":  status.Before,
		"postMigrationVersion": status.After,
	}).Info("Migration status")
}
