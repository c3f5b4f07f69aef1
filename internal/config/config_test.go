package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.PostgresAddress)
	assert.Equal(t, "5433", cfg.PostgresPort)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "9446", cfg.HTTPPort)
	assert.Equal(t, 4, cfg.OperatorWorkers)
	assert.Equal(t, 5, cfg.OperatorMaxAttempts)
	assert.False(t, cfg.AutoMigrate)
	assert.Empty(t, cfg.KafkaBrokerList())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("POSTGRES_ADDRESS", "db.internal")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("OPERATOR_WORKERS", "8")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.PostgresAddress)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 8, cfg.OperatorWorkers)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokerList())
}

func TestLoad_YAMLFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_port: \"8080\"\nlog_level: debug\n"), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "warn", cfg.LogLevel, "environment wins over file")
}

func TestLoad_DotenvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NATS_URL=nats://localhost:4222\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("NATS_URL") })

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, "nats://localhost:4222", cfg.NatsURL)
}

func TestLoad_MissingDotenvIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := Load("", "")
	assert.Error(t, err)
}

func TestLoad_InvalidWorkers(t *testing.T) {
	t.Setenv("OPERATOR_WORKERS", "0")

	_, err := Load("", "")
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{
		PostgresAddress:  "h",
		PostgresPort:     "5432",
		PostgresDB:       "bank",
		PostgresUsername: "u",
		PostgresPassword: "p",
	}
	assert.Equal(t, "postgres://u:p@h:5432/bank?sslmode=disable", cfg.PostgresDSN())
}
