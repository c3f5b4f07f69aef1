package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	PostgresAddress  string `koanf:"postgres_address"`
	PostgresPort     string `koanf:"postgres_port"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresUsername string `koanf:"postgres_username"`
	PostgresPassword string `koanf:"postgres_password"`

	StorageDriver string `koanf:"storage_driver"`
	AutoMigrate   bool   `koanf:"auto_migrate"`

	HTTPPort string `koanf:"http_port"`
	LogLevel string `koanf:"log_level"`

	OperatorWorkers     int `koanf:"operator_workers"`
	OperatorQueueSize   int `koanf:"operator_queue_size"`
	OperatorMaxAttempts int `koanf:"operator_max_attempts"`

	// Event publishing is disabled when KafkaBrokers is empty.
	KafkaBrokers       string `koanf:"kafka_brokers"`
	KafkaTransferTopic string `koanf:"kafka_transfer_topic"`

	// The balance responder is disabled when NatsURL is empty.
	NatsURL            string `koanf:"nats_url"`
	NatsBalanceSubject string `koanf:"nats_balance_subject"`
}

// In all cases the default behavior should be for the docker compose setup
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"postgres_address":      "localhost",
		"postgres_port":         "5433",
		"postgres_db":           "postgres",
		"postgres_username":     "postgres",
		"postgres_password":     "testpassword",
		"storage_driver":        StorageDriverPostgres,
		"auto_migrate":          false,
		"http_port":             "9446",
		"log_level":             "info",
		"operator_workers":      4,
		"operator_queue_size":   1000,
		"operator_max_attempts": 5,
		"kafka_brokers":         "",
		"kafka_transfer_topic":  "bank.transfers",
		"nats_url":              "",
		"nats_balance_subject":  "bank.balance",
	}
}

// ProcessEnvironmentVariables loads the configuration the server runs with:
// defaults, then the YAML file named by CONFIG_FILE, then a .env file in the
// working directory, then the process environment.
func ProcessEnvironmentVariables() (*Config, error) {
	return Load(os.Getenv("CONFIG_FILE"), ".env")
}

// Load builds a Config from defaults, an optional YAML file and the
// environment. Empty paths are skipped, as are missing dotenv files.
func Load(configFile string, dotenvFile string) (*Config, error) {
	if dotenvFile != "" {
		if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %s: %w", dotenvFile, err)
		}
	}

	defaultValues := defaults()
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultValues, "."), nil); err != nil {
		return nil, fmt.Errorf("config: loading defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: loading %s: %w", configFile, err)
		}
	}

	envProvider := env.Provider("", ".", func(key string) string {
		key = strings.ToLower(key)
		if _, known := defaultValues[key]; !known {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.StorageDriver)
	}
	if c.OperatorWorkers < 1 {
		return fmt.Errorf("config: operator_workers must be at least 1, got %d", c.OperatorWorkers)
	}
	if c.OperatorQueueSize < 1 {
		return fmt.Errorf("config: operator_queue_size must be at least 1, got %d", c.OperatorQueueSize)
	}
	if c.OperatorMaxAttempts < 1 {
		return fmt.Errorf("config: operator_max_attempts must be at least 1, got %d", c.OperatorMaxAttempts)
	}
	return nil
}

// PostgresDSN returns the lib/pq connection string for the configured database.
func (c *Config) PostgresDSN() string {
	return "postgres://" + c.PostgresUsername + ":" +
		c.PostgresPassword + "@" + c.PostgresAddress + ":" +
		c.PostgresPort + "/" + c.PostgresDB + "?sslmode=disable"
}

// KafkaBrokerList splits KafkaBrokers on commas, dropping blanks.
func (c *Config) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
