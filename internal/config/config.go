package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultMigrationsFolder = "./migrations"
	DefaultMigrationsTable  = "schema_migrations"
	DefaultSchemaFile       = "schema.sql"
	DefaultWaitTimeout      = 30 * time.Second
)

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	DatabaseURL      string
	DatabaseToken    string // auth token for remote engines, sent alongside the URL
	MigrationsFolder string
	MigrationsTable  string
	SchemaFile       string // filename for schema dumps, written inside MigrationsFolder
	WaitTimeout      time.Duration
	DumpSchema       bool // dump the schema after successful up runs
}

// yamlConfig is the raw YAML file representation.
type yamlConfig struct {
	DatabaseURL      string `yaml:"database_url"`
	DatabaseToken    string `yaml:"database_token"`
	MigrationsFolder string `yaml:"migrations_folder"`
	MigrationsTable  string `yaml:"migrations_table"`
	SchemaFile       string `yaml:"schema_file"`
	WaitTimeout      string `yaml:"wait_timeout"`
	NoDumpSchema     bool   `yaml:"no_dump_schema"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		MigrationsFolder: DefaultMigrationsFolder,
		MigrationsTable:  DefaultMigrationsTable,
		SchemaFile:       DefaultSchemaFile,
		WaitTimeout:      DefaultWaitTimeout,
		DumpSchema:       true,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromYAML(&raw)
}

// fromYAML converts the raw YAML representation to a Config with defaults applied.
func fromYAML(raw *yamlConfig) (*Config, error) {
	cfg := New()

	if raw.DatabaseURL != "" {
		cfg.DatabaseURL = raw.DatabaseURL
	}

	if raw.DatabaseToken != "" {
		cfg.DatabaseToken = raw.DatabaseToken
	}

	if raw.MigrationsFolder != "" {
		cfg.MigrationsFolder = raw.MigrationsFolder
	}

	if raw.MigrationsTable != "" {
		cfg.MigrationsTable = raw.MigrationsTable
	}

	if raw.SchemaFile != "" {
		cfg.SchemaFile = raw.SchemaFile
	}

	if raw.WaitTimeout != "" {
		d, err := parseTimeout(raw.WaitTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing wait_timeout %q: %w", raw.WaitTimeout, err)
		}

		cfg.WaitTimeout = d
	}

	if raw.NoDumpSchema {
		cfg.DumpSchema = false
	}

	return cfg, nil
}

// MergeEnv overrides config fields from DATABASE_* environment variables.
func MergeEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}

	if v := os.Getenv("DATABASE_TOKEN"); v != "" {
		cfg.DatabaseToken = v
	}

	if v := os.Getenv("DATABASE_MIGRATIONS_FOLDER"); v != "" {
		cfg.MigrationsFolder = v
	}

	if v := os.Getenv("DATABASE_MIGRATIONS_TABLE"); v != "" {
		cfg.MigrationsTable = v
	}

	if v := os.Getenv("DATABASE_SCHEMA_FILE"); v != "" {
		cfg.SchemaFile = v
	}

	if v := os.Getenv("DATABASE_WAIT_TIMEOUT"); v != "" {
		if d, err := parseTimeout(v); err == nil {
			cfg.WaitTimeout = d
		}
	}

	if os.Getenv("DATABASE_NO_DUMP_SCHEMA") == "true" {
		cfg.DumpSchema = false
	}
}

// parseTimeout accepts either a bare integer (seconds) or a Go duration string.
func parseTimeout(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("timeout must not be negative: %d", secs)
		}

		return time.Duration(secs) * time.Second, nil
	}

	return time.ParseDuration(v)
}
