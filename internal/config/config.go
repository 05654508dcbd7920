package config

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures all runtime options for the simulator.
type Config struct {
	Seed                  int64         `yaml:"seed"`
	Iterations            int           `yaml:"iterations"`
	Workers               int           `yaml:"workers"`
	MaxTables             int           `yaml:"max_tables"`
	MaxColumns            int           `yaml:"max_columns"`
	MaxGenerationAttempts int           `yaml:"max_generation_attempts"`
	Simulation            SimOptions    `yaml:"simulation"`
	Engine                EngineConfig  `yaml:"engine"`
	Corpus                CorpusConfig  `yaml:"corpus"`
	Logging               Logging       `yaml:"logging"`
	Storage               StorageConfig `yaml:"storage"`
}

// SimOptions is the workload mix the property generator steers towards.
type SimOptions struct {
	MaxInteractions int     `yaml:"max_interactions"`
	ReadPercent     float64 `yaml:"read_percent"`
	WritePercent    float64 `yaml:"write_percent"`
	CreatePercent   float64 `yaml:"create_percent"`
}

// Engine kinds.
const (
	EngineMemory = "memory"
	EngineMySQL  = "mysql"
)

// EngineConfig selects the engine under test.
type EngineConfig struct {
	Kind               string `yaml:"kind"`
	DSN                string `yaml:"dsn"`
	Database           string `yaml:"database"`
	StatementTimeoutMs int    `yaml:"statement_timeout_ms"`
	ValidateSQL        bool   `yaml:"validate_sql"`
}

// StatementTimeout returns the per-statement bound, zero when disabled.
func (e EngineConfig) StatementTimeout() time.Duration {
	if e.StatementTimeoutMs <= 0 {
		return 0
	}
	return time.Duration(e.StatementTimeoutMs) * time.Millisecond
}

// CorpusConfig controls where recorded properties are written.
type CorpusConfig struct {
	Dir           string `yaml:"dir"`
	RecordPassing bool   `yaml:"record_passing"`
}

// Logging controls stdout logging behavior.
type Logging struct {
	Verbose               bool   `yaml:"verbose"`
	ReportIntervalSeconds int    `yaml:"report_interval_seconds"`
	LogFile               string `yaml:"log_file"`
}

// StorageConfig holds external storage settings.
type StorageConfig struct {
	S3  S3Config  `yaml:"s3"`
	GCS GCSConfig `yaml:"gcs"`
}

// CloudEnabled reports whether any cloud storage backend is enabled.
func (s StorageConfig) CloudEnabled() bool {
	return s.GCS.Enabled || s.S3.Enabled
}

// S3Config configures S3 uploads (legacy and S3-compatible endpoints).
type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	SessionToken    string `yaml:"session_token"`
	UsePathStyle    bool   `yaml:"use_path_style"`
}

// GCSConfig configures GCS uploads.
type GCSConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parse %s", path)
	}
	normalizeConfig(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := defaultConfig()
	normalizeConfig(&cfg)
	return cfg
}

// Validate rejects configurations the runner cannot start with.
func (c Config) Validate() error {
	switch c.Engine.Kind {
	case EngineMemory:
	case EngineMySQL:
		if strings.TrimSpace(c.Engine.DSN) == "" {
			return errors.New("engine.dsn is required for the mysql engine")
		}
	default:
		return errors.Errorf("unknown engine kind %q", c.Engine.Kind)
	}
	if c.Storage.S3.Enabled && c.Storage.S3.Bucket == "" {
		return errors.New("storage.s3.bucket is required when s3 is enabled")
	}
	if c.Storage.GCS.Enabled && c.Storage.GCS.Bucket == "" {
		return errors.New("storage.gcs.bucket is required when gcs is enabled")
	}
	return nil
}

const (
	maxColumnsDefault            = 5
	maxTablesDefault             = 3
	maxGenerationAttemptsDefault = 8
)

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func normalizeConfig(cfg *Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxTables <= 0 {
		cfg.MaxTables = maxTablesDefault
	}
	if cfg.MaxColumns <= 0 {
		cfg.MaxColumns = maxColumnsDefault
	}
	if cfg.MaxGenerationAttempts <= 0 {
		cfg.MaxGenerationAttempts = maxGenerationAttemptsDefault
	}
	if cfg.Simulation.MaxInteractions < 0 {
		cfg.Simulation.MaxInteractions = 0
	}
	cfg.Simulation.ReadPercent = clampPercent(cfg.Simulation.ReadPercent)
	cfg.Simulation.WritePercent = clampPercent(cfg.Simulation.WritePercent)
	cfg.Simulation.CreatePercent = clampPercent(cfg.Simulation.CreatePercent)
	cfg.Engine.Kind = strings.ToLower(strings.TrimSpace(cfg.Engine.Kind))
	if cfg.Engine.Kind == "" {
		cfg.Engine.Kind = EngineMemory
	}
	if cfg.Engine.Database != "" {
		cfg.Engine.DSN = ensureDatabaseInDSN(cfg.Engine.DSN, cfg.Engine.Database)
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = cfg.Simulation.MaxInteractions
	}
}

func ensureDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
	}
	afterSlash := dsn[slash+1:]
	if query >= 0 {
		afterSlash = dsn[slash+1 : query]
	}
	if strings.TrimSpace(afterSlash) != "" {
		return dsn
	}
	if query >= 0 {
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn + dbName
}

// UpdateDatabaseInDSN replaces the database name in the DSN path with dbName.
// It preserves query parameters, if any.
func UpdateDatabaseInDSN(dsn string, dbName string) string {
	if dsn == "" || dbName == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dbName + dsn[query:]
	}
	return dsn[:slash+1] + dbName
}

// AdminDSN strips the database name from a DSN while preserving query parameters.
func AdminDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	slash := strings.Index(dsn, "/")
	if slash < 0 {
		return dsn
	}
	query := strings.Index(dsn[slash+1:], "?")
	if query >= 0 {
		query = slash + 1 + query
		return dsn[:slash+1] + dsn[query:]
	}
	return dsn[:slash+1]
}

func defaultConfig() Config {
	return Config{
		Iterations:            0,
		Workers:               1,
		MaxTables:             maxTablesDefault,
		MaxColumns:            maxColumnsDefault,
		MaxGenerationAttempts: maxGenerationAttemptsDefault,
		Simulation: SimOptions{
			MaxInteractions: 1000,
			ReadPercent:     60,
			WritePercent:    30,
			CreatePercent:   10,
		},
		Engine: EngineConfig{
			Kind:               EngineMemory,
			DSN:                "root:@tcp(127.0.0.1:4000)/",
			Database:           "sqlsim",
			StatementTimeoutMs: 15000,
			ValidateSQL:        true,
		},
		Corpus: CorpusConfig{
			Dir: "cases",
		},
		Logging: Logging{
			ReportIntervalSeconds: 30,
			LogFile:               "logs/sqlsim.log",
		},
	}
}
