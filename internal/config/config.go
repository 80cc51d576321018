package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Graph   GraphConfig   `yaml:"graph"`
	Data    DataConfig    `yaml:"data"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string        `yaml:"host"`
	Port              int           `yaml:"port"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MetricsEnabled    bool          `yaml:"metrics_enabled"`
	AllowedOriginsCSV string        `yaml:"allowed_origins"`
}

// AllowedOrigins splits AllowedOriginsCSV, dropping blanks.
func (h HTTPConfig) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(h.AllowedOriginsCSV, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// GraphConfig describes connectivity to the Neo4j database.
type GraphConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	MaxConnections int           `yaml:"max_connections"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker in front of the graph client.
type BreakerConfig struct {
	Enabled      bool          `yaml:"enabled"`
	MaxRequests  uint32        `yaml:"max_requests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	MinRequests  uint32        `yaml:"min_requests"`
	FailureRatio float64       `yaml:"failure_ratio"`
}

// Data source kinds.
const (
	SourceBundle = "bundle"
	SourceSQLite = "sqlite"
	SourceMySQL  = "mysql"
	SourceNeo4j  = "neo4j"
)

// DataConfig selects where reference data comes from and where search
// history goes.
type DataConfig struct {
	Source     string `yaml:"source"`
	BundleDir  string `yaml:"bundle_dir"`
	SQLitePath string `yaml:"sqlite_path"`
	MySQLDSN   string `yaml:"mysql_dsn"`
	Watch      bool   `yaml:"watch"`
	History    bool   `yaml:"history"`
}

// SearchConfig tunes pathway search.
type SearchConfig struct {
	Workers           int           `yaml:"workers"`
	Timeout           time.Duration `yaml:"timeout"`
	DefaultMaxResults int           `yaml:"default_max_results"`
	MaxResultsLimit   int           `yaml:"max_results_limit"`
	BoundsEnabled     bool          `yaml:"bounds_enabled"`
	SourceTarget      int           `yaml:"source_target_budget"`
	PathBudget        int           `yaml:"path_budget"`
	FilterDivisor     int           `yaml:"filter_divisor"`
	EndpointCap       int           `yaml:"endpoint_cap"`
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string `yaml:"level"`
	Format        string `yaml:"format"` // text|json
	IncludeCaller bool   `yaml:"include_caller"`
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 60 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10
	defaultBundleDir        = "data"
	defaultSearchWorkers    = 4
	defaultSearchTimeout    = 30 * time.Second
)

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Host:            defaultHost,
			Port:            defaultPort,
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Graph: GraphConfig{
			MaxConnections: defaultGraphMaxSessions,
			Breaker: BreakerConfig{
				Enabled:      true,
				MaxRequests:  5,
				Interval:     30 * time.Second,
				Timeout:      60 * time.Second,
				MinRequests:  5,
				FailureRatio: 0.8,
			},
		},
		Data: DataConfig{
			Source:    SourceBundle,
			BundleDir: defaultBundleDir,
		},
		Search: SearchConfig{
			Workers:           defaultSearchWorkers,
			Timeout:           defaultSearchTimeout,
			DefaultMaxResults: 5,
			MaxResultsLimit:   20,
			BoundsEnabled:     true,
			SourceTarget:      1000,
			PathBudget:        1000,
			FilterDivisor:     5,
			EndpointCap:       50,
		},
		Logging: LoggingConfig{
			Level:  defaultLoggingLevel,
			Format: defaultLoggingFormat,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// RXNPATH_CONFIG (if any), and environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("RXNPATH_CONFIG"); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := overlayEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func overlayEnv(cfg *Config) error {
	cfg.HTTP.Host = valueOrDefault("SERVER_HOST", cfg.HTTP.Host)
	port, err := parsePort("SERVER_PORT", cfg.HTTP.Port)
	if err != nil {
		return err
	}
	cfg.HTTP.Port = port

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"GRAPH_BREAKER_INTERVAL", &cfg.Graph.Breaker.Interval},
		{"GRAPH_BREAKER_TIMEOUT", &cfg.Graph.Breaker.Timeout},
		{"SEARCH_TIMEOUT", &cfg.Search.Timeout},
	}
	for _, d := range durations {
		v, err := parseDuration(d.key, *d.target)
		if err != nil {
			return err
		}
		*d.target = v
	}

	cfg.HTTP.MetricsEnabled = parseBoolWithDefault("SERVER_METRICS_ENABLED", cfg.HTTP.MetricsEnabled)
	cfg.HTTP.AllowedOriginsCSV = valueOrDefault("SERVER_ALLOWED_ORIGINS", cfg.HTTP.AllowedOriginsCSV)

	cfg.Graph.URI = valueOrDefault("GRAPH_URI", cfg.Graph.URI)
	cfg.Graph.Database = valueOrDefault("GRAPH_DATABASE", cfg.Graph.Database)
	cfg.Graph.Username = valueOrDefault("GRAPH_USERNAME", cfg.Graph.Username)
	cfg.Graph.Password = valueOrDefault("GRAPH_PASSWORD", cfg.Graph.Password)
	cfg.Graph.MaxConnections = parseIntWithDefault("GRAPH_MAX_CONNECTIONS", cfg.Graph.MaxConnections)
	cfg.Graph.Breaker.Enabled = parseBoolWithDefault("GRAPH_BREAKER_ENABLED", cfg.Graph.Breaker.Enabled)

	cfg.Data.Source = strings.ToLower(valueOrDefault("DATA_SOURCE", cfg.Data.Source))
	cfg.Data.BundleDir = valueOrDefault("DATA_BUNDLE_DIR", cfg.Data.BundleDir)
	cfg.Data.SQLitePath = valueOrDefault("DATA_SQLITE_PATH", cfg.Data.SQLitePath)
	cfg.Data.MySQLDSN = valueOrDefault("DATA_MYSQL_DSN", cfg.Data.MySQLDSN)
	cfg.Data.Watch = parseBoolWithDefault("DATA_WATCH", cfg.Data.Watch)
	cfg.Data.History = parseBoolWithDefault("DATA_HISTORY", cfg.Data.History)

	cfg.Search.Workers = parseIntWithDefault("SEARCH_WORKERS", cfg.Search.Workers)
	cfg.Search.DefaultMaxResults = parseIntWithDefault("SEARCH_DEFAULT_MAX_RESULTS", cfg.Search.DefaultMaxResults)
	cfg.Search.MaxResultsLimit = parseIntWithDefault("SEARCH_MAX_RESULTS_LIMIT", cfg.Search.MaxResultsLimit)
	cfg.Search.BoundsEnabled = parseBoolWithDefault("SEARCH_BOUNDS_ENABLED", cfg.Search.BoundsEnabled)
	cfg.Search.SourceTarget = parseIntWithDefault("SEARCH_SOURCE_TARGET_BUDGET", cfg.Search.SourceTarget)
	cfg.Search.PathBudget = parseIntWithDefault("SEARCH_PATH_BUDGET", cfg.Search.PathBudget)
	cfg.Search.FilterDivisor = parseIntWithDefault("SEARCH_FILTER_DIVISOR", cfg.Search.FilterDivisor)
	cfg.Search.EndpointCap = parseIntWithDefault("SEARCH_ENDPOINT_CAP", cfg.Search.EndpointCap)

	cfg.Logging.Level = valueOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = valueOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.IncludeCaller = parseBoolWithDefault("LOG_INCLUDE_CALLER", cfg.Logging.IncludeCaller)
	return nil
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	var errs []error
	switch c.Data.Source {
	case SourceBundle:
		if c.Data.BundleDir == "" {
			errs = append(errs, errors.New("data.bundle_dir is required for the bundle source"))
		}
	case SourceSQLite:
		if c.Data.SQLitePath == "" {
			errs = append(errs, errors.New("data.sqlite_path is required for the sqlite source"))
		}
	case SourceMySQL:
		if c.Data.MySQLDSN == "" {
			errs = append(errs, errors.New("data.mysql_dsn is required for the mysql source"))
		}
	case SourceNeo4j:
		if c.Graph.URI == "" {
			errs = append(errs, errors.New("graph.uri is required for the neo4j source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown data source %q", c.Data.Source))
	}
	if c.Data.Watch && c.Data.Source != SourceBundle {
		errs = append(errs, errors.New("data.watch only applies to the bundle source"))
	}
	if c.Data.History && c.Data.SQLitePath == "" && c.Data.MySQLDSN == "" {
		errs = append(errs, errors.New("data.history needs data.sqlite_path or data.mysql_dsn"))
	}
	if c.Search.Workers <= 0 {
		errs = append(errs, fmt.Errorf("search.workers must be positive, got %d", c.Search.Workers))
	}
	if c.Search.MaxResultsLimit <= 0 || c.Search.DefaultMaxResults <= 0 || c.Search.DefaultMaxResults > c.Search.MaxResultsLimit {
		errs = append(errs, fmt.Errorf("search.default_max_results %d must be within 1..%d", c.Search.DefaultMaxResults, c.Search.MaxResultsLimit))
	}
	if c.Search.BoundsEnabled && (c.Search.SourceTarget <= 0 || c.Search.PathBudget <= 0 || c.Search.FilterDivisor <= 0 || c.Search.EndpointCap <= 0) {
		errs = append(errs, errors.New("search bounds budgets must be positive when bounds are enabled"))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port the HTTP server listens on.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
