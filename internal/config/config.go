package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/store"
)

// Config holds every setting shared by the addressbook commands.  Values
// are read from the environment by Load and may then be overridden by
// command line flags bound directly to the fields.
type Config struct {
	GRPCAddr       string
	WebAddr        string
	Backend        string
	DatabaseURL    string
	RedisAddr      string
	RedisPassword  string
	LogLevel       string
	Development    bool
	SeedURL        string
	SearchDebounce time.Duration
}

// Defaults used when the environment leaves a setting empty.
const (
	DefaultGRPCAddr       = "0.0.0.0:9090"
	DefaultWebAddr        = "0.0.0.0:8080"
	DefaultBackend        = store.BackendMemory
	DefaultRedisAddr      = "127.0.0.1:6379"
	DefaultLogLevel       = "info"
	DefaultSeedURL        = "https://dummyjson.com"
	DefaultSearchDebounce = 300 * time.Millisecond
)

// Load reads the configuration from the environment.  It fails only when
// a value is present but cannot be parsed.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		GRPCAddr:       orDefault(getenv("ADDRESSBOOK_GRPC_ADDR"), DefaultGRPCAddr),
		WebAddr:        orDefault(getenv("ADDRESSBOOK_WEB_ADDR"), DefaultWebAddr),
		Backend:        orDefault(getenv("ADDRESSBOOK_BACKEND"), DefaultBackend),
		DatabaseURL:    getenv("DATABASE_URL"),
		RedisAddr:      orDefault(getenv("REDIS_ADDR"), DefaultRedisAddr),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		LogLevel:       orDefault(getenv("ADDRESSBOOK_LOG_LEVEL"), DefaultLogLevel),
		Development:    getenv("ADDRESSBOOK_DEV") == "1" || getenv("ADDRESSBOOK_DEV") == "true",
		SeedURL:        orDefault(getenv("ADDRESSBOOK_SEED_URL"), DefaultSeedURL),
		SearchDebounce: DefaultSearchDebounce,
	}
	if raw := getenv("ADDRESSBOOK_SEARCH_DEBOUNCE"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("ADDRESSBOOK_SEARCH_DEBOUNCE: %w", err)
		}
		cfg.SearchDebounce = d
	}
	return cfg, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Validate reports every inconsistent setting at once.
func (c Config) Validate() error {
	var errs []error
	switch c.Backend {
	case store.BackendMemory, store.BackendRedis:
	case store.BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("postgres backend requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown backend %q", c.Backend))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	if c.SearchDebounce < 0 {
		errs = append(errs, errors.New("search debounce must not be negative"))
	}
	return errors.Join(errs...)
}

// StoreOptions selects the backend described by c.
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.Backend,
		DatabaseURL:   c.DatabaseURL,
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPassword,
	}
}
