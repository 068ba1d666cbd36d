package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnvVar names the environment variable holding an optional YAML config
// file. Values from the file sit between the built-in defaults and the
// environment.
const FileEnvVar = "RECIPEBOOK_CONFIG"

// Config captures the runtime configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Store    StoreConfig
}

// ServerConfig configures the HTTP server runtime behavior.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	UseMock         bool
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level string
}

// AuthConfig groups authentication settings.
type AuthConfig struct {
	Session SessionConfig
}

// SessionConfig controls the session cookie issued at login.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// StoreConfig controls how the in-memory recipe store is backed.
type StoreConfig struct {
	// Persist writes every committed store transaction through to the
	// database and restores the store from it on startup.
	Persist bool
}

func defaults() map[string]any {
	return map[string]any{
		"server.addr":                 ":8080",
		"database.url":                "",
		"database.max_idle_conns":     5,
		"database.max_open_conns":     25,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",
		"database.use_mock":           false,
		"logging.level":               "info",
		"auth.session.lifetime":       "12h",
		"auth.session.cookie_name":    "recipebook_session",
		"auth.session.cookie_domain":  "",
		"auth.session.cookie_secure":  true,
		"store.persist":               true,
	}
}

// Load builds a Config from defaults, the optional file named by
// RECIPEBOOK_CONFIG and finally the environment.
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return Config{}, fmt.Errorf("load config defaults: %w", err)
	}

	if path := strings.TrimSpace(os.Getenv(FileEnvVar)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg := Config{}

	cfg.Server = ServerConfig{
		Addr: firstNonEmpty(
			os.Getenv("SERVER_ADDR"),
			os.Getenv("ADDR"),
			k.String("server.addr"),
		),
	}

	cfg.Database = DatabaseConfig{
		URL: firstNonEmpty(
			os.Getenv("DATABASE_URL"),
			os.Getenv("DB_URL"),
			k.String("database.url"),
		),
		MaxIdleConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_IDLE_CONNS"), k.Int("database.max_idle_conns")),
		MaxOpenConns:    parseIntWithDefault(os.Getenv("DATABASE_MAX_OPEN_CONNS"), k.Int("database.max_open_conns")),
		ConnMaxLifetime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_LIFETIME"), k.Duration("database.conn_max_lifetime")),
		ConnMaxIdleTime: parseDurationWithDefault(os.Getenv("DATABASE_CONN_MAX_IDLE_TIME"), k.Duration("database.conn_max_idle_time")),
		UseMock:         parseBoolWithDefault(os.Getenv("DATABASE_USE_MOCK"), k.Bool("database.use_mock")),
	}

	cfg.Logging = LoggingConfig{
		Level: firstNonEmpty(os.Getenv("LOG_LEVEL"), k.String("logging.level")),
	}

	cfg.Auth = AuthConfig{
		Session: SessionConfig{
			Lifetime:     parseDurationWithDefault(os.Getenv("SESSION_LIFETIME"), k.Duration("auth.session.lifetime")),
			CookieName:   firstNonEmpty(os.Getenv("SESSION_COOKIE_NAME"), k.String("auth.session.cookie_name")),
			CookieDomain: firstNonEmpty(os.Getenv("SESSION_COOKIE_DOMAIN"), k.String("auth.session.cookie_domain")),
			CookieSecure: parseBoolWithDefault(os.Getenv("SESSION_COOKIE_SECURE"), k.Bool("auth.session.cookie_secure")),
		},
	}

	cfg.Store = StoreConfig{
		Persist: parseBoolWithDefault(os.Getenv("STORE_PERSIST"), k.Bool("store.persist")),
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return Config{}, fmt.Errorf("server address must not be empty")
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func parseIntWithDefault(value string, def int) int {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseDurationWithDefault(value string, def time.Duration) time.Duration {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

func parseBoolWithDefault(value string, def bool) bool {
	if strings.TrimSpace(value) == "" {
		return def
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}
