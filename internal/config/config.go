package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the demo backend used when no override is configured
const DefaultAPIURL = "https://brief-jaybird-allowed.ngrok-free.app"

// Config holds all application configuration
type Config struct {
	API     APIConfig
	Session SessionConfig
	Cache   CacheConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// APIConfig holds backend connection settings
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// SessionConfig selects where the auth token and user profile persist
type SessionConfig struct {
	Backend     string // "file", "redis" or "memory"
	Path        string
	RedisAddr   string
	RedisPrefix string
	// EncryptionKey, when set, seals stored values (32 bytes as base64 or hex)
	EncryptionKey string
}

// CacheConfig holds query cache configuration
type CacheConfig struct {
	Backend   string // "memory" or "redis"
	TTL       time.Duration
	RedisAddr string
}

// ServerConfig holds dashboard server configuration
type ServerConfig struct {
	HTTPAddr  string
	LoginPath string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// ResolveBaseURL returns the backend base URL from the environment, falling back to DefaultAPIURL.
// The value is not validated; a malformed URL only surfaces as request failures.
func ResolveBaseURL(getenv func(string) string) string {
	for _, key := range []string{"NEWSDESK_API_URL", "NEXT_PUBLIC_API_URL"} {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return DefaultAPIURL
}

// APIBase returns the root every API request is issued against
func (c APIConfig) APIBase() string {
	return strings.TrimRight(c.BaseURL, "/") + "/api"
}

// Load reads an optional .env file, then parses process flags and environment variables
func Load() *Config {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()

	cfg, err := LoadFromArgs(flag.CommandLine, os.Args[1:], os.Getenv)
	if err != nil {
		// flag.CommandLine exits on parse errors, so this is unreachable in practice
		return defaultConfig(os.Getenv)
	}
	return cfg
}

// LoadFromArgs builds configuration from an explicit flag set, arguments and environment lookup
func LoadFromArgs(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	def := defaultConfig(getenv)

	apiURL := fs.String("api-url", def.API.BaseURL, "Backend base URL")
	apiTimeout := fs.Duration("api-timeout", def.API.Timeout, "Timeout for backend requests")
	sessionBackend := fs.String("session-backend", def.Session.Backend, "Session storage: file, redis or memory")
	sessionPath := fs.String("session-path", def.Session.Path, "Directory for file session storage")
	cacheBackend := fs.String("cache-backend", def.Cache.Backend, "Cache backend: memory or redis")
	cacheTTL := fs.Duration("cache-ttl", def.Cache.TTL, "TTL for cached query results")
	redisAddr := fs.String("redis-addr", def.Cache.RedisAddr, "Redis server address")
	httpAddr := fs.String("http", def.Server.HTTPAddr, "Dashboard HTTP address")
	logLevel := fs.String("log-level", def.Logging.Level, "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", def.Logging.Format, "Log format (console, json)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Explicitly set flags win over the environment
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	applyEnvOverrides(getenv, set, apiTimeout, sessionBackend, sessionPath, cacheBackend, cacheTTL, redisAddr, httpAddr, logLevel, logFormat)

	cfg := &Config{}
	cfg.API = APIConfig{
		BaseURL:   strings.TrimRight(*apiURL, "/"),
		Timeout:   *apiTimeout,
		UserAgent: def.API.UserAgent,
	}
	cfg.Session = SessionConfig{
		Backend:     *sessionBackend,
		Path:        *sessionPath,
		RedisAddr:   getEnvOrDefault(getenv, "SESSION_REDIS_ADDR", *redisAddr),
		RedisPrefix: def.Session.RedisPrefix,

		EncryptionKey: getenv("SESSION_ENCRYPTION_KEY"),
	}
	cfg.Cache = CacheConfig{
		Backend:   *cacheBackend,
		TTL:       *cacheTTL,
		RedisAddr: *redisAddr,
	}
	cfg.Server = ServerConfig{
		HTTPAddr:  *httpAddr,
		LoginPath: def.Server.LoginPath,
	}
	cfg.Logging = LoggingConfig{
		Level:  *logLevel,
		Format: *logFormat,
	}

	return cfg, nil
}

func defaultConfig(getenv func(string) string) *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   ResolveBaseURL(getenv),
			Timeout:   30 * time.Second,
			UserAgent: getEnvOrDefault(getenv, "NEWSDESK_USER_AGENT", "newsdesk/1.0"),
		},
		Session: SessionConfig{
			Backend:     "file",
			Path:        defaultSessionPath(getenv),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "newsdesk:session:",
		},
		Cache: CacheConfig{
			Backend:   "memory",
			TTL:       time.Minute,
			RedisAddr: "localhost:6379",
		},
		Server: ServerConfig{
			HTTPAddr:  ":8080",
			LoginPath: "/login",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func defaultSessionPath(getenv func(string) string) string {
	if dir := getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "newsdesk")
	}
	if home := getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", "newsdesk")
	}
	return ".newsdesk"
}

func getEnvOrDefault(getenv func(string) string, key, defaultValue string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func applyEnvOverrides(
	getenv func(string) string,
	set map[string]bool,
	apiTimeout *time.Duration,
	sessionBackend *string,
	sessionPath *string,
	cacheBackend *string,
	cacheTTL *time.Duration,
	redisAddr *string,
	httpAddr *string,
	logLevel *string,
	logFormat *string,
) {
	if v := getenv("API_TIMEOUT"); v != "" && !set["api-timeout"] {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*apiTimeout = d
		}
	}
	if v := getenv("SESSION_BACKEND"); v != "" && !set["session-backend"] {
		*sessionBackend = v
	}
	if v := getenv("SESSION_PATH"); v != "" && !set["session-path"] {
		*sessionPath = v
	}
	if v := getenv("CACHE_BACKEND"); v != "" && !set["cache-backend"] {
		*cacheBackend = v
	}
	if v := getenv("CACHE_TTL"); v != "" && !set["cache-ttl"] {
		if d, err := time.ParseDuration(v); err == nil {
			*cacheTTL = d
		}
	}
	if v := getenv("REDIS_ADDR"); v != "" && !set["redis-addr"] {
		*redisAddr = v
	}
	if v := getenv("HTTP_ADDR"); v != "" && !set["http"] {
		*httpAddr = v
	}
	if v := getenv("LOG_LEVEL"); v != "" && !set["log-level"] {
		*logLevel = v
	}
	if v := getenv("LOG_FORMAT"); v != "" && !set["log-format"] {
		*logFormat = v
	}
}
