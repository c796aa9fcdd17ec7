package config

import (
	"flag"
	"io"
	"os"
	"testing"
	"time"
)

func loadWithArgs(t *testing.T, args ...string) *Config {
	t.Helper()

	if len(args) == 0 {
		args = []string{"test"}
	}

	oldCommandLine := flag.CommandLine
	oldArgs := os.Args

	flag.CommandLine = flag.NewFlagSet(args[0], flag.ContinueOnError)
	flag.CommandLine.SetOutput(io.Discard)
	os.Args = args

	t.Cleanup(func() {
		flag.CommandLine = oldCommandLine
		os.Args = oldArgs
	})

	return Load()
}

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "default when unset",
			env:  map[string]string{},
			want: DefaultAPIURL,
		},
		{
			name: "newsdesk override",
			env:  map[string]string{"NEWSDESK_API_URL": "http://localhost:5000"},
			want: "http://localhost:5000",
		},
		{
			name: "dashboard variable accepted",
			env:  map[string]string{"NEXT_PUBLIC_API_URL": "https://api.example.com"},
			want: "https://api.example.com",
		},
		{
			name: "newsdesk wins over dashboard variable",
			env: map[string]string{
				"NEWSDESK_API_URL":    "http://primary",
				"NEXT_PUBLIC_API_URL": "http://secondary",
			},
			want: "http://primary",
		},
		{
			name: "trailing slash trimmed",
			env:  map[string]string{"NEWSDESK_API_URL": "http://localhost:5000/"},
			want: "http://localhost:5000",
		},
		{
			name: "malformed value passed through",
			env:  map[string]string{"NEWSDESK_API_URL": "not a url"},
			want: "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveBaseURL(envMap(tt.env)); got != tt.want {
				t.Errorf("ResolveBaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIBase(t *testing.T) {
	cfg := APIConfig{BaseURL: "http://localhost:5000/"}
	if got := cfg.APIBase(); got != "http://localhost:5000/api" {
		t.Errorf("APIBase() = %q, want %q", got, "http://localhost:5000/api")
	}
}

func TestLoadFromArgs_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := LoadFromArgs(fs, nil, envMap(map[string]string{"HOME": "/home/reader"}))
	if err != nil {
		t.Fatalf("LoadFromArgs() error = %v", err)
	}

	if cfg.API.BaseURL != DefaultAPIURL {
		t.Errorf("API.BaseURL = %q, want %q", cfg.API.BaseURL, DefaultAPIURL)
	}
	if cfg.API.UserAgent != "newsdesk/1.0" {
		t.Errorf("API.UserAgent = %q, want newsdesk/1.0", cfg.API.UserAgent)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want 30s", cfg.API.Timeout)
	}
	if cfg.Session.Backend != "file" {
		t.Errorf("Session.Backend = %q, want file", cfg.Session.Backend)
	}
	if cfg.Session.Path != "/home/reader/.config/newsdesk" {
		t.Errorf("Session.Path = %q", cfg.Session.Path)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Cache.Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Server.LoginPath != "/login" {
		t.Errorf("Server.LoginPath = %q, want /login", cfg.Server.LoginPath)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadFromArgs_EnvOverrides(t *testing.T) {
	env := envMap(map[string]string{
		"NEWSDESK_API_URL": "http://backend:5000",
		"API_TIMEOUT":      "5s",
		"SESSION_BACKEND":  "redis",
		"CACHE_BACKEND":    "redis",
		"CACHE_TTL":        "2m",
		"REDIS_ADDR":       "redis:6379",
		"HTTP_ADDR":        ":9090",
		"LOG_LEVEL":        "debug",
		"LOG_FORMAT":       "json",

		"SESSION_ENCRYPTION_KEY": "c2VjcmV0",
	})

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := LoadFromArgs(fs, nil, env)
	if err != nil {
		t.Fatalf("LoadFromArgs() error = %v", err)
	}

	if cfg.API.BaseURL != "http://backend:5000" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("API.Timeout = %v, want 5s", cfg.API.Timeout)
	}
	if cfg.Session.Backend != "redis" {
		t.Errorf("Session.Backend = %q, want redis", cfg.Session.Backend)
	}
	if cfg.Session.RedisAddr != "redis:6379" {
		t.Errorf("Session.RedisAddr = %q, want redis:6379", cfg.Session.RedisAddr)
	}
	if cfg.Session.EncryptionKey != "c2VjcmV0" {
		t.Errorf("Session.EncryptionKey = %q", cfg.Session.EncryptionKey)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("Cache.TTL = %v, want 2m", cfg.Cache.TTL)
	}
	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("Server.HTTPAddr = %q, want :9090", cfg.Server.HTTPAddr)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadFromArgs_FlagBeatsEnv(t *testing.T) {
	env := envMap(map[string]string{"LOG_LEVEL": "debug", "HTTP_ADDR": ":9090"})

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := LoadFromArgs(fs, []string{"-log-level", "error", "-api-url", "http://flag:1/"}, env)
	if err != nil {
		t.Fatalf("LoadFromArgs() error = %v", err)
	}

	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", cfg.Logging.Level)
	}
	if cfg.Server.HTTPAddr != ":9090" {
		t.Errorf("Server.HTTPAddr = %q, want :9090", cfg.Server.HTTPAddr)
	}
	if cfg.API.BaseURL != "http://flag:1" {
		t.Errorf("API.BaseURL = %q, want http://flag:1", cfg.API.BaseURL)
	}
}

func TestLoadFromArgs_InvalidDurationIgnored(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := LoadFromArgs(fs, nil, envMap(map[string]string{"API_TIMEOUT": "soon"}))
	if err != nil {
		t.Fatalf("LoadFromArgs() error = %v", err)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("API.Timeout = %v, want default 30s", cfg.API.Timeout)
	}
}

func TestLoad_UserAgentFromEnv(t *testing.T) {
	t.Setenv("NEWSDESK_USER_AGENT", "dashboard/2.0")
	cfg := loadWithArgs(t, "test")
	if cfg.API.UserAgent != "dashboard/2.0" {
		t.Fatalf("API.UserAgent = %q, want dashboard/2.0", cfg.API.UserAgent)
	}
}

func TestLoad_APIURLFromFlag(t *testing.T) {
	t.Setenv("NEWSDESK_API_URL", "")
	cfg := loadWithArgs(t, "test", "-api-url", "http://localhost:5000")
	if cfg.API.BaseURL != "http://localhost:5000" {
		t.Fatalf("API.BaseURL = %q, want http://localhost:5000", cfg.API.BaseURL)
	}
}
