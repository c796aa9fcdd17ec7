package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/johnrirwin/newsdesk/internal/api"
	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/auth"
	"github.com/johnrirwin/newsdesk/internal/cache"
	"github.com/johnrirwin/newsdesk/internal/config"
	"github.com/johnrirwin/newsdesk/internal/crypto"
	"github.com/johnrirwin/newsdesk/internal/httpapi"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/report"
	"github.com/johnrirwin/newsdesk/internal/session"
	"github.com/johnrirwin/newsdesk/internal/storage"
)

// App holds all application dependencies
type App struct {
	Config         *config.Config
	Logger         *logging.Logger
	Registry       *prometheus.Registry
	Storage        storage.Storage
	Session        *session.Store
	Client         *apiclient.Client
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	Articles       *api.Articles
	Feeds          *api.Feeds
	Gemini         *api.Gemini
	Analytics      *api.Analytics
	Interpreter    *report.Interpreter
	Cache          cache.Cache
	HTTPServer     *httpapi.Server
}

// New creates and initializes a new App instance
func New(cfg *config.Config) (*App, error) {
	return NewWithLogger(cfg, nil)
}

// NewWithLogger is New with an explicit logger; nil builds one from cfg.Logging
func NewWithLogger(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	app := &App{Config: cfg, Logger: logger}

	// Initialize logger
	if app.Logger == nil {
		app.Logger = app.initLogger()
	}

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(collectors.NewGoCollector())

	// Initialize session storage
	st, err := app.sealStorage(app.initStorage())
	if err != nil {
		return nil, err
	}
	app.Storage = st
	app.Session = session.NewStore(app.Storage)

	// Initialize API clients and services
	app.initServices()

	// Initialize cache
	app.Cache = app.initCache()

	// Initialize servers
	app.initServers()

	return app, nil
}

// Run serves the dashboard until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("Starting HTTP server", logging.WithField("addr", a.Config.Server.HTTPAddr))

	// Check the stored session in background
	go func() {
		a.Logger.Info("Verifying stored session in background...")
		sess := a.AuthService.Restore(ctx)
		if sess.Valid() {
			a.Logger.Info("Stored session restored", logging.WithField("userId", sess.User.ID))
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.HTTPServer.Start(a.Config.Server.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	if a.HTTPServer != nil {
		if err := a.HTTPServer.Shutdown(ctx); err != nil {
			a.Logger.Error("HTTP server shutdown error", logging.WithField("error", err.Error()))
		}
	}

	switch c := a.Cache.(type) {
	case *cache.MemoryCache:
		c.Stop()
	case *cache.RedisCache:
		if err := c.Close(); err != nil {
			a.Logger.Error("Cache close error", logging.WithField("error", err.Error()))
		}
	}

	st := a.Storage
	if enc, ok := st.(*storage.Encrypted); ok {
		st = enc.Unwrap()
	}
	if rs, ok := st.(*storage.RedisStorage); ok {
		if err := rs.Close(); err != nil {
			a.Logger.Error("Session storage close error", logging.WithField("error", err.Error()))
		}
	}

	return nil
}

func (a *App) initLogger() *logging.Logger {
	return logging.NewWithOptions(logging.Options{
		Level:  logging.ParseLevel(a.Config.Logging.Level),
		Format: a.Config.Logging.Format,
	})
}

func (a *App) initStorage() storage.Storage {
	switch a.Config.Session.Backend {
	case "redis":
		a.Logger.Info("Using Redis session storage", logging.WithField("addr", a.Config.Session.RedisAddr))
		rs, err := storage.NewRedis(storage.RedisConfig{
			Addr:   a.Config.Session.RedisAddr,
			Prefix: a.Config.Session.RedisPrefix,
		})
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to file session storage", logging.WithField("error", err.Error()))
			return storage.NewFile(a.Config.Session.Path)
		}
		return rs
	case "memory":
		a.Logger.Info("Using in-memory session storage; the session ends with the process")
		return storage.NewMemory()
	default:
		fs := storage.NewFile(a.Config.Session.Path)
		a.Logger.Debug("Using file session storage", logging.WithField("path", fs.Path()))
		return fs
	}
}

// sealStorage wraps st when a session encryption key is configured
func (a *App) sealStorage(st storage.Storage) (storage.Storage, error) {
	if a.Config.Session.EncryptionKey == "" {
		return st, nil
	}
	enc, err := crypto.NewEncryptorFromString(a.Config.Session.EncryptionKey)
	if err != nil {
		if rs, ok := st.(*storage.RedisStorage); ok {
			rs.Close()
		}
		return nil, fmt.Errorf("app: session encryption key: %w", err)
	}
	a.Logger.Debug("Session values are encrypted at rest")
	return storage.NewEncrypted(st, enc), nil
}

func (a *App) initServices() {
	clientCfg := apiclient.Config{
		BaseURL:    a.Config.API.APIBase(),
		Timeout:    a.Config.API.Timeout,
		UserAgent:  a.Config.API.UserAgent,
		Registerer: a.Registry,
	}

	// The session-bearing client tears the session down on 401
	a.Client = apiclient.New(clientCfg, a.Session, a.Logger.With(logging.Fields{"component": "apiclient"}))

	// Login runs without stored credentials, so a rejected login is never an invalidation
	authClient := apiclient.New(clientCfg, nil, a.Logger.With(logging.Fields{"component": "auth"}))
	a.AuthService = auth.NewService(authClient, a.Session, a.Logger)
	a.AuthMiddleware = auth.NewMiddleware(a.AuthService, a.Config.Server.LoginPath)

	a.Articles = api.NewArticles(a.Client, a.Logger)
	a.Feeds = api.NewFeeds(a.Client, a.Logger)
	a.Gemini = api.NewGemini(a.Client, a.Logger)
	a.Analytics = api.NewAnalytics(a.Client, a.Logger)
	a.Interpreter = report.NewInterpreter(a.Logger)
}

func (a *App) initCache() cache.Cache {
	switch a.Config.Cache.Backend {
	case "redis":
		a.Logger.Info("Using Redis cache backend", logging.WithField("addr", a.Config.Cache.RedisAddr))
		redisCache, err := cache.NewRedis(cache.RedisConfig{
			Addr:   a.Config.Cache.RedisAddr,
			Prefix: "newsdesk:cache:",
		}, a.Config.Cache.TTL)
		if err != nil {
			a.Logger.Error("Failed to connect to Redis, falling back to memory cache", logging.WithField("error", err.Error()))
			return cache.NewMemory(a.Config.Cache.TTL)
		}
		return redisCache
	default:
		a.Logger.Debug("Using in-memory cache backend")
		return cache.NewMemory(a.Config.Cache.TTL)
	}
}

func (a *App) initServers() {
	a.HTTPServer = httpapi.New(httpapi.Options{
		Client:         a.Client,
		Articles:       a.Articles,
		Feeds:          a.Feeds,
		Gemini:         a.Gemini,
		Analytics:      a.Analytics,
		AuthService:    a.AuthService,
		AuthMiddleware: a.AuthMiddleware,
		Interpreter:    a.Interpreter,
		Cache:          a.Cache,
		Gatherer:       a.Registry,
		Logger:         a.Logger,
	})
}
