package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/johnrirwin/newsdesk/internal/api"
	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/auth"
	"github.com/johnrirwin/newsdesk/internal/cache"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/report"
)

// Cache key prefixes. Mutations delete whole prefixes.
const (
	keyArticles      = "articles"
	keyArticle       = "article"
	keyLatest        = "latest"
	keyTrending      = "trending"
	keySearch        = "search"
	keyStatistics    = "statistics"
	keyFeeds         = "feeds"
	keySummaries     = "summaries"
	keySearchHistory = "searchHistory"
	keyWordFrequency = "wordFrequency"
	keyWordCloud     = "wordCloud"
	keyLatestReport  = "latestReport"
	keyReportHistory = "reportHistory"
	keyReport        = "report"
)

// articleKeys hold anything that changes when the backend ingests new articles
var articleKeys = []string{keyArticles, keyArticle, keyLatest, keyTrending, keySearch, keyStatistics, keyFeeds}

// Options wires the dashboard server to its collaborators
type Options struct {
	Client         *apiclient.Client
	Articles       *api.Articles
	Feeds          *api.Feeds
	Gemini         *api.Gemini
	Analytics      *api.Analytics
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	Interpreter    *report.Interpreter
	Cache          cache.Cache
	// Gatherer backs /metrics. Nil uses the default registry.
	Gatherer prometheus.Gatherer
	Logger   *logging.Logger
}

// Server is the dashboard's HTTP surface over the backend API
type Server struct {
	articles       *api.Articles
	feeds          *api.Feeds
	gemini         *api.Gemini
	analytics      *api.Analytics
	authSvc        *auth.Service
	authMiddleware *auth.Middleware
	interpreter    *report.Interpreter
	cache          cache.Cache
	gatherer       prometheus.Gatherer
	logger         *logging.Logger
	unsubscribe    func()

	// cacheMu orders cache writes against invalidation; gen counts invalidations
	cacheMu sync.RWMutex
	gen     uint64

	mu     sync.Mutex
	server *http.Server
	closed bool
}

// New creates a server and subscribes it to session invalidation on opts.Client
func New(opts Options) *Server {
	s := &Server{
		articles:       opts.Articles,
		feeds:          opts.Feeds,
		gemini:         opts.Gemini,
		analytics:      opts.Analytics,
		authSvc:        opts.AuthService,
		authMiddleware: opts.AuthMiddleware,
		interpreter:    opts.Interpreter,
		cache:          opts.Cache,
		gatherer:       opts.Gatherer,
		logger:         opts.Logger,
		unsubscribe:    func() {},
	}
	if s.cache == nil {
		s.cache = cache.NewMemory(time.Minute)
	}
	if s.gatherer == nil {
		s.gatherer = prometheus.DefaultGatherer
	}
	if s.authMiddleware == nil {
		s.authMiddleware = auth.NewMiddleware(s.authSvc, "")
	}
	if s.interpreter == nil {
		s.interpreter = report.NewInterpreter(s.logger)
	}
	if opts.Client != nil {
		s.unsubscribe = opts.Client.Subscribe(s.onSessionInvalidated)
	}
	return s
}

// Handler builds the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// Session routes
	r.Get(s.authMiddleware.LoginPath(), s.handleLoginBoundary)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/session", s.handleSession)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware.RequireSession)
		s.articleRoutes(r)
		s.feedRoutes(r)
		s.geminiRoutes(r)
		s.analyticsRoutes(r)
	})

	return r
}

func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return http.ErrServerClosed
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	s.server = srv
	s.mu.Unlock()

	s.logger.Info("Dashboard server starting", logging.WithField("addr", addr))
	return srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	srv := s.server
	s.mu.Unlock()

	s.unsubscribe()
	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

// onSessionInvalidated drops everything cached under the ended session
func (s *Server) onSessionInvalidated(ev apiclient.InvalidationEvent) {
	s.clearCache()
	s.logger.Warn("Session invalidated, query cache cleared", logging.WithFields(map[string]interface{}{
		"method":    ev.Method,
		"path":      ev.Path,
		"requestId": ev.RequestID,
	}))
}

func (s *Server) invalidate(prefixes ...string) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen++
	for _, p := range prefixes {
		s.cache.DeletePrefix(p)
	}
}

func (s *Server) clearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen++
	s.cache.Clear()
}

func (s *Server) generation() uint64 {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return s.gen
}

// storeIfCurrent caches data unless an invalidation ran since gen was read
func (s *Server) storeIfCurrent(key string, gen uint64, data []byte) bool {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	if s.gen != gen {
		return false
	}
	s.cache.Set(key, data)
	return true
}

// reportsFailure is true for an envelope carrying success:false
func reportsFailure(data []byte) bool {
	var env struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return false
	}
	return env.Success != nil && !*env.Success
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("HTTP request", logging.WithFields(map[string]interface{}{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    ww.Status(),
			"duration":  time.Since(start).String(),
			"requestId": middleware.GetReqID(r.Context()),
		}))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// serveCached answers from the query cache, or stores the fetched value under key.
// Envelopes reporting failure and values fetched across an invalidation are not stored.
func (s *Server) serveCached(w http.ResponseWriter, key string, fetch func() (interface{}, error)) {
	if data, ok := s.cache.Get(key); ok {
		w.Header().Set("X-Cache", "HIT")
		s.writeRaw(w, http.StatusOK, data)
		return
	}

	gen := s.generation()
	v, err := fetch()
	if err != nil {
		s.writeAPIError(w, err)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode response", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "internal_error", "failed to encode response")
		return
	}
	if reportsFailure(data) || !s.storeIfCurrent(key, gen, data) {
		w.Header().Set("X-Cache", "BYPASS")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	s.writeRaw(w, http.StatusOK, data)
}

// writeAPIError maps a backend call failure onto a dashboard response
func (s *Server) writeAPIError(w http.ResponseWriter, err error) {
	var apiErr *apiclient.APIError
	switch {
	case errors.Is(err, apiclient.ErrSessionInvalidated):
		s.authMiddleware.Redirect(w)
	case errors.Is(err, api.ErrInvalidArgument):
		s.writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, apiclient.ErrUnexpectedContent):
		s.logger.Warn("Backend returned a non-JSON page", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusBadGateway, "unexpected_content", "backend returned an unexpected page")
	case errors.As(err, &apiErr):
		message := apiErr.Message
		if message == "" {
			message = http.StatusText(apiErr.StatusCode)
		}
		s.writeError(w, apiErr.StatusCode, "upstream_error", message)
	case errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusGatewayTimeout, "timeout", "backend did not answer in time")
	default:
		s.logger.Error("Backend request failed", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusBadGateway, "upstream_unavailable", "backend unavailable")
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeRaw(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return false
	}
	return true
}

// queryInt reads a positive integer parameter; anything else yields def
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}
