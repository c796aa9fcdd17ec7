package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/johnrirwin/newsdesk/internal/api"
	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/auth"
	"github.com/johnrirwin/newsdesk/internal/cache"
	"github.com/johnrirwin/newsdesk/internal/models"
	"github.com/johnrirwin/newsdesk/internal/session"
	"github.com/johnrirwin/newsdesk/internal/storage"
	"github.com/johnrirwin/newsdesk/internal/testutil"
)

type harness struct {
	backend *testutil.Backend
	store   *session.Store
	cache   *cache.MemoryCache
	server  *Server
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := testutil.NewBackend(t)
	store := session.NewStore(storage.NewMemory())
	logger := testutil.NullLogger()
	registry := prometheus.NewRegistry()

	client := apiclient.New(apiclient.Config{BaseURL: backend.APIBase(), Registerer: registry}, store, logger)
	authClient := apiclient.New(apiclient.Config{BaseURL: backend.APIBase()}, nil, logger)
	authSvc := auth.NewService(authClient, store, logger)

	c := cache.NewMemory(time.Minute)
	t.Cleanup(c.Stop)

	srv := New(Options{
		Client:         client,
		Articles:       api.NewArticles(client, logger),
		Feeds:          api.NewFeeds(client, logger),
		Gemini:         api.NewGemini(client, logger),
		Analytics:      api.NewAnalytics(client, logger),
		AuthService:    authSvc,
		AuthMiddleware: auth.NewMiddleware(authSvc, "/login"),
		Cache:          c,
		Gatherer:       registry,
		Logger:         logger,
	})

	return &harness{
		backend: backend,
		store:   store,
		cache:   c,
		server:  srv,
		handler: srv.Handler(),
	}
}

var editor = models.User{ID: "u1", Username: "editor", Role: "admin"}

func (h *harness) signIn(t *testing.T) {
	t.Helper()
	if err := h.store.Save(models.Session{Token: "tok-1", User: &editor}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func (h *harness) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w
}

func (h *harness) count(method, path string) int {
	n := 0
	for _, r := range h.backend.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestWriteJSON(t *testing.T) {
	s := &Server{logger: testutil.NullLogger()}

	tests := []struct {
		name       string
		status     int
		data       interface{}
		wantStatus int
	}{
		{
			name:       "success response",
			status:     http.StatusOK,
			data:       map[string]string{"message": "hello"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "created response",
			status:     http.StatusCreated,
			data:       models.FeedSource{ID: "f1", Name: "Haber"},
			wantStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.writeJSON(w, tt.status, tt.data)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			contentType := w.Header().Get("Content-Type")
			if contentType != "application/json" {
				t.Errorf("Content-Type = %s, want application/json", contentType)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	s := &Server{logger: testutil.NullLogger()}

	tests := []struct {
		name    string
		status  int
		code    string
		message string
	}{
		{"bad request", http.StatusBadRequest, "invalid_input", "name is required"},
		{"not found", http.StatusNotFound, "upstream_error", "resource not found"},
		{"bad gateway", http.StatusBadGateway, "upstream_unavailable", "backend unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.writeError(w, tt.status, tt.code, tt.message)

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			response := decode(t, w)
			if response["error"] != tt.code {
				t.Errorf("error = %v, want %s", response["error"], tt.code)
			}
			if response["message"] != tt.message {
				t.Errorf("message = %v, want %s", response["message"], tt.message)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	s := &Server{logger: testutil.NullLogger()}

	handler := s.corsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("OPTIONS request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/feeds", nil))

		if w.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("Missing Access-Control-Allow-Origin header")
		}
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
	})

	t.Run("GET request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/feeds", nil))

		if w.Code != http.StatusTeapot {
			t.Errorf("status = %d, want %d", w.Code, http.StatusTeapot)
		}
	})
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"default when absent", "", 20},
		{"custom value", "limit=50", 50},
		{"zero ignored", "limit=0", 20},
		{"negative ignored", "limit=-3", 20},
		{"garbage ignored", "limit=abc", 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/articles?"+tt.query, nil)
			if got := queryInt(req, "limit", 20); got != tt.want {
				t.Errorf("queryInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["status"] != "healthy" {
		t.Error("expected healthy status")
	}
}

func TestAPI_RequiresSession(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/feeds", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := decode(t, w)["redirect"]; got != "/login" {
		t.Errorf("redirect = %v, want /login", got)
	}
	if len(h.backend.Requests()) != 0 {
		t.Error("no backend request expected without a session")
	}
}

func TestLogin(t *testing.T) {
	t.Run("success persists session", func(t *testing.T) {
		h := newHarness(t)
		h.backend.JSON(http.MethodPost, "/auth/login", http.StatusOK, testutil.OK(map[string]interface{}{
			"token": "tok-9",
			"user":  editor,
		}))
		h.cache.Set("statistics", []byte("{}"))

		w := h.do(http.MethodPost, "/login", `{"username":"editor","password":"secret"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if decode(t, w)["success"] != true {
			t.Error("success = false")
		}
		if tok, _ := h.store.Token(); tok != "tok-9" {
			t.Errorf("stored token = %q", tok)
		}
		if h.cache.Len() != 0 {
			t.Error("login should clear the query cache")
		}
	})

	t.Run("rejected credentials", func(t *testing.T) {
		h := newHarness(t)
		h.backend.JSON(http.MethodPost, "/auth/login", http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"error":   "Kullanıcı adı veya şifre hatalı",
		})

		w := h.do(http.MethodPost, "/login", `{"username":"editor","password":"wrong"}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if got := decode(t, w)["error"]; got != "Kullanıcı adı veya şifre hatalı" {
			t.Errorf("error = %v", got)
		}
		if h.store.Load().Valid() {
			t.Error("rejected login must not store a session")
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		h := newHarness(t)
		w := h.do(http.MethodPost, "/login", `{"username":"editor"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		if len(h.backend.Requests()) != 0 {
			t.Error("invalid input must not reach the backend")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		h := newHarness(t)
		if w := h.do(http.MethodPost, "/login", `{"username":`); w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestLogoutAndSession(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	w := h.do(http.MethodGet, "/session", "")
	body := decode(t, w)
	if body["authenticated"] != true {
		t.Fatalf("session = %v", body)
	}
	user, _ := body["user"].(map[string]interface{})
	if user["username"] != "editor" {
		t.Errorf("user = %v", body["user"])
	}

	w = h.do(http.MethodPost, "/logout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	if decode(t, w)["redirect"] != "/login" {
		t.Error("logout should point at the login boundary")
	}

	if decode(t, h.do(http.MethodGet, "/session", ""))["authenticated"] != false {
		t.Error("session should be gone after logout")
	}
	if len(h.backend.Requests()) != 0 {
		t.Error("logout must not contact the backend")
	}
}

func TestSession_VerifyClearsRejectedToken(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/auth/verify", http.StatusOK, testutil.OK(map[string]interface{}{"valid": false}))

	body := decode(t, h.do(http.MethodGet, "/session?verify=true", ""))
	if body["authenticated"] != false {
		t.Errorf("authenticated = %v, want false", body["authenticated"])
	}
	if h.store.Load().Valid() {
		t.Error("rejected token should be cleared")
	}
}

func TestLoginBoundary(t *testing.T) {
	h := newHarness(t)
	w := h.do(http.MethodGet, "/login", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if decode(t, w)["authenticated"] != false {
		t.Error("authenticated should be false")
	}
}

func TestListArticles_CachesAndCanonicalises(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/articles", http.StatusOK, testutil.OK(map[string]interface{}{
		"articles":   []interface{}{map[string]interface{}{"id": "a1", "title": "Derbi"}},
		"pagination": models.NewPagination(2, 20, 25),
	}))

	target := "/api/articles?page=2&categoryNames=spor,EKONOMİ&startDate=01.03.2024"
	first := h.do(http.MethodGet, target, "")
	if first.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", first.Code, first.Body.String())
	}
	if first.Header().Get("X-Cache") != "MISS" {
		t.Errorf("first X-Cache = %q, want MISS", first.Header().Get("X-Cache"))
	}

	second := h.do(http.MethodGet, target, "")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}
	if second.Body.String() != first.Body.String() {
		t.Error("cached body differs from the original")
	}
	if n := h.count(http.MethodGet, "/articles"); n != 1 {
		t.Fatalf("backend received %d listing requests, want 1", n)
	}

	q, err := url.ParseQuery(h.backend.Last(t).Query)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}
	if got := q.Get("categoryNames"); got != "Spor,Ekonomi" {
		t.Errorf("categoryNames = %q, want Spor,Ekonomi", got)
	}
	if got := q.Get("page"); got != "2" {
		t.Errorf("page = %q, want 2", got)
	}
	if got := q.Get("startDate"); got != "2024-03-01T00:00:00Z" {
		t.Errorf("startDate = %q", got)
	}
}

func TestListArticles_InvalidDate(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	w := h.do(http.MethodGet, "/api/articles?endDate=yesterday", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(h.backend.Requests()) != 0 {
		t.Error("invalid filters must not reach the backend")
	}
}

func TestSearchArticles_RequiresQuery(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	w := h.do(http.MethodGet, "/api/articles/search?q=%20", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if decode(t, w)["error"] != "invalid_input" {
		t.Error("expected invalid_input")
	}
}

func TestAddFeed_InvalidatesFeedList(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/feeds", http.StatusOK, testutil.OK([]interface{}{}))
	h.backend.JSON(http.MethodPost, "/feeds", http.StatusCreated, testutil.OK(map[string]interface{}{
		"id": "f1", "name": "Haber", "url": "https://example.com/rss", "isActive": true,
	}))

	h.do(http.MethodGet, "/api/feeds", "")
	h.do(http.MethodGet, "/api/feeds", "")
	if n := h.count(http.MethodGet, "/feeds"); n != 1 {
		t.Fatalf("feeds fetched %d times before mutation, want 1", n)
	}

	w := h.do(http.MethodPost, "/api/feeds", `{"name":"Haber","url":"https://example.com/rss"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("add status = %d, body %s", w.Code, w.Body.String())
	}

	h.do(http.MethodGet, "/api/feeds", "")
	if n := h.count(http.MethodGet, "/feeds"); n != 2 {
		t.Errorf("feeds fetched %d times after mutation, want 2", n)
	}
}

func TestAddFeed_Validation(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	w := h.do(http.MethodPost, "/api/feeds", `{"name":"Haber","url":"not a url"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestFetchAll_InvalidatesArticles(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodPost, "/feeds/fetch-all", http.StatusOK, testutil.OK(map[string]interface{}{"newArticles": 4}))

	h.cache.Set(cache.Key(keyArticles, 1, 20), []byte("{}"))
	h.cache.Set(keyStatistics, []byte("{}"))
	h.cache.Set(keySummaries, []byte("{}"))

	if w := h.do(http.MethodPost, "/api/feeds/fetch-all", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	if _, ok := h.cache.Get(cache.Key(keyArticles, 1, 20)); ok {
		t.Error("article listing should be invalidated")
	}
	if _, ok := h.cache.Get(keyStatistics); ok {
		t.Error("statistics should be invalidated")
	}
	if _, ok := h.cache.Get(keySummaries); !ok {
		t.Error("summaries are unaffected by ingestion")
	}
}

func TestSessionInvalidation(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/feeds", http.StatusUnauthorized, map[string]interface{}{
		"success": false, "error": "Token süresi doldu",
	})
	h.cache.Set(keyStatistics, []byte("{}"))

	w := h.do(http.MethodGet, "/api/feeds", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := decode(t, w)["redirect"]; got != "/login" {
		t.Errorf("redirect = %v, want /login", got)
	}
	if h.store.Load().Valid() {
		t.Error("session should be cleared")
	}
	if h.cache.Len() != 0 {
		t.Error("query cache should be cleared on invalidation")
	}

	if w := h.do(http.MethodGet, "/api/feeds", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("follow-up status = %d, want 401", w.Code)
	}
	if n := h.count(http.MethodGet, "/feeds"); n != 1 {
		t.Errorf("backend hit %d times, want 1", n)
	}
}

func TestInterstitialPage(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.Raw(http.MethodGet, "/articles/statistics", http.StatusOK, "text/html; charset=utf-8",
		"<html><head><title>Visit Site</title></head><body></body></html>")

	w := h.do(http.MethodGet, "/api/articles/statistics", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if decode(t, w)["error"] != "unexpected_content" {
		t.Error("expected unexpected_content")
	}
}

func TestUpstreamError(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/articles/missing", http.StatusNotFound, map[string]interface{}{
		"success": false, "error": "Haber bulunamadı",
	})

	w := h.do(http.MethodGet, "/api/articles/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := decode(t, w)["message"]; got != "Haber bulunamadı" {
		t.Errorf("message = %v", got)
	}
}

func TestLatestReport_Absent(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/analytics/report/latest", http.StatusOK, map[string]interface{}{
		"success": true, "data": nil,
	})

	w := h.do(http.MethodGet, "/api/analytics/report/latest?type=weekly", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["success"] != true || body["data"] != nil {
		t.Errorf("body = %v, want success with null data", body)
	}
	if q := h.backend.Last(t).Query; q != "type=weekly" {
		t.Errorf("query = %q, want type=weekly", q)
	}
}

func TestLatestArtifacts_ReportedFailureIsNotCached(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	failure := map[string]interface{}{"success": false, "error": "report generation failed"}
	h.backend.JSON(http.MethodGet, "/analytics/report/latest", http.StatusOK, failure)
	h.backend.JSON(http.MethodGet, "/analytics/wordfrequency/latest", http.StatusOK, failure)

	for i := 0; i < 2; i++ {
		w := h.do(http.MethodGet, "/api/analytics/report/latest?type=daily", "")
		if body := decode(t, w); body["success"] != false {
			t.Fatalf("report body = %v, want success:false", body)
		}
		if got := w.Header().Get("X-Cache"); got != "BYPASS" {
			t.Errorf("X-Cache = %q, want BYPASS", got)
		}

		w = h.do(http.MethodGet, "/api/analytics/wordcloud", "")
		if body := decode(t, w); body["success"] != false {
			t.Fatalf("word cloud body = %v, want success:false", body)
		}
	}

	if n := h.count(http.MethodGet, "/analytics/report/latest"); n != 2 {
		t.Errorf("backend report calls = %d, want 2", n)
	}
	if h.cache.Len() != 0 {
		t.Errorf("cache holds %d entries, want 0", h.cache.Len())
	}
}

func TestServeCached_InvalidationDuringFetch(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.Handle(http.MethodGet, "/articles/statistics", func(w http.ResponseWriter, r *http.Request) {
		// The session ends while this response is in flight
		h.server.onSessionInvalidated(apiclient.InvalidationEvent{Method: http.MethodGet, Path: "/feeds"})
		testutil.WriteJSON(w, http.StatusOK, testutil.OK(models.Statistics{TotalArticles: 3}))
	})

	w := h.do(http.MethodGet, "/api/articles/statistics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Cache"); got != "BYPASS" {
		t.Errorf("X-Cache = %q, want BYPASS", got)
	}
	if h.cache.Len() != 0 {
		t.Error("a response fetched before the invalidation must not be cached")
	}

	h.do(http.MethodGet, "/api/articles/statistics", "")
	if n := h.count(http.MethodGet, "/articles/statistics"); n != 2 {
		t.Errorf("backend calls = %d, want 2", n)
	}
}

func TestReportRoutes_InvalidType(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	for _, target := range []string{
		"/api/analytics/report/latest?type=yearly",
		"/api/analytics/report/history?type=hourly",
	} {
		if w := h.do(http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", target, w.Code)
		}
	}
	if w := h.do(http.MethodPost, "/api/analytics/report/generate", `{"type":"yearly"}`); w.Code != http.StatusBadRequest {
		t.Errorf("generate status = %d, want 400", w.Code)
	}
	if len(h.backend.Requests()) != 0 {
		t.Error("invalid report types must not reach the backend")
	}
}

func TestGenerateReport_InvalidatesReports(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodPost, "/analytics/report/generate", http.StatusOK, testutil.OK(map[string]interface{}{
		"id": "r1", "type": "daily", "summary": "metin",
	}))
	h.cache.Set(cache.Key(keyLatestReport, models.ReportDaily), []byte("{}"))
	h.cache.Set(cache.Key(keyReportHistory, models.ReportDaily, 10), []byte("{}"))

	if w := h.do(http.MethodPost, "/api/analytics/report/generate", `{"type":"Daily"}`); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if h.cache.Len() != 0 {
		t.Error("report caches should be invalidated")
	}
}

func TestWordCloud(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/analytics/wordfrequency/latest", http.StatusOK, testutil.OK(map[string]interface{}{
		"id": "w1",
		"words": []map[string]interface{}{
			{"word": "ekonomi", "count": 40},
			{"word": "seçim", "count": 25},
			{"word": "hava", "count": 10},
		},
	}))

	w := h.do(http.MethodGet, "/api/analytics/wordcloud?max=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var body models.Envelope[[]struct {
		Word string `json:"word"`
		Tier string `json:"tier"`
	}]
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("words = %d, want 2", len(body.Data))
	}
	if body.Data[0].Word != "ekonomi" || body.Data[0].Tier != "high" {
		t.Errorf("first word = %+v", body.Data[0])
	}
}

func TestWordCloud_NoAnalysis(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/analytics/wordfrequency/latest", http.StatusNotFound, map[string]interface{}{
		"success": false, "error": "Analiz bulunamadı",
	})

	w := h.do(http.MethodGet, "/api/analytics/wordcloud", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	words, ok := body["data"].([]interface{})
	if !ok || len(words) != 0 {
		t.Errorf("data = %v, want empty list", body["data"])
	}
}

func TestReportHTML(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/analytics/report/r1", http.StatusOK, testutil.OK(map[string]interface{}{
		"id":      "r1",
		"type":    "daily",
		"summary": "### Gündem\nEkonomi öne çıktı.\n<script>alert(1)</script>",
	}))

	w := h.do(http.MethodGet, "/api/analytics/report/r1/html", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	html := w.Body.String()
	if !strings.Contains(html, "<h3") || !strings.Contains(html, "Ekonomi öne çıktı.") {
		t.Errorf("html = %q", html)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("script tag leaked into %q", html)
	}
}

func TestSummarize_DefaultRange(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodPost, "/gemini/summarize", http.StatusOK, testutil.OK(map[string]interface{}{
		"id": "s1", "summary": "Özet", "articleCount": 12,
	}))
	h.cache.Set(cache.Key(keySummaries, 1, 10), []byte("{}"))

	w := h.do(http.MethodPost, "/api/gemini/summarize", `{}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var sent models.SummarizeRequest
	if err := json.Unmarshal(h.backend.Last(t).Body, &sent); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if d := sent.EndDate.Sub(sent.StartDate); d != 24*time.Hour {
		t.Errorf("range = %v, want 24h", d)
	}
	if _, ok := h.cache.Get(cache.Key(keySummaries, 1, 10)); ok {
		t.Error("summaries should be invalidated")
	}
}

func TestSummarize_InvalidDates(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)

	w := h.do(http.MethodPost, "/api/gemini/summarize", `{"startDate":"2024-03-05","endDate":"2024-03-01"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestMetrics(t *testing.T) {
	h := newHarness(t)
	h.signIn(t)
	h.backend.JSON(http.MethodGet, "/articles/statistics", http.StatusOK, testutil.OK(models.Statistics{TotalArticles: 3}))

	h.do(http.MethodGet, "/api/articles/statistics", "")

	w := h.do(http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "newsdesk_api_requests_total") {
		t.Errorf("metrics output missing request counter:\n%s", w.Body.String())
	}
}
