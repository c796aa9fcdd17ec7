package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/johnrirwin/newsdesk/internal/cache"
	"github.com/johnrirwin/newsdesk/internal/models"
)

const (
	defaultPageSize  = 20
	defaultListLimit = 10
)

func (s *Server) articleRoutes(r chi.Router) {
	r.Get("/articles", s.handleListArticles)
	r.Get("/articles/latest", s.handleLatestArticles)
	r.Get("/articles/trending", s.handleTrendingArticles)
	r.Get("/articles/search", s.handleSearchArticles)
	r.Get("/articles/statistics", s.handleStatistics)
	r.Get("/articles/{id}", s.handleGetArticle)
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	params, ok := s.parseArticleParams(w, r)
	if !ok {
		return
	}

	key := cache.Key(keyArticles, params.Page, params.Limit, params.SourceID, params.CategoryID,
		params.CategoryNames, dateKey(params.StartDate), dateKey(params.EndDate), params.Search)
	s.serveCached(w, key, func() (interface{}, error) {
		return s.articles.List(r.Context(), params)
	})
}

// parseArticleParams reads listing filters, canonicalising category names
func (s *Server) parseArticleParams(w http.ResponseWriter, r *http.Request) (models.ArticleParams, bool) {
	q := r.URL.Query()
	params := models.ArticleParams{
		Page:       queryInt(r, "page", 1),
		Limit:      queryInt(r, "limit", defaultPageSize),
		SourceID:   q.Get("sourceId"),
		CategoryID: q.Get("categoryId"),
		Search:     strings.TrimSpace(q.Get("search")),
	}

	if names := q.Get("categoryNames"); names != "" {
		params.CategoryNames = models.CanonicalCategories(strings.Split(names, ","))
	}

	if v := q.Get("startDate"); v != "" {
		t, ok := models.ParseDateFilter(v)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "invalid_input", "invalid startDate")
			return params, false
		}
		params.StartDate = t
	}
	if v := q.Get("endDate"); v != "" {
		t, ok := models.ParseDateFilter(v)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "invalid_input", "invalid endDate")
			return params, false
		}
		if isMidnight(t) {
			t = models.EndOfDay(t)
		}
		params.EndDate = t
	}

	return params, true
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.serveCached(w, cache.Key(keyArticle, id), func() (interface{}, error) {
		return s.articles.Get(r.Context(), id)
	})
}

func (s *Server) handleLatestArticles(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	s.serveCached(w, cache.Key(keyLatest, limit), func() (interface{}, error) {
		return s.articles.Latest(r.Context(), limit)
	})
}

func (s *Server) handleTrendingArticles(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	s.serveCached(w, cache.Key(keyTrending, limit), func() (interface{}, error) {
		return s.articles.Trending(r.Context(), limit)
	})
}

func (s *Server) handleSearchArticles(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := queryInt(r, "limit", defaultPageSize)
	s.serveCached(w, cache.Key(keySearch, q, limit), func() (interface{}, error) {
		return s.articles.Search(r.Context(), q, limit)
	})
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, keyStatistics, func() (interface{}, error) {
		return s.articles.Statistics(r.Context())
	})
}

func dateKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}
