package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/johnrirwin/newsdesk/internal/cache"
	"github.com/johnrirwin/newsdesk/internal/models"
)

type summarizeRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Prompt    string `json:"prompt"`
}

type webSearchRequest struct {
	Query      string `json:"query"`
	MaxDaysOld int    `json:"maxDaysOld"`
}

func (s *Server) geminiRoutes(r chi.Router) {
	r.Post("/gemini/summarize", s.handleSummarize)
	r.Post("/gemini/search", s.handleWebSearch)
	r.Get("/gemini/summaries", s.handleSummaries)
	r.Get("/gemini/search-history", s.handleSearchHistory)
}

// handleSummarize summarises a date range; both dates empty means the last day
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var body summarizeRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	req := models.SummarizeRequest{Prompt: body.Prompt}
	if body.StartDate == "" && body.EndDate == "" {
		req.StartDate, req.EndDate = models.DefaultSummaryRange(time.Now())
	} else {
		start, okStart := models.ParseDateFilter(body.StartDate)
		end, okEnd := models.ParseDateFilter(body.EndDate)
		if !okStart || !okEnd {
			s.writeError(w, http.StatusBadRequest, "invalid_input", "startDate and endDate must be valid dates")
			return
		}
		if isMidnight(end) {
			end = models.EndOfDay(end)
		}
		req.StartDate, req.EndDate = start, end
	}

	resp, err := s.gemini.Summarize(r.Context(), req)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(keySummaries)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWebSearch(w http.ResponseWriter, r *http.Request) {
	var body webSearchRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	resp, err := s.gemini.SearchWeb(r.Context(), body.Query, body.MaxDaysOld)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(keySearchHistory)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSummaries(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultListLimit)
	s.serveCached(w, cache.Key(keySummaries, page, limit), func() (interface{}, error) {
		return s.gemini.Summaries(r.Context(), page, limit)
	})
}

func (s *Server) handleSearchHistory(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", defaultListLimit)
	s.serveCached(w, cache.Key(keySearchHistory, page, limit), func() (interface{}, error) {
		return s.gemini.SearchHistory(r.Context(), page, limit)
	})
}
