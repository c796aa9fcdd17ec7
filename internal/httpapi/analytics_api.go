package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnrirwin/newsdesk/internal/cache"
	"github.com/johnrirwin/newsdesk/internal/models"
	"github.com/johnrirwin/newsdesk/internal/render"
	"github.com/johnrirwin/newsdesk/internal/report"
)

const defaultHistoryLimit = 10

type wordFrequencyRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Limit     int    `json:"limit"`
}

type reportRequest struct {
	Type string `json:"type"`
}

func (s *Server) analyticsRoutes(r chi.Router) {
	r.Post("/analytics/wordfrequency/generate", s.handleGenerateWordFrequency)
	r.Get("/analytics/wordfrequency/latest", s.handleLatestWordFrequency)
	r.Get("/analytics/wordcloud", s.handleWordCloud)
	r.Post("/analytics/report/generate", s.handleGenerateReport)
	r.Get("/analytics/report/latest", s.handleLatestReport)
	r.Get("/analytics/report/history", s.handleReportHistory)
	r.Get("/analytics/report/{id}", s.handleGetReport)
	r.Get("/analytics/report/{id}/html", s.handleReportHTML)
}

func (s *Server) handleGenerateWordFrequency(w http.ResponseWriter, r *http.Request) {
	var body wordFrequencyRequest
	if !s.decodeBody(w, r, &body) {
		return
	}

	req := models.WordFrequencyRequest{Limit: body.Limit}
	if body.StartDate != "" {
		t, ok := models.ParseDateFilter(body.StartDate)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "invalid_input", "invalid startDate")
			return
		}
		req.StartDate = &t
	}
	if body.EndDate != "" {
		t, ok := models.ParseDateFilter(body.EndDate)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "invalid_input", "invalid endDate")
			return
		}
		if isMidnight(t) {
			t = models.EndOfDay(t)
		}
		req.EndDate = &t
	}

	resp, err := s.analytics.GenerateWordFrequency(r.Context(), req)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(keyWordFrequency, keyWordCloud)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatestWordFrequency(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, keyWordFrequency, func() (interface{}, error) {
		return s.analytics.LatestWordFrequency(r.Context())
	})
}

// handleWordCloud sizes the latest word frequency for display; no analysis yet gives an empty cloud
func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	maxWords := queryInt(r, "max", report.DefaultMaxWords)
	s.serveCached(w, cache.Key(keyWordCloud, maxWords), func() (interface{}, error) {
		resp, err := s.analytics.LatestWordFrequency(r.Context())
		if err != nil {
			return nil, err
		}
		out := models.Envelope[[]report.CloudWord]{Success: resp.Success, Data: []report.CloudWord{}}
		if resp.Data != nil {
			out.Data = report.BuildWordCloud(resp.Data.Words, maxWords)
		}
		return out, nil
	})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var body reportRequest
	if !s.decodeBody(w, r, &body) {
		return
	}
	t, err := models.ParseReportType(body.Type)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return
	}

	resp, err := s.analytics.GenerateReport(r.Context(), t)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(keyLatestReport, keyReportHistory)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatestReport(w http.ResponseWriter, r *http.Request) {
	t, ok := s.reportType(w, r)
	if !ok {
		return
	}
	s.serveCached(w, cache.Key(keyLatestReport, t), func() (interface{}, error) {
		return s.analytics.LatestReport(r.Context(), t)
	})
}

func (s *Server) handleReportHistory(w http.ResponseWriter, r *http.Request) {
	t, ok := s.reportType(w, r)
	if !ok {
		return
	}
	limit := queryInt(r, "limit", defaultHistoryLimit)
	s.serveCached(w, cache.Key(keyReportHistory, t, limit), func() (interface{}, error) {
		return s.analytics.ReportHistory(r.Context(), t, limit)
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.serveCached(w, cache.Key(keyReport, id), func() (interface{}, error) {
		return s.analytics.Report(r.Context(), id)
	})
}

// handleReportHTML renders a report's summary as sanitised HTML
func (s *Server) handleReportHTML(w http.ResponseWriter, r *http.Request) {
	resp, err := s.analytics.Report(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeAPIError(w, err)
		return
	}

	in := s.interpreter.Interpret(resp.Data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(render.InterpretationHTML(in)))
}

// reportType reads ?type=, defaulting to daily
func (s *Server) reportType(w http.ResponseWriter, r *http.Request) (models.ReportType, bool) {
	v := r.URL.Query().Get("type")
	if v == "" {
		return models.ReportDaily, true
	}
	t, err := models.ParseReportType(v)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
		return "", false
	}
	return t, true
}
