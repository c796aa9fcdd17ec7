package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/johnrirwin/newsdesk/internal/models"
)

func (s *Server) feedRoutes(r chi.Router) {
	r.Get("/feeds", s.handleListFeeds)
	r.Post("/feeds", s.handleAddFeed)
	r.Post("/feeds/check", s.handleCheckAllFeeds)
	r.Post("/feeds/fetch-all", s.handleFetchAllFeeds)
	r.Put("/feeds/{id}", s.handleUpdateFeed)
	r.Delete("/feeds/{id}", s.handleDeleteFeed)
	r.Post("/feeds/{id}/check", s.handleCheckFeed)
}

func (s *Server) handleListFeeds(w http.ResponseWriter, r *http.Request) {
	s.serveCached(w, keyFeeds, func() (interface{}, error) {
		return s.feeds.List(r.Context())
	})
}

func (s *Server) handleAddFeed(w http.ResponseWriter, r *http.Request) {
	var in models.FeedInput
	if !s.decodeBody(w, r, &in) {
		return
	}

	resp, err := s.feeds.Add(r.Context(), in)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(keyFeeds)
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateFeed(w http.ResponseWriter, r *http.Request) {
	var update models.FeedUpdate
	if !s.decodeBody(w, r, &update) {
		return
	}

	resp, err := s.feeds.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(keyFeeds)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteFeed(w http.ResponseWriter, r *http.Request) {
	resp, err := s.feeds.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	// The backend drops the feed's articles with it
	s.invalidate(articleKeys...)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckAllFeeds(w http.ResponseWriter, r *http.Request) {
	resp, err := s.feeds.CheckAll(r.Context())
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(articleKeys...)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCheckFeed(w http.ResponseWriter, r *http.Request) {
	resp, err := s.feeds.Check(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(articleKeys...)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFetchAllFeeds(w http.ResponseWriter, r *http.Request) {
	resp, err := s.feeds.FetchAll(r.Context())
	if err != nil {
		s.writeAPIError(w, err)
		return
	}
	s.invalidate(articleKeys...)
	s.logger.Info("Fetched all feeds, article cache dropped")
	s.writeJSON(w, http.StatusOK, resp)
}
