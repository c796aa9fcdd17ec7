package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/johnrirwin/newsdesk/internal/auth"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *models.User `json:"user,omitempty"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
}

// handleLoginBoundary is where unauthenticated callers are redirected to
func (s *Server) handleLoginBoundary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": s.authSvc.IsAuthenticated(),
		"login":         "POST /login",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		s.writeError(w, http.StatusBadRequest, "invalid_input", "username and password are required")
		return
	}

	result, err := s.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeAPIError(w, err)
		return
	}

	if !result.Success {
		s.writeJSON(w, http.StatusUnauthorized, loginResponse{Success: false, Error: result.Error})
		return
	}

	// Cached listings belong to whoever was signed in before
	s.clearCache()
	s.logger.Info("Dashboard login", logging.WithField("userId", result.User.ID))
	s.writeJSON(w, http.StatusOK, loginResponse{Success: true, User: result.User})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.authSvc.Logout(); err != nil {
		s.logger.Error("Logout failed", logging.WithField("error", err.Error()))
		s.writeError(w, http.StatusInternalServerError, "internal_error", "failed to clear session")
		return
	}
	s.clearCache()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"redirect": s.authMiddleware.LoginPath(),
	})
}

// handleSession reports the stored session; ?verify=true checks the token with the backend first
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := s.authSvc.Current()
	if r.URL.Query().Get("verify") == "true" {
		sess = s.authSvc.Restore(r.Context())
	}

	resp := sessionResponse{Authenticated: sess.Valid()}
	if resp.Authenticated {
		resp.User = sess.User
		if exp, ok := auth.TokenExpiry(sess.Token); ok {
			resp.ExpiresAt = &exp
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}
