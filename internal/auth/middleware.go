package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/johnrirwin/newsdesk/internal/models"
)

// contextKey is a type for context keys
type contextKey string

const (
	// UserKey is the context key for the signed-in user
	UserKey contextKey = "user"
)

// Middleware guards dashboard routes behind the persisted session
type Middleware struct {
	authService *Service
	loginPath   string
}

// NewMiddleware creates a new auth middleware redirecting to loginPath
func NewMiddleware(authService *Service, loginPath string) *Middleware {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &Middleware{authService: authService, loginPath: loginPath}
}

// LoginPath returns the login boundary unauthenticated callers are sent to
func (m *Middleware) LoginPath() string {
	return m.loginPath
}

// RequireSession rejects requests while no session is stored
func (m *Middleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := m.authService.Current()
		if !sess.Valid() {
			m.Redirect(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, sess.User)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Redirect answers 401 pointing the caller at the login boundary
func (m *Middleware) Redirect(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":    "authorization required",
		"redirect": m.loginPath,
	})
}

// GetUser extracts the signed-in user from the request context
func GetUser(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}
