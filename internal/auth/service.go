package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/johnrirwin/newsdesk/internal/apiclient"
	"github.com/johnrirwin/newsdesk/internal/logging"
	"github.com/johnrirwin/newsdesk/internal/models"
	"github.com/johnrirwin/newsdesk/internal/session"
)

const (
	// DefaultLoginError is shown when a rejected login carries no message
	DefaultLoginError = "Giriş sırasında bir hata oluştu"
	// LoginFailedMessage is shown when the backend answers success:false without a message
	LoginFailedMessage = "Giriş başarısız"
	// MissingCredentialsMessage rejects a login with an empty username or password
	MissingCredentialsMessage = "Kullanıcı adı ve şifre gerekli"
)

// LoginResult is the outcome of a login attempt the backend answered
type LoginResult struct {
	Success bool
	Token   string
	User    *models.User
	Error   string
}

// Service owns the session: it logs in, restores and tears down the persisted token and user.
// The store is the single source of truth, so a teardown by the API client is seen immediately.
type Service struct {
	client *apiclient.Client
	store  *session.Store
	logger *logging.Logger
}

// NewService creates an auth service. client must not carry session credentials,
// so that a rejected login is never treated as a session invalidation.
func NewService(client *apiclient.Client, store *session.Store, logger *logging.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Login authenticates with username and password and persists the session on success.
// Backend rejections are reported in the result; transport failures are returned as errors.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return &LoginResult{Success: false, Error: MissingCredentialsMessage}, nil
	}

	var resp models.Envelope[models.AuthPayload]
	err := s.client.Post(ctx, "/auth/login", models.LoginCredentials{Username: username, Password: password}, &resp)
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			s.logger.Info("Login rejected", logging.WithFields(map[string]interface{}{
				"username": username,
				"status":   apiErr.StatusCode,
			}))
			msg := apiErr.Message
			if msg == "" {
				msg = DefaultLoginError
			}
			return &LoginResult{Success: false, Error: msg}, nil
		}
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	if !resp.Success || resp.Data.Token == "" {
		msg := resp.Error
		if msg == "" {
			msg = resp.Message
		}
		if msg == "" {
			msg = LoginFailedMessage
		}
		return &LoginResult{Success: false, Error: msg}, nil
	}

	user := resp.Data.User
	if err := s.store.Save(models.Session{Token: resp.Data.Token, User: &user}); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info("User logged in", logging.WithFields(map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
	}))

	return &LoginResult{Success: true, Token: resp.Data.Token, User: &user}, nil
}

// VerifyToken asks the backend whether token is still valid
func (s *Service) VerifyToken(ctx context.Context, token string) (*models.Verification, error) {
	var resp models.Envelope[models.Verification]
	if err := s.client.Get(ctx, "/auth/verify", nil, &resp, apiclient.WithBearer(token)); err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	v := resp.Data
	v.Valid = resp.Success && v.Valid
	return &v, nil
}

// GetProfile fetches the profile of the user token belongs to
func (s *Service) GetProfile(ctx context.Context, token string) (*models.UserProfile, error) {
	var resp models.Envelope[models.UserProfile]
	if err := s.client.Get(ctx, "/auth/profile", nil, &resp, apiclient.WithBearer(token)); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !resp.Success {
		return nil, &AuthError{Code: "profile_unavailable", Message: firstNonEmpty(resp.Error, resp.Message, "profile unavailable")}
	}
	return &resp.Data, nil
}

// Restore verifies the persisted session once. An invalid token or a failed
// verification clears the store; there is no retry.
func (s *Service) Restore(ctx context.Context) models.Session {
	sess := s.store.Load()
	if !sess.Valid() {
		// A token without a readable user is half a session
		if _, ok := s.store.Token(); ok {
			s.logger.Info("Stored token has no user, clearing")
			if err := s.store.Clear(); err != nil {
				s.logger.Warn("Failed to clear session", logging.WithField("error", err.Error()))
			}
		}
		return models.Session{}
	}

	v, err := s.VerifyToken(ctx, sess.Token)
	if err != nil || !v.Valid {
		fields := logging.WithField("userId", sess.User.ID)
		if err != nil {
			fields["error"] = err.Error()
		}
		s.logger.Info("Stored session rejected, clearing", fields)
		if clearErr := s.store.Clear(); clearErr != nil {
			s.logger.Warn("Failed to clear session", logging.WithField("error", clearErr.Error()))
		}
		return models.Session{}
	}

	return sess
}

// Logout clears the persisted session. The backend is not contacted.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.Info("User logged out")
	return nil
}

// Current returns the persisted session, empty unless both token and user are stored
func (s *Service) Current() models.Session {
	return s.store.Load()
}

func (s *Service) IsAuthenticated() bool {
	return s.Current().Valid()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *AuthError) Error() string {
	return e.Message
}
