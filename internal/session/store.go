// Package session persists the auth token and the cached user identity.
package session

import (
	"encoding/json"
	"fmt"

	"github.com/johnrirwin/newsdesk/internal/models"
	"github.com/johnrirwin/newsdesk/internal/storage"
)

// Storage keys, shared with the web dashboard's local storage layout
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// Store reads and writes the token and user over a Storage backend.
// Reads are always fresh so a change made by another writer is seen on the next call.
type Store struct {
	backend storage.Storage
}

// NewStore creates a store over backend. A nil backend behaves like storage.Nop.
func NewStore(backend storage.Storage) *Store {
	if backend == nil {
		backend = storage.Nop{}
	}
	return &Store{backend: backend}
}

// Token returns the stored bearer token
func (s *Store) Token() (string, bool) {
	v, ok := s.backend.Get(TokenKey)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *Store) SetToken(token string) error {
	if err := s.backend.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (s *Store) RemoveToken() error {
	if err := s.backend.Remove(TokenKey); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// User returns the cached identity. Corrupt JSON reads as absent.
func (s *Store) User() (*models.User, bool) {
	v, ok := s.backend.Get(UserKey)
	if !ok || v == "" {
		return nil, false
	}
	var u models.User
	if err := json.Unmarshal([]byte(v), &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (s *Store) SetUser(u models.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.backend.Set(UserKey, string(b)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

func (s *Store) RemoveUser() error {
	if err := s.backend.Remove(UserKey); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}

// Load returns the persisted session, or an empty one unless both halves are present
func (s *Store) Load() models.Session {
	token, ok := s.Token()
	if !ok {
		return models.Session{}
	}
	user, ok := s.User()
	if !ok {
		return models.Session{}
	}
	return models.Session{Token: token, User: user}
}

// Save persists both halves of a session
func (s *Store) Save(sess models.Session) error {
	if !sess.Valid() {
		return fmt.Errorf("refusing to save incomplete session")
	}
	if err := s.SetToken(sess.Token); err != nil {
		return err
	}
	if err := s.SetUser(*sess.User); err != nil {
		_ = s.RemoveToken()
		return err
	}
	return nil
}

// Clear removes the token and the user. Both removals are attempted.
func (s *Store) Clear() error {
	errToken := s.RemoveToken()
	errUser := s.RemoveUser()
	if errToken != nil {
		return errToken
	}
	return errUser
}
