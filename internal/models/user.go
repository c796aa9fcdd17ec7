package models

import "time"

// User is the identity cached alongside the auth token
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// UserProfile is the profile returned by the backend's profile endpoint
type UserProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// User returns the identity part of the profile
func (p UserProfile) User() User {
	return User{ID: p.ID, Username: p.Username, Role: p.Role}
}

// LoginCredentials is the body of a login request
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthPayload is the data of a successful login response
type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Verification is the data of a token verification response
type Verification struct {
	Valid bool  `json:"valid"`
	User  *User `json:"user"`
}

// Session is the client-held proof of authentication plus the cached identity.
// Token and User are set together or not at all.
type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// Valid reports whether both halves of the session are present
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}
