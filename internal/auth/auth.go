package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultSessionMaxAgeMin = 20

	RoleAgent = "agent"
	RoleStaff = "staff"
)

type Config struct {
	SessionMaxAgeMin int  `mapstructure:"session_max_age_min"`
	VerifySignature  bool `mapstructure:"verify_signature"`
}

type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	RTOProfileID string `json:"rto_profile_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

type tokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

var timeNowFunc = time.Now

// Session holds the authenticated user's tokens. It implements
// api.TokenProvider so the shared client can attach the bearer token;
// AccessToken returns "" once the session has aged out, which drops the
// Authorization header rather than sending a stale token.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	tokenType    string
	user         User
	issuedAt     time.Time
	maxAge       time.Duration
}

func NewSession(config Config) *Session {
	maxAgeMin := config.SessionMaxAgeMin
	if maxAgeMin <= 0 {
		maxAgeMin = defaultSessionMaxAgeMin
	}
	return &Session{maxAge: time.Duration(maxAgeMin) * time.Minute}
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accessToken == "" || s.expiredLocked() {
		return ""
	}
	return s.accessToken
}

func (s *Session) User() User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Active reports whether a token is present and within its lifetime.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != "" && !s.expiredLocked()
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.tokenType = ""
	s.user = User{}
	s.issuedAt = time.Time{}
}

func (s *Session) adopt(resp LoginResponse) {
	issuedAt := timeNowFunc()
	// Prefer the iat baked into the token so a pre-issued token does not
	// get its lifetime restarted on adoption.
	if claims, err := parseClaimsUnverified(resp.AccessToken); err == nil && claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = resp.AccessToken
	s.refreshToken = resp.RefreshToken
	s.tokenType = resp.TokenType
	s.user = resp.User
	s.issuedAt = issuedAt
}

func (s *Session) expiredLocked() bool {
	return s.issuedAt.Add(s.maxAge).Before(timeNowFunc())
}

// parseClaimsUnverified reads the claims without checking the signature.
// Signature verification is the server's job on every call; the client
// only needs iat/exp to decide when the session has gone stale.
func parseClaimsUnverified(tokenString string) (*tokenClaims, error) {
	var claims tokenClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}
