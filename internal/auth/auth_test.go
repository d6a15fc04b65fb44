package auth

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func signedToken(t *testing.T, issuedAt time.Time) string {
	t.Helper()
	claims := tokenClaims{
		Email: "agent@example.com",
		Role:  RoleAgent,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return token
}

func TestSession_ShouldBeInactiveBeforeAdoption(t *testing.T) {
	// given
	session := NewSession(Config{})

	// then
	assert.False(t, session.Active())
	assert.Empty(t, session.AccessToken())
}

func TestSession_ShouldExposeTokenAndUserAfterAdoption(t *testing.T) {
	// given
	now := time.Now()
	timeNowFunc = func() time.Time { return now }
	defer func() { timeNowFunc = time.Now }()

	session := NewSession(Config{})
	token := signedToken(t, now)

	// when
	session.adopt(LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User:        User{ID: "u-1", Email: "agent@example.com", Role: RoleAgent},
	})

	// then
	assert.True(t, session.Active())
	assert.Equal(t, token, session.AccessToken())
	assert.Equal(t, "agent@example.com", session.User().Email)
}

func TestSession_ShouldAgeOutAfterMaxAge(t *testing.T) {
	// given a session adopted at t0 with the default 20 minute lifetime
	start := time.Now()
	now := start
	timeNowFunc = func() time.Time { return now }
	defer func() { timeNowFunc = time.Now }()

	session := NewSession(Config{})
	session.adopt(LoginResponse{AccessToken: signedToken(t, start)})
	assert.True(t, session.Active())

	// when 21 minutes pass
	now = start.Add(21 * time.Minute)

	// then the token is withheld rather than sent stale
	assert.False(t, session.Active())
	assert.Empty(t, session.AccessToken())
}

func TestSession_ShouldDateLifetimeFromTokenIssuedAt(t *testing.T) {
	// given a pre-issued token minted 15 minutes ago
	now := time.Now()
	timeNowFunc = func() time.Time { return now }
	defer func() { timeNowFunc = time.Now }()

	session := NewSession(Config{})

	// when adopted now
	session.adopt(LoginResponse{AccessToken: signedToken(t, now.Add(-15*time.Minute))})

	// then only the remaining 5 minutes of lifetime are honored
	assert.True(t, session.Active())
	now = now.Add(6 * time.Minute)
	assert.False(t, session.Active())
}

func TestSession_ShouldClearAllState(t *testing.T) {
	// given
	session := NewSession(Config{})
	session.adopt(LoginResponse{AccessToken: signedToken(t, time.Now()), User: User{ID: "u-1"}})

	// when
	session.Clear()

	// then
	assert.False(t, session.Active())
	assert.Empty(t, session.User().ID)
}

func TestParseClaimsUnverified_ShouldReadClaimsWithoutKey(t *testing.T) {
	// given
	issuedAt := time.Now().Truncate(time.Second)
	token := signedToken(t, issuedAt)

	// when
	claims, err := parseClaimsUnverified(token)

	// then
	assert.NoError(t, err)
	assert.Equal(t, "agent@example.com", claims.Email)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
}

func TestParseClaimsUnverified_ShouldFailOnGarbage(t *testing.T) {
	// when
	claims, err := parseClaimsUnverified("not-a-token")

	// then
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestLoginResponse_ShouldDecodePreIssuedPayload(t *testing.T) {
	// given the payload shape handed over by an external identity provider
	payload := []byte(`{
		"access_token": "tok-123",
		"refresh_token": "ref-456",
		"token_type": "Bearer",
		"user": {"id": "u-9", "email": "staff@example.com", "role": "staff", "status": "active", "rto_profile_id": "rto-1"}
	}`)

	// when
	var resp LoginResponse
	err := json.Unmarshal(payload, &resp)

	// then
	assert.NoError(t, err)
	assert.Equal(t, "tok-123", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "staff@example.com", resp.User.Email)
	assert.Equal(t, "rto-1", resp.User.RTOProfileID)
}
