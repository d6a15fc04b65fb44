package auth

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/rs/zerolog/log"

	"github.com/applyflow/applyflow_client/internal/api"
)

type Service struct {
	client  *api.Client
	config  Config
	session *Session
}

func NewService(client *api.Client, config Config, session *Session) *Service {
	return &Service{
		client:  client,
		config:  config,
		session: session,
	}
}

// Login exchanges credentials for a session. The session becomes the
// token source for every subsequent authenticated call.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp LoginResponse
	err := s.client.PostJSON(ctx, "/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}

	if s.config.VerifySignature {
		if err := s.verifyTokenSignature(ctx, resp.AccessToken); err != nil {
			return nil, fmt.Errorf("token signature rejected: %w", err)
		}
	}

	s.session.adopt(resp)
	log.Info().Str("email", resp.User.Email).Str("role", resp.User.Role).Msg("Session established")
	return s.session, nil
}

// Adopt accepts a pre-issued login payload, the path used when the token
// was minted by an external identity provider instead of a password login.
func (s *Service) Adopt(ctx context.Context, payload []byte) (*Session, error) {
	var resp LoginResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode login payload: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login payload carried no access token")
	}

	if s.config.VerifySignature {
		if err := s.verifyTokenSignature(ctx, resp.AccessToken); err != nil {
			return nil, fmt.Errorf("token signature rejected: %w", err)
		}
	}

	s.session.adopt(resp)
	log.Info().Str("email", resp.User.Email).Msg("Adopted pre-issued session")
	return s.session, nil
}

func (s *Service) verifyTokenSignature(ctx context.Context, tokenString string) error {
	var keyResponse struct {
		PublicKey string `json:"publicKey"`
	}
	if err := s.client.GetJSON(ctx, "/auth/public-key", &keyResponse); err != nil {
		return fmt.Errorf("failed to fetch server public key: %w", err)
	}

	block, _ := pem.Decode([]byte(keyResponse.PublicKey))
	if block == nil {
		return fmt.Errorf("failed to decode public key PEM")
	}

	publicKey, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return fmt.Errorf("failed to parse public key: %w", err)
	}

	verified, err := jws.Verify([]byte(tokenString), jws.WithKey(jwa.RS256(), publicKey))
	if err != nil {
		return fmt.Errorf("failed to verify token signature: %w", err)
	}
	if len(verified) == 0 {
		return fmt.Errorf("token signature verification failed")
	}
	return nil
}
