package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/placement-hub/internal/auth"
	"github.com/sakif/placement-hub/internal/model"
)

// AuthService turns a successful Engine login into a session token.
//
//	AuthHandler (HTTP) → AuthService → Engine.Login (credentials, approval)
//	                               ↘ TokenService (JWT)
//
// It does not set cookies or read requests; that stays in the handler.
type AuthService struct {
	engine *Engine
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(engine *Engine, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		engine: engine,
		tokens: tokens,
		logger: logger,
	}
}

// AuthResult bundles the account and the issued JWT so the handler can set
// the cookie and respond in one step.
type AuthResult struct {
	Account model.Account
	Token   string
}

// Login authenticates id under role and issues a token carrying both.
// Credential failures come back from Engine.Login unchanged, so callers can
// read the reason.
func (s *AuthService) Login(ctx context.Context, role model.Role, id, password string) (*AuthResult, error) {
	acct, err := s.engine.Login(ctx, role, id, password)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Generate(auth.Principal{ID: acct.ID, Role: acct.Role})
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", acct.ID, err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("id", acct.ID),
		slog.String("role", string(acct.Role)),
	)

	return &AuthResult{
		Account: acct,
		Token:   token,
	}, nil
}

// ValidateToken returns the principal a token encodes.
func (s *AuthService) ValidateToken(tokenStr string) (auth.Principal, error) {
	p, err := s.tokens.Validate(tokenStr)
	if err != nil {
		return auth.Principal{}, fmt.Errorf("service/auth: %w", err)
	}
	return p, nil
}

// TokenTTL is how long issued tokens stay valid; the handler uses it for
// the cookie's MaxAge.
func (s *AuthService) TokenTTL() int {
	return int(s.tokens.TTL().Seconds())
}
