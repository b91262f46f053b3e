// Package auth issues and checks session tokens and password hashes.
//
// AUTHENTICATION FLOW:
//  1. POST /api/auth/login with role, id and password
//  2. The engine checks the password against the stored bcrypt hash
//  3. The server issues a JWT carrying the account id (sub) and its role
//  4. The JWT comes back on later requests as the "token" cookie or an
//     Authorization: Bearer header
//  5. RequireAuth validates it and puts a Principal in the request context
//
// The token is stateless: role checks need no store lookup.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/placement-hub/internal/model"
)

const issuer = "placement-hub"

// DefaultTokenTTL is used when NewTokenService gets a non-positive ttl.
const DefaultTokenTTL = 60 * time.Minute

// TokenService handles JWT creation and validation.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. The secret must be at least 16 characters.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Principal is the authenticated caller a token describes.
type Principal struct {
	ID   string
	Role model.Role
}

// claims is the JWT payload: the standard registered claims plus the role.
type claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Generate signs a token for p with the service's default lifetime.
func (s *TokenService) Generate(p Principal) (string, error) {
	return s.GenerateWithDuration(p, s.ttl)
}

// GenerateWithDuration signs a token with a custom lifetime.
// Tests use a negative duration to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(p Principal, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// TTL is how long freshly generated tokens stay valid.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Validate parses and verifies a JWT string and returns the principal in it.
//
// The jwt library checks the signature, expiry, issuer and algorithm.
// Pinning HS256 with WithValidMethods blocks "alg: none" tokens.
func (s *TokenService) Validate(tokenStr string) (Principal, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, fmt.Errorf("auth: token expired")
		}
		return Principal{}, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return Principal{}, fmt.Errorf("auth: invalid token claims")
	}
	if c.Subject == "" {
		return Principal{}, fmt.Errorf("auth: token has no subject")
	}
	if _, err := model.ParseRole(string(c.Role)); err != nil {
		return Principal{}, fmt.Errorf("auth: token has no valid role")
	}

	return Principal{ID: c.Subject, Role: c.Role}, nil
}
