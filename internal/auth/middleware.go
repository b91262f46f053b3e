package auth

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/sakif/placement-hub/internal/model"
)

// contextKey is package-private so no other package can read or shadow
// the principal stored in a request context.
type contextKey string

const principalKey contextKey = "principal"

// TokenCookie is the name of the HttpOnly cookie carrying the session JWT.
const TokenCookie = "token"

// RequireAuth rejects requests without a valid token with 401 and stores
// the Principal in the context of those that have one.
//
// The token is read from the "token" cookie first, then from an
// Authorization: Bearer header for non-browser clients.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, err := extractPrincipal(r, tokens)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole allows the request through only if the authenticated
// principal has one of the given roles. It must run after RequireAuth.
func RequireRole(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "unauthorized", "valid authentication required")
				return
			}
			if !slices.Contains(allowed, p.Role) {
				writeAuthError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok && p.ID != ""
}

func extractPrincipal(r *http.Request, tokens *TokenService) (Principal, error) {
	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return tokens.Validate(cookie.Value)
	}

	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return Principal{}, http.ErrNoCookie
	}
	return tokens.Validate(strings.TrimSpace(token))
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `","message":"` + message + `"}` + "\n"))
}
