package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/placement-hub/internal/apperror"
	"github.com/sakif/placement-hub/internal/auth"
	"github.com/sakif/placement-hub/internal/model"
	"github.com/sakif/placement-hub/internal/service"
)

// AuthHandler manages login, logout, self-registration and profile lookup.
//
//   - HandleLogin          → check credentials for a role, issue the JWT cookie
//   - HandleLogout         → clear the JWT cookie
//   - HandleRegister       → company representatives sign themselves up (PENDING)
//   - HandleChangePassword → any logged-in user
//   - HandleMe             → the caller's own profile
type AuthHandler struct {
	auth   *service.AuthService
	engine *service.Engine
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *service.AuthService, engine *service.Engine, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		engine: engine,
		logger: logger,
	}
}

type loginRequest struct {
	Role     string `json:"role"`
	ID       string `json:"id"`
	Password string `json:"password"`
}

type loginResponse struct {
	Account model.Account `json:"account"`
	Token   string        `json:"token"`
}

// HandleLogin authenticates a user of the given role.
//
// HTTP: POST /api/auth/login
// REQUEST BODY: {"role": "student", "id": "U2310001A", "password": "..."}
//
// On success the JWT is set as an HttpOnly cookie and also returned in the
// body for non-browser clients. Failures carry the reason: user_not_found,
// wrong_password or user_not_approved.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(w, apperror.ValidationFailed("role", "role must be student, company_rep or career_staff"))
		return
	}

	result, err := h.auth.Login(r.Context(), role, req.ID, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// Secure should be set when served over HTTPS
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   h.auth.TokenTTL(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, loginResponse{Account: result.Account, Token: result.Token})
}

// HandleLogout clears the JWT cookie.
//
// HTTP: POST /api/auth/logout
//
// Tokens are stateless, so one already handed out stays valid until it
// expires; without the cookie the browser simply stops sending it.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleRegister signs up a company representative.
//
// HTTP: POST /api/auth/register
// The account starts PENDING and cannot log in until staff approve it.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in service.RepresentativeInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, err)
		return
	}

	rep, err := h.engine.RegisterRepresentative(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("representative registered",
		slog.String("id", rep.ID),
		slog.String("company", rep.CompanyName),
	)
	writeJSON(w, http.StatusCreated, rep)
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleChangePassword replaces the caller's password.
//
// HTTP: POST /api/auth/password
// Auth: Required
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("", "valid authentication required"))
		return
	}
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.engine.ChangePassword(r.Context(), p.Role, p.ID, req.OldPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the caller's full record for their role.
//
// HTTP: GET /api/auth/me
// Auth: Required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("", "valid authentication required"))
		return
	}

	var (
		profile any
		err     error
	)
	switch p.Role {
	case model.RoleStudent:
		profile, err = h.engine.Student(r.Context(), p.ID)
	case model.RoleCompanyRep:
		profile, err = h.engine.Representative(r.Context(), p.ID)
	case model.RoleCareerStaff:
		profile, err = h.engine.Staff(r.Context(), p.ID)
	default:
		err = apperror.Forbidden("unknown role")
	}
	if err != nil {
		h.logger.Warn("HandleMe: profile lookup failed",
			slog.String("id", p.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
