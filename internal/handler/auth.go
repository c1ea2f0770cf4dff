package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/campus-portal/internal/auth"
	"github.com/sakif/campus-portal/internal/service"
)

// AuthHandler exposes the session endpoints: password and Google sign-in,
// the forced first-login steps, the current-session lookup, and logout.
//
// The session token travels in an HttpOnly cookie, so handlers here are the
// only place cookies are set or cleared. Everything behind the cookie is the
// AccountService's business.
type AuthHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

func NewAuthHandler(accounts *service.AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, logger: logger}
}

// authResponse is the body returned by every successful sign-in.
type authResponse struct {
	User  any    `json:"user"`
	Token string `json:"token"`
}

// HandleLogin authenticates an email/password pair.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{User: result.Account, Token: result.Token})
}

// HandleGoogleLogin signs in with a Google identity. The body carries either
// a credential (ID token from Google Identity Services) or an OAuth access
// token; first-time visitors get an account created on the spot.
//
// HTTP: POST /api/auth/google
func (h *AuthHandler) HandleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Credential  string `json:"credential"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	result, err := h.accounts.GoogleLogin(r.Context(), req.Credential, req.AccessToken)
	if err != nil {
		writeError(w, err)
		return
	}

	setSessionCookie(w, result.Token)
	writeJSON(w, http.StatusOK, authResponse{User: result.Account, Token: result.Token})
}

// HandleChangePassword replaces the caller's password after verifying the
// current one. Used by the forced first-login flow and the profile page.
//
// HTTP: POST /api/auth/change-password
func (h *AuthHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email           string `json:"email"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	account, err := h.accounts.ChangePassword(r.Context(), req.Email, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": account})
}

// HandleCompleteProfile fills in the student details of the signed-in
// account. One-shot: a completed profile cannot be completed again.
//
// HTTP: POST /api/auth/complete-profile
// Auth: required
func (h *AuthHandler) HandleCompleteProfile(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	var req struct {
		FirstName     string `json:"first_name"`
		MiddleName    string `json:"middle_name"`
		LastName      string `json:"last_name"`
		StudentNumber string `json:"student_number"`
		College       string `json:"college"`
		Major         string `json:"major"`
		Phone         string `json:"phone"`
		Password      string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	account, err := h.accounts.CompleteProfile(r.Context(), session.AccountID, service.CompleteProfileInput{
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		StudentNumber: req.StudentNumber,
		College:       req.College,
		Major:         req.Major,
		Phone:         req.Phone,
		Password:      req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": account})
}

// HandleMe returns the profile of the signed-in account. The frontend calls
// it on load to restore the session and to learn whether a first-login step
// is still pending.
//
// HTTP: GET /api/auth/me
// Auth: required
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "authentication required"})
		return
	}

	account, err := h.accounts.GetByID(r.Context(), session.AccountID)
	if err != nil {
		h.logger.Error("me: account lookup failed",
			slog.Int64("accountID", session.AccountID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": account})
}

// HandleLogout clears the session cookie. The token itself stays valid until
// expiry; without the cookie the browser can no longer send it.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int((12 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: msg})
}
