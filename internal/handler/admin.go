package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/campus-portal/internal/model"
	"github.com/sakif/campus-portal/internal/service"
)

// AdminHandler exposes the account management endpoints of the admin portal.
// Routes are mounted behind RequireAuth and RequireAdmin, so every request
// reaching these methods carries an administrator session.
type AdminHandler struct {
	accounts *service.AccountService
	logger   *slog.Logger
}

func NewAdminHandler(accounts *service.AccountService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{accounts: accounts, logger: logger}
}

// HandleListUsers returns every account, newest first.
//
// HTTP: GET /api/admin/users
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.ListAccounts(r.Context())
	if err != nil {
		h.logger.Error("admin: listing accounts failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": accounts})
}

// HandleCreateUser registers an account on a student's behalf. The initial
// password is the student number and a change is forced on first login.
//
// HTTP: POST /api/admin/users
func (h *AdminHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email         string `json:"email"`
		FirstName     string `json:"first_name"`
		MiddleName    string `json:"middle_name"`
		LastName      string `json:"last_name"`
		StudentNumber string `json:"student_number"`
		College       string `json:"college"`
		Major         string `json:"major"`
		Phone         string `json:"phone"`
		Role          string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), service.CreateAccountInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		StudentNumber: req.StudentNumber,
		College:       req.College,
		Major:         req.Major,
		Phone:         req.Phone,
		Role:          model.ParseRole(req.Role),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": account})
}

// HandleUpdateUser applies an admin edit to an account. A role in the body
// changes the account's role; an omitted role keeps the current one. A
// non-empty new_password resets the password and flags the account for a
// change on next login.
//
// HTTP: PUT /api/admin/users/{id}
func (h *AdminHandler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Email         string `json:"email"`
		FirstName     string `json:"first_name"`
		MiddleName    string `json:"middle_name"`
		LastName      string `json:"last_name"`
		StudentNumber string `json:"student_number"`
		College       string `json:"college"`
		Major         string `json:"major"`
		Phone         string `json:"phone"`
		Role          string `json:"role"`
		NewPassword   string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	in := service.UpdateAccountInput{
		Email:         req.Email,
		FirstName:     req.FirstName,
		MiddleName:    req.MiddleName,
		LastName:      req.LastName,
		StudentNumber: req.StudentNumber,
		College:       req.College,
		Major:         req.Major,
		Phone:         req.Phone,
		NewPassword:   req.NewPassword,
	}
	if req.Role != "" {
		in.Role = model.ParseRole(req.Role)
	}

	account, err := h.accounts.UpdateAccount(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": account})
}

// HandleDeleteUser removes an account. Administrator accounts are refused.
//
// HTTP: DELETE /api/admin/users/{id}
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// pathID parses the {id} route parameter. On failure it writes a 400 and
// returns ok=false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		badRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}
