package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/campus-portal/internal/auth"
	"github.com/sakif/campus-portal/internal/model"
	sqliteRepo "github.com/sakif/campus-portal/internal/repository/sqlite"
	"github.com/sakif/campus-portal/internal/service"
)

// stubVerifier satisfies auth.IdentityVerifier with a canned identity.
type stubVerifier struct {
	identity *auth.Identity
	err      error
}

func (s *stubVerifier) VerifyIDToken(context.Context, string) (*auth.Identity, error) {
	return s.identity, s.err
}

func (s *stubVerifier) VerifyAccessToken(context.Context, string) (*auth.Identity, error) {
	return s.identity, s.err
}

// testAPI is a fully wired API over an in-memory database, mirroring the
// route layout in internal/server.
type testAPI struct {
	router   *chi.Mux
	db       *sqliteRepo.DB
	accounts *service.AccountService
	tokens   *auth.TokenService
}

func newTestAPI(t *testing.T, verifier auth.IdentityVerifier) *testAPI {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	passwords := auth.NewPasswordServiceForTest()

	accountService := service.NewAccountService(
		db.Accounts(), tokens, passwords, verifier,
		[]string{"@stu.najah.edu", "@najah.edu"}, logger,
	)
	catalogService := service.NewCatalogService(
		db.Colleges(), db.Programs(), db.Events(), logger,
	)

	authHandler := NewAuthHandler(accountService, logger)
	adminHandler := NewAdminHandler(accountService, logger)
	catalogHandler := NewCatalogHandler(catalogService, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Get("/colleges", catalogHandler.HandleListColleges)
		r.Get("/colleges/{id}", catalogHandler.HandleGetCollege)
		r.Get("/events", catalogHandler.HandleListEvents)

		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/google", authHandler.HandleGoogleLogin)
		r.Post("/auth/change-password", authHandler.HandleChangePassword)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/auth/me", authHandler.HandleMe)
			r.Post("/auth/complete-profile", authHandler.HandleCompleteProfile)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Use(auth.RequireAdmin)
			r.Get("/users", adminHandler.HandleListUsers)
			r.Post("/users", adminHandler.HandleCreateUser)
			r.Put("/users/{id}", adminHandler.HandleUpdateUser)
			r.Delete("/users/{id}", adminHandler.HandleDeleteUser)
			r.Post("/colleges", catalogHandler.HandleCreateCollege)
			r.Delete("/colleges/{id}", catalogHandler.HandleDeleteCollege)
			r.Post("/events", catalogHandler.HandleCreateEvent)
		})
	})

	return &testAPI{router: router, db: db, accounts: accountService, tokens: tokens}
}

// do sends a JSON request through the router. A non-empty token is attached
// as the session cookie.
func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

// seedStudent creates a student account directly in the store and returns it
// with a valid session token.
func (a *testAPI) seedStudent(t *testing.T, email, password string) (*model.Account, string) {
	t.Helper()
	hash, err := auth.NewPasswordServiceForTest().Hash(password)
	require.NoError(t, err)

	account := &model.Account{Email: email, PasswordHash: hash, Role: model.RoleStudent}
	require.NoError(t, a.db.Accounts().Create(context.Background(), account))

	token, err := a.tokens.Generate(account.ID, account.Role)
	require.NoError(t, err)
	return account, token
}

func (a *testAPI) seedAdmin(t *testing.T) (*model.Account, string) {
	t.Helper()
	hash, err := auth.NewPasswordServiceForTest().Hash("admin-pass")
	require.NoError(t, err)

	account := &model.Account{Email: "admin@najah.edu", PasswordHash: hash, Role: model.RoleAdmin}
	require.NoError(t, a.db.Accounts().Create(context.Background(), account))

	token, err := a.tokens.Generate(account.ID, account.Role)
	require.NoError(t, err)
	return account, token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleLogin(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})
	api.seedStudent(t, "student@stu.najah.edu", "secret99")

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "student@stu.najah.edu",
		"password": "secret99",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]any)
	require.True(t, ok, "response should carry the user object")
	assert.Equal(t, "student@stu.najah.edu", user["email"])
	assert.NotContains(t, user, "password_hash")

	// The session also travels as an HttpOnly cookie.
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})
	api.seedStudent(t, "student@stu.najah.edu", "secret99")

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "student@stu.najah.edu",
		"password": "wrong",
	})

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeBody(t, rec)["error"])
}

func TestHandleLogin_MalformedBody(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGoogleLogin_CreatesAccount(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{identity: &auth.Identity{
		Email:         "fresh@stu.najah.edu",
		EmailVerified: true,
		Name:          "Fresh Student",
	}})

	rec := api.do(t, http.MethodPost, "/api/auth/google", "", map[string]string{
		"credential": "stub-id-token",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, "fresh@stu.najah.edu", user["email"])
	assert.Equal(t, true, user["must_complete_profile"])
}

func TestHandleGoogleLogin_DisallowedDomain(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{identity: &auth.Identity{
		Email:         "outsider@gmail.com",
		EmailVerified: true,
	}})

	rec := api.do(t, http.MethodPost, "/api/auth/google", "", map[string]string{
		"credential": "stub-id-token",
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "domain_not_allowed", decodeBody(t, rec)["error"])
}

func TestHandleMe(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})
	account, token := api.seedStudent(t, "student@stu.najah.edu", "secret99")

	rec := api.do(t, http.MethodGet, "/api/auth/me", token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, account.Email, user["email"])
}

func TestHandleMe_NoSession(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})

	rec := api.do(t, http.MethodGet, "/api/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleChangePassword_Weak(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})
	api.seedStudent(t, "student@stu.najah.edu", "secret99")

	rec := api.do(t, http.MethodPost, "/api/auth/change-password", "", map[string]string{
		"email":            "student@stu.najah.edu",
		"current_password": "secret99",
		"new_password":     "abc",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "weak_password", decodeBody(t, rec)["error"])
}

func TestHandleCompleteProfile(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})
	account, token := api.seedStudent(t, "student@stu.najah.edu", "unused")
	account.MustCompleteProfile = true
	require.NoError(t, api.db.Accounts().Update(context.Background(), account))

	payload := map[string]string{
		"first_name":     "Omar",
		"last_name":      "Nasser",
		"student_number": "12110077",
		"password":       "fresh-secret",
	}
	rec := api.do(t, http.MethodPost, "/api/auth/complete-profile", token, payload)
	require.Equal(t, http.StatusOK, rec.Code)

	user := decodeBody(t, rec)["user"].(map[string]any)
	assert.Equal(t, false, user["must_complete_profile"])
	assert.Equal(t, "12110077", user["student_number"])

	// The chosen password now works for a regular sign-in.
	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    account.Email,
		"password": "fresh-secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Replaying the one-time step fails.
	rec = api.do(t, http.MethodPost, "/api/auth/complete-profile", token, payload)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "already_completed", decodeBody(t, rec)["error"])
}

func TestHandleLogout_ClearsCookie(t *testing.T) {
	api := newTestAPI(t, &stubVerifier{})

	rec := api.do(t, http.MethodPost, "/api/auth/logout", "any-token", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, auth.SessionCookie, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}
