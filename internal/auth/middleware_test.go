package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/campus-portal/internal/model"
)

// okHandler records the session it saw and returns 200.
func okHandler(t *testing.T, saw *Session) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := SessionFromContext(r.Context()); ok {
			*saw = sess
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_ValidCookie(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate(9, model.RoleStudent)
	require.NoError(t, err)

	var saw Session
	h := RequireAuth(ts)(okHandler(t, &saw))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(9), saw.AccountID)
	assert.Equal(t, model.RoleStudent, saw.Role)
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	ts := newTestTokenService(t)
	h := RequireAuth(ts)(okHandler(t, &Session{}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuth_GarbageToken(t *testing.T) {
	ts := newTestTokenService(t)
	h := RequireAuth(ts)(okHandler(t, &Session{}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not.a.jwt"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdmin(t *testing.T) {
	ts := newTestTokenService(t)

	tests := []struct {
		name     string
		role     model.Role
		wantCode int
	}{
		{name: "admin passes", role: model.RoleAdmin, wantCode: http.StatusOK},
		{name: "student is forbidden", role: model.RoleStudent, wantCode: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ts.Generate(1, tt.role)
			require.NoError(t, err)

			var saw Session
			h := RequireAuth(ts)(RequireAdmin(okHandler(t, &saw)))

			req := httptest.NewRequest(http.MethodDelete, "/api/admin/users/2", nil)
			req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)
		})
	}
}

func TestRequireAdmin_WithoutSession(t *testing.T) {
	// RequireAdmin without RequireAuth in front sees no session and rejects.
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
