package auth

import (
	"context"
	"net/http"

	"github.com/sakif/campus-portal/internal/model"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the session value.
type contextKey string

const sessionKey contextKey = "session"

// SessionCookie is the name of the HttpOnly cookie carrying the JWT.
const SessionCookie = "token"

// Session is the authenticated caller's identity, extracted from a valid
// session token and stored in the request context.
type Session struct {
	AccountID int64
	Role      model.Role
}

// RequireAuth enforces authentication on protected routes.
//
// It reads the JWT from the session cookie, validates it, and stores the
// Session in the request context. Missing or invalid tokens end the request
// with 401.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := extractSession(r, tokens)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin enforces that the caller is an authenticated administrator.
// Stack it after RequireAuth on mutating catalog and account routes; it
// returns 403 for valid student sessions.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := SessionFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if sess.Role != model.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"forbidden","message":"administrator access required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromContext retrieves the authenticated session from the request
// context. The second return is false for anonymous requests.
func SessionFromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}

func extractSession(r *http.Request, tokens *TokenService) (Session, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return Session{}, err
	}

	id, role, err := tokens.Validate(cookie.Value)
	if err != nil {
		return Session{}, err
	}
	return Session{AccountID: id, Role: role}, nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
