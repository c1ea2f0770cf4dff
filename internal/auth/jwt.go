package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/campus-portal/internal/model"
)

const tokenIssuer = "campus-portal"

// sessionTTL is how long an issued session stays valid. The UI redirects
// back through login when it expires; there are no refresh tokens.
const sessionTTL = 12 * time.Hour

// TokenService issues and validates the HS256 session tokens set as an
// HttpOnly cookie after every successful login-like operation.
//
// The token carries the account's numeric ID in the Subject claim and the
// role in a private claim, so RequireAdmin can gate mutating catalog and
// account routes without a database lookup per request.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims embeds jwt.RegisteredClaims (sub, iss, iat, exp) and adds the
// account role.
type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs a session token for the given account.
func (s *TokenService) Generate(accountID int64, role model.Role) (string, error) {
	return s.GenerateWithDuration(accountID, role, sessionTTL)
}

// GenerateWithDuration creates a token with a custom expiry. Used by tests
// to mint already-expired tokens.
func (s *TokenService) GenerateWithDuration(accountID int64, role model.Role, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string, returning the account ID and
// role it encodes.
//
// jwt.WithValidMethods pins the algorithm to HS256 so a token signed with
// "none" or an asymmetric method is rejected before the key is consulted.
func (s *TokenService) Validate(tokenStr string) (int64, model.Role, error) {
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
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, "", fmt.Errorf("auth: token expired")
		}
		return 0, "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("auth: invalid token claims")
	}

	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id < 1 {
		return 0, "", fmt.Errorf("auth: token has an invalid subject")
	}

	return id, model.ParseRole(c.Role), nil
}
