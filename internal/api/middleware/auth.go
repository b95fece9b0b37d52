package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/scry-completion/internal/api/shared"
	"github.com/phrazzld/scry-completion/internal/platform/logger"
)

// DefaultClockSkew is the leeway allowed when validating time claims.
const DefaultClockSkew = 30 * time.Second

// AuthMiddleware authenticates requests with HS256-signed bearer tokens.
type AuthMiddleware struct {
	signingKey []byte
	clockSkew  time.Duration
	timeFunc   func() time.Time
}

// NewAuthMiddleware creates an AuthMiddleware verifying tokens with secret.
func NewAuthMiddleware(secret string) (*AuthMiddleware, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwt secret must be at least 32 characters")
	}
	return &AuthMiddleware{
		signingKey: []byte(secret),
		clockSkew:  DefaultClockSkew,
		timeFunc:   time.Now,
	}, nil
}

// WithTimeFunc replaces the clock used for expiry checks.
func (m *AuthMiddleware) WithTimeFunc(timeFunc func() time.Time) *AuthMiddleware {
	m.timeFunc = timeFunc
	return m
}

// Authenticate validates the bearer token from the Authorization header and
// adds its subject to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}

		subject, err := m.validate(r, parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid token", err,
				shared.WithElevatedLogLevel())
			return
		}

		next.ServeHTTP(w, r.WithContext(shared.SetSubject(r.Context(), subject)))
	})
}

func (m *AuthMiddleware) validate(r *http.Request, tokenString string) (string, error) {
	now := m.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(m.clockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		logger.FromContext(r.Context()).Debug("token validation failed",
			"error", err,
			"error_type", fmt.Sprintf("%T", err))
		return "", err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: missing subject", jwt.ErrTokenInvalidClaims)
	}

	return claims.Subject, nil
}
