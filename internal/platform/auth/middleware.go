// Package auth extracts the authenticated identity supplied by the external
// auth provider. Every authenticated endpoint treats a missing identity as an
// unconditional 401.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
)

type Claims struct {
	jwt.RegisteredClaims
	UserType string `json:"user_type,omitempty"`
}

type JWTConfig struct {
	// Secret is the HMAC signing key shared with the auth provider.
	Secret   []byte
	Issuer   string
	Audience string
}

// JWTMiddleware validates the bearer token and stashes the subject in both the
// echo context and the request context. Requests without a valid token are
// rejected with 401.
func JWTMiddleware(cfg JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			tokenStr := strings.TrimPrefix(header, "Bearer ")

			claims := &Claims{}
			opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
			if cfg.Issuer != "" {
				opts = append(opts, jwt.WithIssuer(cfg.Issuer))
			}
			if cfg.Audience != "" {
				opts = append(opts, jwt.WithAudience(cfg.Audience))
			}

			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return cfg.Secret, nil
			}, opts...)
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has no subject")
			}

			setIdentity(c, claims.Subject)
			return next(c)
		}
	}
}

// DevAuthMiddleware assigns a fixed development identity when no token is
// present. The X-Debug-User header overrides the subject so multiple users
// can be simulated locally.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sub := c.Request().Header.Get("X-Debug-User")
			if sub == "" {
				sub = "dev-user"
			}
			setIdentity(c, sub)
			return next(c)
		}
	}
}

func setIdentity(c echo.Context, userID string) {
	c.Set(string(UserIDKey), userID)
	ctx := context.WithValue(c.Request().Context(), UserIDKey, userID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// UserID returns the authenticated user id from the echo context, or "" when
// no identity is present.
func UserID(c echo.Context) string {
	id, _ := c.Get(string(UserIDKey)).(string)
	return id
}

// UserIDFromContext returns the authenticated user id from a request context.
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}
