package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"lending-engine/internal/config"
)

type contextKey string

const (
	ContextKeyUsername contextKey = "username"
	ContextKeyRole     contextKey = "role"
)

// AuthMiddleware validates the bearer token and places username and role
// claims on the request context for handlers to consume.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := validateJWT(r, cfg.JWTSecret, logger)
			if !ok {
				http.Error(w, `{"error":{"message":"Unauthorized"}}`, http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			if username, ok := claims["username"].(string); ok {
				ctx = context.WithValue(ctx, ContextKeyUsername, username)
			}
			if role, ok := claims["role"].(string); ok {
				ctx = context.WithValue(ctx, ContextKeyRole, role)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateJWT(r *http.Request, secret string, logger *slog.Logger) (jwt.MapClaims, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		logger.Warn("AuthMiddleware: Missing Authorization header")
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		logger.Warn("AuthMiddleware: Invalid Authorization header format")
		return nil, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Warn("AuthMiddleware: Unexpected signing method")
			return nil, http.ErrAbortHandler
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		logger.Warn("AuthMiddleware: Invalid token", "error", err)
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		logger.Warn("AuthMiddleware: Unexpected claims type")
		return nil, false
	}
	return claims, true
}

// UsernameFromContext returns the authenticated username, or empty when auth
// is disabled.
func UsernameFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyUsername).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ContextKeyRole).(string); ok {
		return v
	}
	return ""
}
