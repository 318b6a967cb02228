package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user ID.
const UserIDKey = "userID"

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type AuthMiddleware struct {
	log      *slog.Logger
	verifier TokenVerifier
}

func NewAuthMiddleware(log *slog.Logger, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{log: log, verifier: verifier}
}

// Required rejects requests without a valid bearer token.
func (m *AuthMiddleware) Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractTokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No token, authorization denied"})
			return
		}

		userID, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			m.log.Debug("token rejected", slog.String("path", c.FullPath()), sl.Err(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// Optional identifies the caller when a valid bearer token is present.
// Missing or invalid tokens leave the request anonymous.
func (m *AuthMiddleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractTokenFromHeader(c.GetHeader("Authorization"))
		if token != "" {
			if userID, err := m.verifier.Verify(c.Request.Context(), token); err == nil {
				c.Set(UserIDKey, userID)
			} else {
				m.log.Debug("token ignored", slog.String("path", c.FullPath()), sl.Err(err))
			}
		}

		c.Next()
	}
}

// UserID returns the authenticated user ID, or "" for anonymous requests.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func extractTokenFromHeader(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
