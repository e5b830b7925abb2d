package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/EternisAI/silo-auth/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	apiKeyHeader = "X-API-Key"

	ClaimsKey = "claims"
)

func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortWithError(c, http.StatusUnauthorized, "missing or invalid authorization header")
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		claims, err := auth.ValidateToken(secret, token)
		if err != nil {
			slog.Debug("Rejected bearer token", "error", err, "client_ip", c.ClientIP())
			abortWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// AdminKeyAuth guards key issuance with a static operator key sent in the
// X-API-Key header.
func AdminKeyAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader(apiKeyHeader)
		if providedKey == "" {
			abortWithError(c, http.StatusUnauthorized, "Missing admin key")
			return
		}

		if subtle.ConstantTimeCompare([]byte(providedKey), []byte(adminKey)) != 1 {
			slog.Warn("Invalid admin key attempt",
				"path", c.Request.URL.Path,
				"client_ip", c.ClientIP())
			abortWithError(c, http.StatusUnauthorized, "Invalid admin key")
			return
		}

		c.Next()
	}
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"errorType":  http.StatusText(status),
		"message":    message,
		"path":       c.Request.URL.Path,
		"requestId":  c.GetString(RequestIDKey),
	})
}
