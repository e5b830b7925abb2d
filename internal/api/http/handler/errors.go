package handler

import (
	"net/http"
	"time"

	"github.com/EternisAI/silo-auth/internal/api/http/dto"
	"github.com/EternisAI/silo-auth/internal/api/http/middleware"
	"github.com/EternisAI/silo-auth/internal/auth"
	"github.com/gin-gonic/gin"
)

// Messages shown to clients. They never say which step of authentication
// failed.
type errorMessages struct {
	unauthorized string
	badRequest   string
	conflict     string
	internal     string
}

var (
	loginMessages = errorMessages{
		unauthorized: "Authentication failed. Check your API key and credentials.",
		badRequest:   "Invalid request. Check the submitted parameters.",
		internal:     "Error processing authentication.",
	}
	signupMessages = errorMessages{
		unauthorized: "Signup failed. Check your API key.",
		badRequest:   "Invalid request. Check the submitted parameters.",
		internal:     "Error processing authentication.",
	}
	keyPairMessages = errorMessages{
		badRequest: "Invalid request. Check the submitted parameters.",
		conflict:   "A key pair already exists for this API key.",
		internal:   "Error generating the RSA key pair.",
	}
)

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, dto.ErrorResponse{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       c.Request.URL.Path,
		ErrorType:  http.StatusText(status),
		Message:    message,
		RequestID:  c.GetString(middleware.RequestIDKey),
	})
}

func writeServiceError(c *gin.Context, err error, msgs errorMessages) {
	switch auth.KindOf(err) {
	case auth.KindUnauthorized:
		writeError(c, http.StatusUnauthorized, msgs.unauthorized)
	case auth.KindBadRequest:
		writeError(c, http.StatusBadRequest, msgs.badRequest)
	case auth.KindConflict:
		writeError(c, http.StatusConflict, msgs.conflict)
	default:
		writeError(c, http.StatusInternalServerError, msgs.internal)
	}
}
