package handler

import (
	"log/slog"
	"net/http"

	"github.com/EternisAI/silo-auth/internal/api/http/dto"
	"github.com/EternisAI/silo-auth/internal/api/http/middleware"
	"github.com/EternisAI/silo-auth/internal/auth"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("Invalid login request", "error", err)
		writeError(c, http.StatusBadRequest, loginMessages.badRequest)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.APIKey, req.EncryptedUsername, req.EncryptedPassword)
	if err != nil {
		writeServiceError(c, err, loginMessages)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: result.Token, Message: result.Message})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("Invalid signup request", "error", err)
		writeError(c, http.StatusBadRequest, signupMessages.badRequest)
		return
	}

	result, err := h.authService.Signup(c.Request.Context(), req.APIKey)
	if err != nil {
		writeServiceError(c, err, signupMessages)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Token: result.Token, Message: result.Message})
}

func (h *AuthHandler) CreateKeyPair(c *gin.Context) {
	var req dto.CreateKeyPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Debug("Invalid create-keypair request", "error", err)
		writeError(c, http.StatusBadRequest, keyPairMessages.badRequest)
		return
	}

	issued, err := h.authService.CreateKeyPair(c.Request.Context(), req.APIKey, c.ClientIP())
	if err != nil {
		writeServiceError(c, err, keyPairMessages)
		return
	}

	rec := issued.Record
	c.JSON(http.StatusCreated, dto.KeyPairResponse{
		ID:             rec.ID,
		APIKey:         rec.APIKey,
		PublicKey:      issued.PublicKey,
		IsActive:       rec.IsActive,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		ClientIP:       rec.ClientIP,
		FailedAttempts: rec.FailedAttempts,
	})
}

// Session echoes the claims of the bearer token validated by JWTAuth.
func (h *AuthHandler) Session(c *gin.Context) {
	claims, _ := c.Get(middleware.ClaimsKey)
	cl, ok := claims.(*auth.Claims)
	if !ok {
		writeError(c, http.StatusUnauthorized, "invalid token")
		return
	}

	resp := dto.SessionResponse{APIKey: cl.APIKey, Username: cl.Username}
	if cl.IssuedAt != nil {
		resp.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		resp.ExpiresAt = cl.ExpiresAt.Time
	}
	c.JSON(http.StatusOK, resp)
}
