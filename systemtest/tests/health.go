package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/EternisAI/silo-auth/internal/api/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T, env *Env) {
	rr := doJSON(env.Router, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestDocs(t *testing.T, env *Env) {
	rr := doJSON(env.Router, "GET", "/api/openapi.json", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/auth/create-keypair")

	rr = doJSON(env.Router, "GET", "/api/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(env.Router, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "auth_login_attempts_total")
}
