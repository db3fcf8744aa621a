package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/omarch7/APIS-On-Rails/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestTokenAuth(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "auth@example.com")
	path := fmt.Sprintf("/users/%d/orders", user.ID)

	t.Run("Missing token", func(t *testing.T) {
		w := env.request("GET", path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Not authenticated")
	})

	t.Run("Invalid token", func(t *testing.T) {
		w := env.request("GET", path, "not-a-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Raw token accepted", func(t *testing.T) {
		w := env.request("GET", path, user.AuthToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Bearer prefix tolerated", func(t *testing.T) {
		w := env.request("GET", path, "Bearer "+user.AuthToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Session cookie fallback", func(t *testing.T) {
		// Log in to obtain the session cookie.
		raw, _ := json.Marshal(map[string]interface{}{
			"session": map[string]string{"email": "auth@example.com", "password": "12345678"},
		})
		loginReq, _ := http.NewRequest("POST", "/sessions", bytes.NewBuffer(raw))
		loginReq.Header.Set("Content-Type", "application/json")
		loginW := httptest.NewRecorder()
		env.router.ServeHTTP(loginW, loginReq)
		assert.Equal(t, http.StatusOK, loginW.Code)

		cookies := loginW.Result().Cookies()
		assert.NotEmpty(t, cookies)

		req, _ := http.NewRequest("GET", path, nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	env := setupTestEnv(t)

	// A router with an aggressive limiter: 1 req/s, burst 2.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	limited := env.handler.SetupRouter(services.NewIPRateLimiter(1, 2, logger))

	var lastCode int
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/health", nil)
		limited.ServeHTTP(w, req)
		lastCode = w.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
