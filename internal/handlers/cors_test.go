package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	allowed := []string{
		"chrome-extension://jpodbbdeijbdjkhhafhedahegamgdjpp",
		"http://localhost:3000",
	}

	var reached bool
	handler := CORS(allowed, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("allowed origin passes through", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/fetch-data?email=a@x.com", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.True(t, reached)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("foreign origin rejected", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/fetch-data?email=a@x.com", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answered without reaching mux", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodOptions, "/store-data", nil)
		req.Header.Set("Origin", allowed[0])
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, reached)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Api-Key")
	})

	t.Run("no origin header passes through", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/fetch-data?email=a@x.com", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.True(t, reached)
	})
}
