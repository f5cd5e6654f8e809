package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCORSConfig(t *testing.T) {
	config := DefaultCORSConfig()
	assert.False(t, config.AllowAll)
	assert.Equal(t, []string{"*"}, config.AllowedOrigins)
	assert.Contains(t, config.AllowedMethods, http.MethodPut)
	assert.Contains(t, config.AllowedMethods, http.MethodDelete)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		config     CORSConfig
		origin     string
		wantOrigin string
	}{
		{
			name:       "allow all",
			config:     CORSConfig{AllowAll: true},
			origin:     "https://example.com",
			wantOrigin: "*",
		},
		{
			name:       "listed origin is echoed",
			config:     CORSConfig{AllowedOrigins: []string{"tauri://localhost", "https://app.example.com"}},
			origin:     "tauri://localhost",
			wantOrigin: "tauri://localhost",
		},
		{
			name:       "unlisted origin gets nothing",
			config:     CORSConfig{AllowedOrigins: []string{"tauri://localhost"}},
			origin:     "https://evil.example.com",
			wantOrigin: "",
		},
		{
			name:       "empty list allows all",
			config:     CORSConfig{},
			origin:     "https://example.com",
			wantOrigin: "*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.config)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/items", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_PreflightShortCircuit(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/library/x", nil)
	req.Header.Set("Origin", "tauri://localhost")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestIsOriginAllowed(t *testing.T) {
	assert.True(t, isOriginAllowed("https://a.example.com", []string{"*"}))
	assert.True(t, isOriginAllowed("https://a.example.com", []string{"https://a.example.com"}))
	assert.False(t, isOriginAllowed("https://b.example.com", []string{"https://a.example.com"}))
	assert.False(t, isOriginAllowed("https://a.example.com", nil))
}
