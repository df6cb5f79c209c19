package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dan9191/finance-planner/internal/service"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeParser map[string]string

func (p fakeParser) ParseToken(token string) (string, error) {
	if id, ok := p[token]; ok {
		return id, nil
	}
	return "", errors.New("bad token")
}

func echoUser(w http.ResponseWriter, r *http.Request) {
	id, err := service.UserIDFromContext(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write([]byte(id))
}

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(fakeParser{"good": "u1"})(http.HandlerFunc(echoUser))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid", "Bearer good", http.StatusOK, "u1"},
		{"missing", "", http.StatusUnauthorized, "No token provided"},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, "No token provided"},
		{"invalid", "Bearer bad", http.StatusUnauthorized, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestLogging(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := Logging(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/x", nil))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "POST", entry.Data["method"])
	assert.Equal(t, "/api/x", entry.Data["path"])
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
}

func TestCORS(t *testing.T) {
	called := false
	h := CORS("http://localhost:8080")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/accounts", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))
	assert.True(t, called)
}
