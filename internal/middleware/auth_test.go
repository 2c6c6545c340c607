package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"noteshare/internal/domain"
	"noteshare/internal/domain/models"
	"noteshare/internal/httputil"
)

type fakeVerifier map[string]int64

func (f fakeVerifier) VerifyToken(token string) (*models.AuthenticatedIdentity, error) {
	if id, ok := f[token]; ok {
		return &models.AuthenticatedIdentity{UserID: id}, nil
	}
	return nil, domain.ErrUnauthorized
}

func (f fakeVerifier) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoUser writes the authenticated user ID, or 0 when there is none
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]int64{"user_id": httputil.GetUserID(r)})
})

func TestAuth(t *testing.T) {
	handler := Auth(fakeVerifier{"good": 7}, discardLogger())(echoUser)

	tests := []struct {
		name       string
		method     string
		path       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", http.MethodGet, "/api/documents", "Bearer good", http.StatusOK, `"user_id":7`},
		{"scheme is case-insensitive", http.MethodGet, "/api/documents", "bearer good", http.StatusOK, `"user_id":7`},
		{"missing header", http.MethodGet, "/api/documents", "", http.StatusUnauthorized, "missing or malformed"},
		{"wrong scheme", http.MethodGet, "/api/documents", "Basic good", http.StatusUnauthorized, "missing or malformed"},
		{"empty token", http.MethodGet, "/api/documents", "Bearer   ", http.StatusUnauthorized, "missing or malformed"},
		{"invalid token", http.MethodGet, "/api/documents", "Bearer bad", http.StatusUnauthorized, "invalid or expired"},
		{"public path", http.MethodPost, "/api/auth/login", "", http.StatusOK, `"user_id":0`},
		{"health", http.MethodGet, "/health", "", http.StatusOK, `"user_id":0`},
		{"preflight", http.MethodOptions, "/api/documents", "", http.StatusOK, `"user_id":0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/documents", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestRecovery_RepanicsOnAbort(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
