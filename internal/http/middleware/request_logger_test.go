package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestLoggerAssignsID(t *testing.T) {
	var seen string
	h := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bookings", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestLoggerKeepsIncomingID(t *testing.T) {
	var seen string
	h := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}
