// ABOUTME: Tests for the HTTP middleware chain
// ABOUTME: Covers request ID propagation, status capture and panic recovery

package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID_Generated(t *testing.T) {
	var seen string
	h := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	got := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("generated request ID %q is not a UUID: %v", got, err)
	}
	if seen != got {
		t.Errorf("context request ID = %q, header = %q", seen, got)
	}
}

func TestRequestID_Honoured(t *testing.T) {
	h := requestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "trace-123" {
		t.Errorf("request ID = %q, want trace-123", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); len(got) > maxRequestIDLen {
		t.Error("oversized request ID should be replaced")
	}
}

func TestStatusRecorder(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec}

	_, _ = sr.Write([]byte("hi"))
	sr.WriteHeader(http.StatusTeapot)

	if sr.status != http.StatusOK {
		t.Errorf("status = %d, want the implicit 200 from Write", sr.status)
	}
}

func TestRecoverPanics(t *testing.T) {
	gw := &Gateway{logger: testLogger()}
	h := gw.recoverPanics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), `"error":"internal server error"`) {
		t.Errorf("body = %q, want JSON error", rec.Body.String())
	}
}
