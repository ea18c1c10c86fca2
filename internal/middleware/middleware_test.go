package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		if r.Header.Get(RequestIDHeader) != seen {
			t.Errorf("request header and context disagree")
		}
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("expected response header %q, got %q", seen, rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestID_KeepsIncoming(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "abc-123" {
		t.Errorf("expected incoming id to be kept, got %q", seen)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", http.MethodGet, "http://localhost:3000", false, http.StatusOK, "http://localhost:3000"},
		{"other origin", http.MethodGet, "http://evil.example", false, http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://localhost:3000", true, http.StatusOK, "http://localhost:3000"},
		{"preflight from other origin", http.MethodOptions, "http://evil.example", true, http.StatusOK, ""},
	}

	h := CORS("http://localhost:3000")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/v1/sessions", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tc.wantAllow {
				t.Errorf("Expected allow origin %q, got %q", tc.wantAllow, got)
			}
			if tc.preflight && tc.wantAllow != "" && rec.Header().Get("Access-Control-Max-Age") != "600" {
				t.Errorf("Expected preflight max age 600, got %q", rec.Header().Get("Access-Control-Max-Age"))
			}
			if !tc.preflight && tc.wantAllow != "" && !strings.EqualFold(rec.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader) {
				t.Errorf("Expected exposed %s, got %q", RequestIDHeader, rec.Header().Get("Access-Control-Expose-Headers"))
			}
		})
	}
}

func TestLogger_RecordsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := RequestID(Logger(zap.New(core).Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.FilterMessage("HTTP request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["path"] != "/health" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if fields["request_id"] == "" {
		t.Errorf("expected request id in log")
	}
}
