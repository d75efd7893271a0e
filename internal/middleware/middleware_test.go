package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := New(mark("a")).Use(mark("b")).Then(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if strings.Join(order, ",") != "a,b,handler" {
		t.Errorf("unexpected order %v", order)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seenID string
	h := WithLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r)
		GetLogger(r).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodPost, "/logs/", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seenID != "req-42" {
		t.Errorf("expected incoming request id reused, got %q", seenID)
	}
	if rec.Header().Get("X-Request-ID") != "req-42" {
		t.Errorf("expected request id echoed, got %q", rec.Header().Get("X-Request-ID"))
	}
	out := buf.String()
	if !strings.Contains(out, `"msg":"inside handler"`) || !strings.Contains(out, `"request_id":"req-42"`) {
		t.Errorf("expected request-scoped log line, got %s", out)
	}
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"status":418`) {
		t.Errorf("expected client error logged at WARN, got %s", out)
	}
}

func TestWithLoggingRecoversPanic(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := WithLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestGetLoggerDefault(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if GetLogger(r) == nil {
		t.Error("expected default logger")
	}
	if GetRequestID(r) != "" {
		t.Error("expected empty request id outside WithLogging")
	}
}

func TestCORSIgnoresOtherOrigins(t *testing.T) {
	h := CORS("http://frontend.test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unexpected allow-origin for foreign origin")
	}
}
