package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ctxkeys "tdrs/internal/context"

	"github.com/google/uuid"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	responseSize int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.responseSize += int64(size)
	return size, err
}

// getClientIP extracts the real client IP from proxy headers or RemoteAddr
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// WithLogging assigns a request id, stores a request-scoped logger in the
// context and logs each completed request at a level chosen by its status.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			reqLogger := logger.With(
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", getClientIP(r),
			)

			ctx := context.WithValue(r.Context(), ctxkeys.RequestIDContextKey, requestID)
			ctx = context.WithValue(ctx, ctxkeys.LoggerContextKey, reqLogger)

			w.Header().Set("X-Request-ID", requestID)
			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			func() {
				defer func() {
					if err := recover(); err != nil {
						reqLogger.Error("HTTP request panic recovered", "panic", err)
						http.Error(wrapper, "Internal Server Error", http.StatusInternalServerError)
					}
				}()
				next.ServeHTTP(wrapper, r.WithContext(ctx))
			}()

			duration := time.Since(start)
			fields := []any{
				"status", wrapper.statusCode,
				"response_size", wrapper.responseSize,
				"duration_ms", duration.Milliseconds(),
			}

			switch {
			case wrapper.statusCode >= 500:
				reqLogger.Error("HTTP request failed with server error", fields...)
			case wrapper.statusCode >= 400:
				reqLogger.Warn("HTTP request failed with client error", fields...)
			default:
				reqLogger.Info("HTTP request completed", fields...)
			}
		})
	}
}

// GetLogger returns the request-scoped logger, or the default logger outside
// of WithLogging.
func GetLogger(r *http.Request) *slog.Logger {
	if l, ok := r.Context().Value(ctxkeys.LoggerContextKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(ctxkeys.RequestIDContextKey).(string); ok {
		return id
	}
	return ""
}
