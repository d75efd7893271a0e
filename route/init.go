package route

import (
	"log/slog"
	"net/http"

	"tdrs/internal/collector"
	"tdrs/internal/middleware"
)

type Options struct {
	SharedToken   string
	AllowedOrigin string
}

// Initialize sets up all routes and returns the wrapped handler
func Initialize(rec *collector.Recorder, opts Options, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /health", GetHealth())

	// Test-only login
	mux.HandleFunc("POST /login/cypress", PostTestLogin(opts.SharedToken))
	mux.HandleFunc("POST /logout", PostLogout())

	// Event collection
	mux.HandleFunc("POST /logs/", PostLog(rec))
	mux.HandleFunc("GET /logs/", GetLogHistory(rec))

	return middleware.New(middleware.WithLogging(logger)).
		Use(middleware.CORS(opts.AllowedOrigin)).
		Then(mux)
}
