// Package eventlog reports "error" and "alert" events to the backend log
// collection endpoint. Submission is best effort: calls never block on the
// network and failed submissions are dropped.
//
//	logger := eventlog.New(cfg, eventlog.Context{"username": "a@b.com"})
//	logger.Error("boom", nil)
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net/http"
	"sync"
	"time"

	"tdrs/internal/store"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityAlert Severity = "alert"
)

func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityAlert
}

// TimestampLayout is ISO-8601 in UTC with sub-second precision.
const TimestampLayout = time.RFC3339Nano

var ErrInvalidSeverity = errors.New("invalid severity")

// Context is additional key/value metadata merged into an event body.
type Context map[string]any

type Config struct {
	BackendURL string
}

type Option func(*Logger)

// WithHTTPClient sets the client used for submissions. Share its cookie jar
// with the session authenticator to send the logged-in session along.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Logger) {
		l.client = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Logger) {
		l.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Logger) {
		l.now = now
	}
}

// UserSource exposes the currently authenticated user.
type UserSource interface {
	User() (store.User, bool)
}

type Logger struct {
	base   Context
	url    string
	client *http.Client
	logger *slog.Logger
	now    func() time.Time

	mu   sync.Mutex
	last time.Time

	inflight sync.WaitGroup
}

// New creates a logger whose events all carry a copy of base.
func New(cfg Config, base Context, opts ...Option) *Logger {
	l := &Logger{
		base:   maps.Clone(base),
		url:    cfg.BackendURL + "/logs/",
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = defaultClient()
	}
	return l
}

// NewAnonymous creates a logger without base context.
func NewAnonymous(cfg Config, opts ...Option) *Logger {
	return New(cfg, nil, opts...)
}

// ForUser creates a logger tagged with the authenticated user's email, or an
// anonymous one when nobody is logged in.
func ForUser(cfg Config, users UserSource, opts ...Option) *Logger {
	if users != nil {
		if u, ok := users.User(); ok {
			return New(cfg, Context{"username": u.Email}, opts...)
		}
	}
	return NewAnonymous(cfg, opts...)
}

func (l *Logger) Error(message string, ctx Context) {
	l.Log(SeverityError, message, ctx)
}

func (l *Logger) Alert(message string, ctx Context) {
	l.Log(SeverityAlert, message, ctx)
}

// Log submits one event. The only error reported is an unrecognized
// severity; transport failures are never surfaced.
func (l *Logger) Log(severity Severity, message string, ctx Context) error {
	if !severity.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSeverity, severity)
	}

	// Encode now so the event holds call-time values and the caller's maps
	// are never read after Log returns.
	data, err := json.Marshal(l.event(severity, message, ctx))
	if err != nil {
		l.logger.Debug("event dropped, failed to encode", "type", severity, "error", err)
		return nil
	}

	l.inflight.Add(1)
	go func() {
		defer l.inflight.Done()
		if err := l.submit(data); err != nil {
			l.logger.Debug("event submission dropped",
				"type", severity,
				"url", l.url,
				"error", err,
			)
		}
	}()
	return nil
}

// Wait blocks until every submission started so far has settled.
func (l *Logger) Wait() {
	l.inflight.Wait()
}

// event merges base, per-call context and timestamp in that order, last
// write winning. message and type are written after all of them, so they
// win over any same-named context key and always describe the call.
func (l *Logger) event(severity Severity, message string, ctx Context) Context {
	body := make(Context, len(l.base)+len(ctx)+3)
	maps.Copy(body, l.base)
	maps.Copy(body, ctx)
	body["timestamp"] = l.timestamp()
	body["message"] = message
	body["type"] = string(severity)
	return body
}

func (l *Logger) timestamp() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	// A clock stepping backwards is held at the last reading.
	now := l.now().UTC()
	if now.Before(l.last) {
		now = l.last
	}
	l.last = now
	return now.Format(TimestampLayout)
}

// LogError sends one error event without base context.
func LogError(cfg Config, message string, ctx Context, opts ...Option) {
	NewAnonymous(cfg, opts...).Error(message, ctx)
}

// LogAlert sends one alert event without base context.
func LogAlert(cfg Config, message string, ctx Context, opts ...Option) {
	NewAnonymous(cfg, opts...).Alert(message, ctx)
}
