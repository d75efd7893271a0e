// Package testsession logs end-to-end test sessions in through the
// backend's test-only login endpoint and mirrors the login into client state.
package testsession

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"tdrs/internal/store"
)

const LoginPath = "/login/cypress"

var ErrEmptyUsername = errors.New("username is required")

type Config struct {
	APIURL string
	Token  string
}

// Credentials is the body sent to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type Option func(*Authenticator)

func WithHTTPClient(c *http.Client) Option {
	return func(a *Authenticator) {
		a.client = c
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

type Authenticator struct {
	cfg    Config
	store  store.Dispatcher
	client *http.Client
	logger *slog.Logger
}

func New(cfg Config, s store.Dispatcher, opts ...Option) *Authenticator {
	a := &Authenticator{
		cfg:    cfg,
		store:  s,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		jar, _ := cookiejar.New(nil)
		a.client = &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		}
	}
	return a
}

// Client returns the HTTP client holding the session cookie set by Login.
func (a *Authenticator) Client() *http.Client {
	return a.client
}

// Login authenticates username against the test login endpoint and then
// dispatches SET_AUTH. The response body is not inspected.
func (a *Authenticator) Login(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrEmptyUsername
	}

	data, err := json.Marshal(Credentials{Username: username, Token: a.cfg.Token})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	url := strings.TrimRight(a.cfg.APIURL, "/") + LoginPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("test login rejected", "username", username, "status", resp.StatusCode)
		return fmt.Errorf("login request failed: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	err = a.store.Dispatch(store.Action{
		Type:    store.SetAuth,
		Payload: store.AuthPayload{User: store.User{Email: username}},
	})
	if err != nil {
		return fmt.Errorf("failed to update auth state: %w", err)
	}

	a.logger.Info("test session logged in", "username", username)
	return nil
}
