package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"taskdeck/todo"

	"github.com/rs/zerolog"
)

// HTTPBackend speaks the REST API. The session rides on a cookie kept in
// the jar, so one backend instance is one authenticated identity.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

type HTTPOption func(*HTTPBackend)

// WithLogger enables request logging. The default logger discards
// everything.
func WithLogger(logger zerolog.Logger) HTTPOption {
	return func(b *HTTPBackend) {
		b.logger = logger
	}
}

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(b *HTTPBackend) {
		b.client = client
	}
}

func NewHTTPBackend(baseURL string, opts ...HTTPOption) (*HTTPBackend, error) {
	jar, err := cookiejar.New(nil)

	if err != nil {
		return nil, err
	}

	b := &HTTPBackend{
		baseURL: baseURL,
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.client.Jar == nil {
		b.client.Jar = jar
	}

	return b, nil
}

type loginRequest struct {
	Username string `json:"username"`
	// The wire contract names this field for a hash but it carries the
	// raw password.
	PasswordHash string `json:"passwordHash"`
}

type signupRequest struct {
	Username string `json:"username"`
}

type challengeSubmitRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	ChallengeID string `json:"challengeId"`
	Answer      int    `json:"answer"`
}

type profileResponse struct {
	Username string `json:"username"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func (b *HTTPBackend) Login(ctx context.Context, username, password string) (string, error) {
	var profile profileResponse

	err := b.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{
		Username:     username,
		PasswordHash: password,
	}, &profile)

	if err != nil {
		return "", err
	}

	return profile.Username, nil
}

func (b *HTTPBackend) StartSignup(ctx context.Context, username string) (Challenge, error) {
	var challenge Challenge

	err := b.do(ctx, http.MethodPost, "/api/auth/signup", signupRequest{Username: username}, &challenge)

	return challenge, err
}

func (b *HTTPBackend) CompleteSignup(ctx context.Context, username, password, challengeID string, answer int) (string, error) {
	var profile profileResponse

	err := b.do(ctx, http.MethodPost, "/api/auth/challenge/submit", challengeSubmitRequest{
		Username:    username,
		Password:    password,
		ChallengeID: challengeID,
		Answer:      answer,
	}, &profile)

	if err != nil {
		return "", err
	}

	return profile.Username, nil
}

func (b *HTTPBackend) Logout(ctx context.Context) error {
	return b.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (b *HTTPBackend) Profile(ctx context.Context) (string, error) {
	var profile profileResponse

	if err := b.do(ctx, http.MethodGet, "/api/auth/profile", nil, &profile); err != nil {
		return "", err
	}

	return profile.Username, nil
}

func (b *HTTPBackend) ListTodos(ctx context.Context) ([]todo.Todo, error) {
	var todos []todo.Todo

	if err := b.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}

	return todos, nil
}

func (b *HTTPBackend) CreateTodo(ctx context.Context, candidate todo.Todo) (todo.Todo, error) {
	var created todo.Todo

	err := b.do(ctx, http.MethodPost, "/api/todos", candidate, &created)

	return created, err
}

func (b *HTTPBackend) UpdateTodo(ctx context.Context, id string, patch Patch) (todo.Todo, error) {
	var updated todo.Todo

	err := b.do(ctx, http.MethodPut, "/api/todos/"+id, patch, &updated)

	return updated, err
}

func (b *HTTPBackend) DeleteTodo(ctx context.Context, id string) error {
	return b.do(ctx, http.MethodDelete, "/api/todos/"+id, nil, nil)
}

func (b *HTTPBackend) ReorderTodos(ctx context.Context, ids []string) error {
	return b.do(ctx, http.MethodPost, "/api/todos/reorder", reorderRequest{IDs: ids}, nil)
}

func (b *HTTPBackend) Stats(ctx context.Context) (todo.Stats, error) {
	var stats todo.Stats

	err := b.do(ctx, http.MethodGet, "/api/todos/dashboard/stats", nil, &stats)

	return stats, err
}

// errorEnvelope mirrors the API error shape.
type errorEnvelope struct {
	Error struct {
		Code   string `json:"code"`
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	} `json:"error"`
}

func (b *HTTPBackend) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)

		if err != nil {
			return err
		}

		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)

	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := b.client.Do(req)

	if err != nil {
		b.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return err
	}

	defer resp.Body.Close()

	b.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	raw, err := io.ReadAll(resp.Body)

	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, raw)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	return json.Unmarshal(raw, out)
}

// apiError extracts the first server-provided message, falling back to the
// status text.
func apiError(status int, raw []byte) error {
	var envelope errorEnvelope

	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Error.Errors) > 0 {
		return fmt.Errorf("%s", envelope.Error.Errors[0].Message)
	}

	return fmt.Errorf("request failed: %s", http.StatusText(status))
}
