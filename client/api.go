package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// defaultTimeout bounds every remote call so no operation can hang its
// caller without resolving to an error.
const defaultTimeout = 15 * time.Second

// API is the bearer-authenticated JSON transport to the matchmaking
// service. It owns the uniform session-expiry handling: any response
// carrying error_code TOKEN_EXPIRED clears the session and comes back as
// ErrSessionExpired.
type API struct {
	baseURL string
	http    *http.Client
	session *Session
	log     zerolog.Logger
}

func NewAPI(baseURL string, session *Session, httpClient *http.Client, logger zerolog.Logger) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &API{baseURL: baseURL, http: httpClient, session: session, log: logger}
}

// errorBody is the shape the service uses for every failure response.
type errorBody struct {
	ErrorCode string `json:"error_code,omitempty"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
}

func (a *API) get(ctx context.Context, path string, out any) error {
	return a.do(ctx, http.MethodGet, path, nil, out)
}

func (a *API) post(ctx context.Context, path string, body, out any) error {
	return a.do(ctx, http.MethodPost, path, body, out)
}

func (a *API) patch(ctx context.Context, path string, out any) error {
	return a.do(ctx, http.MethodPatch, path, nil, out)
}

func (a *API) delete(ctx context.Context, path string) error {
	return a.do(ctx, http.MethodDelete, path, nil, nil)
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := a.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return a.asError(res.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			a.log.Error().Str("path", path).Err(err).Msg("undecodable response body")
			return fmt.Errorf("%w: %s %s", ErrMalformedResponse, method, path)
		}
	}
	return nil
}

// asError converts a non-2xx response into the taxonomy the components
// report: ErrSessionExpired for the distinguished expiry code, an APIError
// when the server explained itself, ErrMalformedResponse otherwise.
func (a *API) asError(status int, raw []byte) error {
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		a.log.Error().Int("status", status).Msg("non-JSON error response")
		return fmt.Errorf("%w: status %d", ErrMalformedResponse, status)
	}

	if status == http.StatusUnauthorized && body.ErrorCode == "TOKEN_EXPIRED" {
		a.session.expire()
		return ErrSessionExpired
	}

	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	return &APIError{StatusCode: status, Code: body.ErrorCode, Message: msg}
}
