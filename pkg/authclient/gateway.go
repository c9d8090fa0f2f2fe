package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"carebook/pkg/logger"
)

// defaultRequestTimeout bounds every gateway call. The backend imposes
// no timeout of its own, so this is a deliberate client default.
const defaultRequestTimeout = 30 * time.Second

// Gateway is the single chokepoint for backend calls. It injects the
// bearer credential from the token store, decodes the backend's error
// envelope uniformly, and runs the forced-logout hook on any 401 so no
// call site ever special-cases an expired session.
type Gateway struct {
	baseURL        string
	client         *http.Client
	tokens         *TokenStore
	onUnauthorized func()
	log            *logger.Logger
}

// NewGateway builds a gateway for the given API base URL, e.g.
// "http://localhost:8080/api/v1".
func NewGateway(baseURL string, tokens *TokenStore) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultRequestTimeout},
		tokens:  tokens,
		log:     logger.GetDefault(),
	}
}

// SetHTTPClient swaps the underlying client. Tests only.
func (g *Gateway) SetHTTPClient(client *http.Client) {
	g.client = client
}

// SetUnauthorizedHandler registers the forced-logout hook invoked on
// 401 responses. The handler must be idempotent; the session manager's
// is.
func (g *Gateway) SetUnauthorizedHandler(handler func()) {
	g.onUnauthorized = handler
}

// Do issues a request and decodes the JSON response into out (out may
// be nil to discard the body). Authorization is always gateway
// controlled; callers cannot supply their own.
func (g *Gateway) Do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	return g.DoWithHeaders(ctx, method, endpoint, nil, body, out)
}

// DoWithHeaders is Do with caller-supplied headers. Content-Type
// defaults to application/json; an Authorization header in headers is
// dropped so a stale caller-held token can never shadow the store.
func (g *Gateway) DoWithHeaders(ctx context.Context, method, endpoint string, headers map[string]string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		if http.CanonicalHeaderKey(k) == "Authorization" {
			continue
		}
		req.Header.Set(k, v)
	}
	if token := g.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// The session transition happens before the caller's error
		// surfaces, so the read model is consistent by the time any UI
		// reacts.
		if g.onUnauthorized != nil {
			g.onUnauthorized()
		}
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: decodeErrorMessage(data, resp.Status),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		g.log.Error("failed to decode response body", "endpoint", endpoint, "error", err)
		return &APIError{Status: resp.StatusCode, Message: "invalid response body"}
	}
	return nil
}

// Get is shorthand for a body-less GET.
func (g *Gateway) Get(ctx context.Context, endpoint string, out interface{}) error {
	return g.Do(ctx, http.MethodGet, endpoint, nil, out)
}

// Post is shorthand for a JSON POST.
func (g *Gateway) Post(ctx context.Context, endpoint string, body, out interface{}) error {
	return g.Do(ctx, http.MethodPost, endpoint, body, out)
}

// decodeErrorMessage pulls the message field out of the backend's error
// envelope, falling back to the HTTP status line.
func decodeErrorMessage(data []byte, statusLine string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return statusLine
}
