package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/physiokeeper/internal/common"
)

// DefaultTimeout bounds every request unless a caller asks otherwise.
const DefaultTimeout = 10 * time.Second

const maxErrorBody = 1 << 20

// NewHTTPClient returns the http.Client shared by every API client of a
// process. Per-request deadlines come from the request context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        16,
			MaxIdleConnsPerHost: 8,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

type transport struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

func newTransport(baseURL, token string, timeout time.Duration, hc *http.Client) transport {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = common.DefaultAPIBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return transport{baseURL: baseURL, token: token, timeout: timeout, httpClient: hc}
}

func (t transport) get(ctx context.Context, path string, out any) error {
	return t.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (t transport) post(ctx context.Context, path string, body, out any) error {
	return t.doRequest(ctx, http.MethodPost, path, body, out)
}

func (t transport) put(ctx context.Context, path string, body, out any) error {
	return t.doRequest(ctx, http.MethodPut, path, body, out)
}

func (t transport) doRequest(ctx context.Context, method, path string, body, out any) error {
	return t.doRequestTimeout(ctx, t.timeout, method, path, body, out)
}

func (t transport) doRequestTimeout(ctx context.Context, timeout time.Duration, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	if t.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+t.token)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		return parseErrorBody(resp.StatusCode, respBody)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}
