package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/time/rate"

	"github.com/loaniq/loaniq-go/tool"
	"github.com/loaniq/loaniq-go/types"
)

var (
	ErrUnauthorized = errors.New("invalid API key")
	ErrRateLimited  = errors.New("rate limit exceeded")
)

// APIError is a non-2xx answer from the backend. Error returns the detail the backend sent,
// so it can be shown to the user as-is.
type APIError struct {
	StatusCode int
	Detail     string
	Err        error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client talks to the document/chat/comparison backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient builds a client. ratePerSecond <= 0 disables the limiter.
func NewClient(baseURL, apiKey string, timeout time.Duration, ratePerSecond int) *Client {
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		burst := ratePerSecond
		if burst < 2 {
			burst = 2
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: tool.NewHTTPClient(timeout),
		limiter:    limiter,
	}
}

// NewClientFromConfig builds a client from the application config.
func NewClientFromConfig(cfg types.AppConfig) *Client {
	return NewClient(cfg.BackendURL, cfg.APIKey, time.Duration(cfg.RequestTimeoutSeconds)*time.Second, cfg.RateLimitPerSecond)
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends req after waiting on the limiter, and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("request cancelled: %w", err)
		}
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("connection error: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			tool.DefaultLogger.Errorf("Failed to close response body: %v", err)
		}
	}()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("failed to read response body: %w", readErr)
	}

	if err := checkStatus(resp, body); err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// checkStatus maps non-2xx responses to *APIError.
func checkStatus(resp *http.Response, body []byte) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	detail := parseDetail(body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &APIError{StatusCode: resp.StatusCode, Detail: ErrUnauthorized.Error(), Err: ErrUnauthorized}
	case http.StatusTooManyRequests:
		msg := ErrRateLimited.Error()
		if detail != "" {
			msg += ": " + detail
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: msg, Err: ErrRateLimited}
	default:
		if detail == "" {
			detail = fmt.Sprintf("API error %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}
}

const maxRawDetailLen = 200

// parseDetail pulls a message from {"detail": "..."}, {"detail": {"message": "..."}},
// {"error": "..."} or falls back to the trimmed raw body.
func parseDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var generic map[string]any
	if err := sonic.Unmarshal(body, &generic); err == nil {
		switch d := generic["detail"].(type) {
		case string:
			return d
		case map[string]any:
			if msg, ok := d["message"].(string); ok {
				return msg
			}
		}
		if msg, ok := generic["error"].(string); ok {
			return msg
		}
		return ""
	}
	return tool.TruncateUTF8(strings.TrimSpace(string(body)), maxRawDetailLen)
}

func (c *Client) newJSONRequest(ctx context.Context, method, url string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Health reports whether the backend answers its health endpoint.
func (c *Client) Health(ctx context.Context) error {
	url, err := tool.BuildHealthURL(c.baseURL)
	if err != nil {
		return err
	}
	req, err := c.newJSONRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return c.do(ctx, req, nil)
}
