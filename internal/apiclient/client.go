// Package apiclient talks to the NeoTech REST backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Skotchmaster/neotech_storefront/internal/logging"
)

const maxBody = 4 << 20

// Observer receives the outcome of every backend call. Status is 0 when the
// request never got a response.
type Observer interface {
	ObserveBackend(endpoint string, status int, elapsed time.Duration)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
	observer   Observer
}

type Option func(*Client)

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		validate: newValidator(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

type call struct {
	name   string
	method string
	path   string
	token  string
	body   any
}

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	l := logging.FromContext(ctx).With("backend_call", req.name)

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", req.name, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.observe(req.name, 0, time.Since(start))
		l.Warn("backend_transport_error", "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, req.method, req.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	c.observe(req.name, resp.StatusCode, time.Since(start))
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrTransport, req.path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := decodeError(resp.StatusCode, data)
		l.Warn("backend_rejected", "status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	return c.decode(resp.StatusCode, data, out)
}

// decode accepts a bare value, a {"data": ...} envelope and bodies with a
// success flag. A 2xx answer with success=false is a rejection.
func (c *Client) decode(status int, data []byte, out any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	payload := trimmed
	if trimmed[0] == '{' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if env.Success != nil && !*env.Success {
			return &Error{Status: status, Message: env.Message}
		}
		if d := bytes.TrimSpace(env.Data); len(d) > 0 && !bytes.Equal(d, []byte("null")) {
			payload = d
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func (c *Client) observe(name string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveBackend(name, status, elapsed)
	}
}
