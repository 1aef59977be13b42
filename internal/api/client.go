// Package api is the authenticated HTTP pipeline to the journal backend and
// the endpoint bindings built on it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/balkashynov/feelog/internal/models"
	"github.com/balkashynov/feelog/internal/session"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://diary.hyunjun.org/api"

	// DefaultTimeout bounds every request unless overridden.
	DefaultTimeout = 10 * time.Second

	// maxAuthRetries caps refresh-and-retry per call.
	maxAuthRetries = 1
)

// TokenStore is the part of the session store the pipeline needs.
type TokenStore interface {
	Save(sess session.Session)
	AuthHeader() (name, value string, ok bool)
	RefreshToken() string
	UpdateTokens(access, refresh string)
	Clear()
}

// Options configures a Client. Zero values get defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  float64 // requests per second, 0 disables limiting
	Burst      int
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client sends requests to the backend. It injects the bearer token,
// enforces the timeout and refreshes an expired token once per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewClient creates a client bound to tokens.
func NewClient(tokens TokenStore, opts Options) (*Client, error) {
	if tokens == nil {
		return nil, errors.New("token store is required")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", opts.BaseURL, err)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: opts.HTTPClient,
		tokens:     tokens,
		timeout:    opts.Timeout,
		logger:     opts.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	c.logger = c.logger.Named("api")
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// Request describes one call.
type Request struct {
	Method    string
	Path      string // relative to the base URL, e.g. "/records"
	Query     url.Values
	Body      any // JSON encoded when non-nil
	Header    http.Header
	Anonymous bool          // do not send the access token
	Timeout   time.Duration // overrides the client default
}

// Response is a classified 2xx or 404 result.
type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	JSON     bool
	NotFound bool // 404: the resource is absent, not a failure
}

// Text returns the raw body. An empty 2xx body reads as "ok".
func (r *Response) Text() string {
	if len(r.Body) == 0 && !r.NotFound {
		return "ok"
	}
	return string(r.Body)
}

// Do runs the request through the pipeline.
//
// A 401 on a request that carried a token triggers one refresh followed by a
// single retry. If the refresh fails, or the retry is rejected again, the
// session is cleared and ErrAuthExpired is returned.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	for attempt := 0; ; attempt++ {
		resp, authSent, err := c.send(ctx, req)
		if err != nil {
			return nil, err
		}

		if resp.Status != http.StatusUnauthorized || !authSent {
			return c.classify(resp)
		}

		if attempt >= maxAuthRetries {
			c.logger.Warn("still unauthorized after token refresh",
				zap.String("method", req.Method), zap.String("path", req.Path))
			c.tokens.Clear()
			return nil, &Error{Kind: ErrAuthExpired, Status: resp.Status, Message: errorMessage(resp)}
		}

		if err := c.refresh(ctx); err != nil {
			c.logger.Info("token refresh failed, clearing session", zap.Error(err))
			c.tokens.Clear()
			return nil, &Error{Kind: ErrAuthExpired, Status: http.StatusUnauthorized, Err: err}
		}
		c.logger.Debug("access token refreshed, retrying",
			zap.String("method", req.Method), zap.String("path", req.Path))
	}
}

// refresh exchanges the stored refresh token for a new access token.
func (c *Client) refresh(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return errors.New("no refresh token")
	}

	resp, _, err := c.send(ctx, Request{
		Method:    http.MethodPost,
		Path:      "/auth/refresh",
		Body:      map[string]string{"refreshToken": refreshToken},
		Anonymous: true,
	})
	if err != nil {
		return err
	}
	if resp.Status < 200 || resp.Status > 299 {
		return fmt.Errorf("refresh rejected: HTTP %d", resp.Status)
	}

	tokens, err := decodeData[models.RefreshResponse](resp)
	if err != nil {
		return err
	}
	if tokens.AccessToken == "" {
		return errors.New("refresh response has no access token")
	}
	c.tokens.UpdateTokens(tokens.AccessToken, tokens.RefreshToken)
	return nil
}

// send performs one HTTP exchange. It reports whether an Authorization
// header went out with the request.
func (c *Client) send(ctx context.Context, req Request) (*Response, bool, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, false, &Error{Kind: ErrTimeout, Err: err}
		}
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, false, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.url(req), body)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if !req.Anonymous {
		if name, value, ok := c.tokens.AuthHeader(); ok {
			httpReq.Header.Set(name, value)
		}
	}
	for k, vs := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = vs
	}
	authSent := httpReq.Header.Get("Authorization") != ""

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method), zap.String("path", req.Path), zap.Error(err))
		return nil, authSent, transportError(ctx, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, authSent, transportError(ctx, err)
	}

	c.logger.Debug("request done",
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", httpReq.Header.Get("X-Request-ID")))

	return &Response{
		Status: httpResp.StatusCode,
		Header: httpResp.Header,
		Body:   data,
		JSON:   strings.Contains(httpResp.Header.Get("Content-Type"), "application/json"),
	}, authSent, nil
}

func (c *Client) url(req Request) string {
	u := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}
	return u
}

// classify maps a final response onto the error taxonomy.
func (c *Client) classify(resp *Response) (*Response, error) {
	switch {
	case resp.Status >= 200 && resp.Status <= 299:
		return resp, nil
	case resp.Status == http.StatusNotFound:
		resp.NotFound = true
		return resp, nil
	case resp.Status >= 500:
		return nil, &Error{Kind: ErrServerFault, Status: resp.Status, Message: errorMessage(resp)}
	default:
		return nil, &Error{Kind: ErrValidation, Status: resp.Status, Message: errorMessage(resp)}
	}
}

// transportError distinguishes a timeout from every other network failure.
func transportError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: ErrTimeout, Err: err}
	}
	return &Error{Kind: ErrUnreachable, Err: err}
}

// errorMessage pulls "message" (or "error") out of a JSON error body.
func errorMessage(resp *Response) string {
	if !resp.JSON || len(resp.Body) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
