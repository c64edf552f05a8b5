// Package gateway sends requests to the banking backend on behalf of the
// service clients and enforces the forced-logout rule on 401 responses.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"banking-dashboard/internal/metrics"

	"github.com/charmbracelet/log"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	LoginRoute     = "/login"
)

// Session is the part of the session store the gateway needs.
type Session interface {
	Credentials() (tokenType, token string)
	Clear() error
}

// Navigator receives the forced redirect issued after a 401.
type Navigator interface {
	Redirect(route string)
}

// Request describes one call. Pattern is the route template used as the
// metrics label; it defaults to the endpoint path.
type Request struct {
	Method  string
	Body    any
	Header  http.Header
	Pattern string
}

type Gateway struct {
	baseURL string
	http    *http.Client
	session Session
	metrics metrics.Collector
	log     *log.Logger

	mu  sync.RWMutex
	nav Navigator
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

func WithMetrics(c metrics.Collector) Option {
	return func(g *Gateway) { g.metrics = c }
}

func WithNavigator(nav Navigator) Option {
	return func(g *Gateway) { g.nav = nav }
}

func New(baseURL string, session Session, logger *log.Logger, opts ...Option) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = log.Default()
	}

	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: session,
		metrics: metrics.NoOpCollector{},
		log:     logger.WithPrefix("gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SetNavigator replaces the redirect target. The router registers itself
// here once it exists.
func (g *Gateway) SetNavigator(nav Navigator) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nav = nav
}

func (g *Gateway) BaseURL() string {
	return g.baseURL
}

// Fetch performs an authenticated call and decodes a 2xx body into out (which
// may be nil). On 401 the session is cleared and the navigator is sent to the
// login route before the error is returned.
func (g *Gateway) Fetch(ctx context.Context, endpoint string, req Request, out any) error {
	tokenType, token := g.session.Credentials()

	header := http.Header{}
	if token != "" {
		header.Set("Authorization", tokenType+" "+token)
	}

	status, body, err := g.do(ctx, endpoint, req, header)
	if status == http.StatusUnauthorized {
		g.forceLogout(endpoint)
	}
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &APIError{Status: status, Message: errorMessage(body, StatusMessage(status))}
	}

	return decode(body, out)
}

// FetchPublic is used for the sign-in and sign-up endpoints. It sends no
// credentials and never clears the session; fallback replaces a missing
// backend message.
func (g *Gateway) FetchPublic(ctx context.Context, endpoint string, req Request, fallback string, out any) error {
	status, body, err := g.do(ctx, endpoint, req, http.Header{})
	if err != nil {
		return err
	}

	if status < 200 || status > 299 {
		if fallback == "" {
			fallback = StatusMessage(status)
		}
		return &APIError{Status: status, Message: errorMessage(body, fallback)}
	}

	return decode(body, out)
}

func (g *Gateway) do(ctx context.Context, endpoint string, req Request, header http.Header) (int, []byte, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	pattern := req.Pattern
	if pattern == "" {
		pattern, _, _ = strings.Cut(endpoint, "?")
	}

	var body io.Reader
	switch b := req.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		httpReq.Header[k] = v
	}
	for k, v := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(k)] = v
	}

	start := time.Now()
	resp, err := g.http.Do(httpReq)
	if err != nil {
		g.metrics.RecordRequest(method, pattern, 0, time.Since(start))
		g.log.Debug("request failed", "method", method, "endpoint", endpoint, "err", err)
		return 0, nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	g.metrics.RecordRequest(method, pattern, resp.StatusCode, elapsed)
	if err != nil {
		// the status line arrived, so callers still see a 401
		return resp.StatusCode, nil, fmt.Errorf("%w: reading %s %s: %w", ErrTransport, method, endpoint, err)
	}

	g.log.Debug("request", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "took", elapsed)
	return resp.StatusCode, data, nil
}

func (g *Gateway) forceLogout(endpoint string) {
	if err := g.session.Clear(); err != nil {
		g.log.Error("failed to clear session", "err", err)
	}
	g.metrics.RecordForcedLogout()
	g.log.Warn("session rejected by backend, signing out", "endpoint", endpoint)

	g.mu.RLock()
	nav := g.nav
	g.mu.RUnlock()
	if nav != nil {
		nav.Redirect(LoginRoute)
	}
}

func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return fallback
}

func decode(body []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
