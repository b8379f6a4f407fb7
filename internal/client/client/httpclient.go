package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodjournal/internal/client/models"
	"github.com/dmitrijs2005/moodjournal/internal/common"
	"github.com/dmitrijs2005/moodjournal/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	pathToken        = "/api/token/"
	pathTokenRefresh = "/api/token/refresh/"
	pathRegister     = "/api/register/"
	pathMe           = "/api/users/me/"
	pathEntries      = "/api/journal/"
)

// HTTPClient talks to the journal REST backend.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	log     logging.Logger

	mu     sync.RWMutex
	tokens TokenSource
}

type Option func(*HTTPClient)

// WithTimeout bounds every single HTTP exchange.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithRateLimit throttles outbound requests. A non-positive rps disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

func WithTransport(rt http.RoundTripper) Option {
	return func(c *HTTPClient) { c.http.Transport = rt }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{},
		log:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SetTokenSource binds the credentials used for authenticated calls.
func (c *HTTPClient) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *HTTPClient) currentTokens() (models.Tokens, TokenSource) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return models.Tokens{}, nil
	}
	return c.tokens.Tokens(), c.tokens
}

func (c *HTTPClient) Authenticate(ctx context.Context, username, password string) (models.Tokens, error) {
	req := map[string]string{"username": username, "password": password}

	var t models.Tokens
	if err := c.do(ctx, http.MethodPost, pathToken, req, &t, false); err != nil {
		return models.Tokens{}, err
	}
	if t.Access == "" {
		return models.Tokens{}, fmt.Errorf("token response without access credential: %w", common.ErrInvalidToken)
	}
	return t, nil
}

// Refresh exchanges a refresh credential for a new pair. Backends that do not
// rotate refresh credentials omit it; the old one is kept then.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	var t models.Tokens
	err := c.do(ctx, http.MethodPost, pathTokenRefresh, map[string]string{"refresh": refreshToken}, &t, false)
	if err != nil {
		return models.Tokens{}, err
	}
	if t.Access == "" {
		return models.Tokens{}, fmt.Errorf("refresh response without access credential: %w", common.ErrInvalidToken)
	}
	if t.Refresh == "" {
		t.Refresh = refreshToken
	}
	return t, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, email, password string) (models.User, error) {
	req := map[string]string{"username": username, "email": email, "password": password}

	var u models.User
	if err := c.do(ctx, http.MethodPost, pathRegister, req, &u, false); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, pathMe, nil, &u, true); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) FetchEntries(ctx context.Context) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	if err := c.do(ctx, http.MethodGet, pathEntries, nil, &entries, true); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, content string) (models.JournalEntry, error) {
	var e models.JournalEntry
	if err := c.do(ctx, http.MethodPost, pathEntries, map[string]string{"content": content}, &e, true); err != nil {
		return models.JournalEntry{}, err
	}
	return e, nil
}

func (c *HTTPClient) Analyze(ctx context.Context, entryID int64) (models.AnalysisResult, error) {
	var r models.AnalysisResult
	path := fmt.Sprintf("%s%d/analyze/", pathEntries, entryID)
	if err := c.do(ctx, http.MethodPost, path, nil, &r, true); err != nil {
		return models.AnalysisResult{}, err
	}
	if !r.Sentiment.Valid() {
		return models.AnalysisResult{}, errors.New("analysis result without sentiment")
	}
	if r.Emotions == nil {
		r.Emotions = []string{}
	}
	return r, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// do performs one call. Authenticated calls answered with 401 are retried
// once after refreshing the credential pair.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, auth bool) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = b
	}

	var (
		tokens models.Tokens
		ts     TokenSource
	)
	if auth {
		tokens, ts = c.currentTokens()
	}

	resp, err := c.send(ctx, method, path, body, tokens.Access)
	if err != nil {
		return err
	}

	if auth && resp.StatusCode == http.StatusUnauthorized && tokens.Refresh != "" {
		drain(resp)

		fresh, rerr := c.Refresh(ctx, tokens.Refresh)
		if rerr != nil {
			c.log.Warn(ctx, "credential refresh failed", "path", path, "error", rerr)
			if errors.Is(rerr, common.ErrUnauthorized) {
				c.reject(ctx, ts, tokens.Access)
			}
			return fmt.Errorf("%w: %w", common.ErrUnauthorized, rerr)
		}
		if ts != nil {
			ts.TokensRefreshed(ctx, fresh)
		}

		tokens = fresh
		resp, err = c.send(ctx, method, path, body, fresh.Access)
		if err != nil {
			return err
		}
	}
	defer drain(resp)

	if auth && resp.StatusCode == http.StatusUnauthorized {
		c.reject(ctx, ts, tokens.Access)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return mapStatus(resp.StatusCode, b)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// reject tells ts that access was refused for good. An outage while
// refreshing is not a rejection and never gets here.
func (c *HTTPClient) reject(ctx context.Context, ts TokenSource, access string) {
	if ts == nil || access == "" {
		return
	}
	ts.CredentialsRejected(ctx, access)
}

func (c *HTTPClient) send(ctx context.Context, method, path string, body []byte, access string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set(common.RequestIDHeaderName, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}

	c.log.Debug(ctx, "request done",
		"method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
