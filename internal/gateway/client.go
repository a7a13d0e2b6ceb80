// Package gateway is the HTTP client of the expenses REST API.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Veraticus/expense-console/internal/common"
	"github.com/Veraticus/expense-console/internal/model"
	"github.com/Veraticus/expense-console/internal/query"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	totalCountHeader = "X-Total-Count"
	requestIDHeader  = "X-Request-ID"
	balancePath      = "expenses/balance"
	sessionsPath     = "sessions"
)

// Client talks to the remote resource collections.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	base  http.RoundTripper
	token string
}

// WithToken sends token as a bearer credential on every request.
func WithToken(token string) Option {
	return func(o *options) { o.token = token }
}

// WithTransport replaces the underlying transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.base = rt }
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("api url: %w", common.ErrMissingConfig)
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api url %q: %w", baseURL, common.ErrInvalidConfig)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q must be http or https: %w", baseURL, common.ErrInvalidConfig)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	o := options{base: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	transport := o.base
	if o.token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token, TokenType: "Bearer"}),
			Base:   o.base,
		}
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Transport: transport},
	}, nil
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) endpoint(path string, params url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// do performs one request. A nil out skips decoding. Failures come back as
// *common.ConflictError or *common.RequestError.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, in, out any, conflict string) (http.Header, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, params), body)
	if err != nil {
		return nil, &common.RequestError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(requestIDHeader, reqID)

	common.LogDebug("api request", common.Fields{
		"method":     method,
		"path":       path,
		"query":      req.URL.RawQuery,
		"request_id": reqID,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.RequestError{Method: method, Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.classify(resp, method, path, conflict)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return nil, &common.RequestError{Method: method, Path: path, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return resp.Header, nil
}

func (c *Client) classify(resp *http.Response, method, path, conflict string) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &eb)
	}

	common.LogDebug("api error", common.Fields{
		"method":  method,
		"path":    path,
		"status":  resp.StatusCode,
		"message": eb.Message,
	})

	if resp.StatusCode == http.StatusConflict || (conflict != "" && eb.Message == conflict) {
		return &common.ConflictError{Resource: resourceOf(path), Message: eb.Message}
	}
	return &common.RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: eb.Message}
}

func resourceOf(path string) string {
	first, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if r, err := model.ParseResource(first); err == nil {
		return r.Label()
	}
	return first
}

// List fetches one page of resource. The total is taken from the
// X-Total-Count header when present.
func (c *Client) List(ctx context.Context, resource model.Resource, params url.Values) (model.Page, error) {
	var entities []model.Entity
	header, err := c.do(ctx, http.MethodGet, resource.Path(), params, nil, &entities, "")
	if err != nil {
		return model.Page{}, err
	}

	page := model.Page{Entities: entities}
	if raw := header.Get(totalCountHeader); raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < 0 {
			common.LogDebug("ignoring malformed total count", common.Fields{"value": raw})
		} else {
			page.TotalCount = n
			page.TotalKnown = true
		}
	}
	return page, nil
}

// All fetches the whole collection. Used for lookup options.
func (c *Client) All(ctx context.Context, resource model.Resource) ([]model.Entity, error) {
	var entities []model.Entity
	if _, err := c.do(ctx, http.MethodGet, resource.Path(), nil, nil, &entities, ""); err != nil {
		return nil, err
	}
	return entities, nil
}

// Create posts payload to resource and returns the created record.
func (c *Client) Create(ctx context.Context, resource model.Resource, payload any) (model.Entity, error) {
	var created model.Entity
	_, err := c.do(ctx, http.MethodPost, resource.Path(), nil, payload, &created, resource.ConflictMessage())
	return created, err
}

// Update sends a partial update for id.
func (c *Client) Update(ctx context.Context, resource model.Resource, id string, patch model.Patch) error {
	_, err := c.do(ctx, http.MethodPatch, itemPath(resource, id), nil, patch, nil, resource.ConflictMessage())
	return err
}

// Delete removes id.
func (c *Client) Delete(ctx context.Context, resource model.Resource, id string) error {
	_, err := c.do(ctx, http.MethodDelete, itemPath(resource, id), nil, nil, nil, "")
	return err
}

func itemPath(resource model.Resource, id string) string {
	return resource.Path() + "/" + id
}

type balanceBody struct {
	Income  *int64 `json:"income"`
	Outcome *int64 `json:"outcome"`
	Total   *int64 `json:"total"`
	// Older servers name income "paying" and outcome "payed".
	Paying *int64 `json:"paying"`
	Payed  *int64 `json:"payed"`
}

// Balance fetches the aggregate balance of scope.
func (c *Client) Balance(ctx context.Context, scope model.Scope) (model.BalanceSnapshot, error) {
	var body balanceBody
	if _, err := c.do(ctx, http.MethodGet, balancePath, query.ScopeParams(scope), nil, &body, ""); err != nil {
		return model.BalanceSnapshot{}, err
	}
	return body.snapshot(scope), nil
}

func (b balanceBody) snapshot(scope model.Scope) model.BalanceSnapshot {
	snap := model.BalanceSnapshot{Scope: scope}
	switch {
	case b.Income != nil || b.Outcome != nil:
		snap.Income = deref(b.Income)
		snap.Outcome = deref(b.Outcome)
	default:
		snap.Income = deref(b.Paying)
		snap.Outcome = deref(b.Payed)
	}
	if b.Total != nil {
		snap.Net = *b.Total
	} else {
		snap.Net = snap.Income - snap.Outcome
	}
	return snap
}

func deref(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

type sessionUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionBody struct {
	Token string      `json:"token"`
	User  sessionUser `json:"user"`
}

// SignIn exchanges credentials for a bearer token.
func (c *Client) SignIn(ctx context.Context, email, password string) (model.Session, error) {
	if strings.TrimSpace(email) == "" {
		return model.Session{}, common.NewValidationError("email", "E-mail is required")
	}
	if !strings.Contains(email, "@") {
		return model.Session{}, common.NewValidationError("email", "Invalid e-mail format")
	}
	if password == "" {
		return model.Session{}, common.NewValidationError("password", "Password is required")
	}

	in := map[string]string{"email": email, "password": password}
	var out sessionBody
	if _, err := c.do(ctx, http.MethodPost, sessionsPath, nil, in, &out, ""); err != nil {
		return model.Session{}, err
	}
	if out.Token == "" {
		return model.Session{}, &common.RequestError{Method: http.MethodPost, Path: sessionsPath, Status: http.StatusOK, Message: "no token in response"}
	}
	return model.Session{Token: out.Token, UserName: out.User.Name, Email: out.User.Email}, nil
}
