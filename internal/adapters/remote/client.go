// Package remote is the HTTP client for the parish Remote API. Every endpoint
// answers with a JSON envelope {status, message?, details?}; the HTTP status
// code is logged but never decides the outcome.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/csg33k/parish-services/internal/catalog"
	"github.com/csg33k/parish-services/internal/domain"
	"github.com/csg33k/parish-services/internal/ports"
)

const (
	LoginPath        = catalog.LoginPath
	ReservationsPath = catalog.ReservationsPath
)

// excerptLen bounds how much of a malformed body is kept for diagnosis.
const excerptLen = 100

type Client struct {
	baseURL   string
	overrides map[domain.FormType]string
	http      *http.Client
	log       *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.log = l } }

// WithEndpoint sends submissions of one form type to a full URL instead of
// baseURL + schema path.
func WithEndpoint(t domain.FormType, rawURL string) Option {
	return func(c *Client) { c.overrides[t] = rawURL }
}

// New returns a client for the API rooted at baseURL (e.g. "http://192.168.1.10").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		overrides: map[domain.FormType]string{},
		http:      &http.Client{},
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// EndpointFor returns the URL a form type is submitted to.
func (c *Client) EndpointFor(t domain.FormType) (string, error) {
	if u, ok := c.overrides[t]; ok {
		return u, nil
	}
	s, ok := catalog.ForType(t)
	if !ok {
		return "", fmt.Errorf("remote: unknown form type %q", t)
	}
	return c.baseURL + s.Path, nil
}

// Submit posts a form payload once.
func (c *Client) Submit(ctx context.Context, t domain.FormType, payload map[string]any) (*domain.Response, error) {
	endpoint, err := c.EndpointFor(t)
	if err != nil {
		return nil, err
	}
	body, err := c.postJSON(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}
	var resp domain.Response
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.LoggedInUser, error) {
	body, err := c.postJSON(ctx, c.baseURL+LoginPath, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var resp struct {
		domain.Response
		User *domain.LoggedInUser `json:"user"`
	}
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if !resp.OK() {
		msg := resp.Message
		if msg == "" {
			msg = "Invalid email or password."
		}
		return nil, &domain.APIError{Status: resp.Status, Message: msg}
	}
	if resp.User == nil {
		return &domain.LoggedInUser{Email: email}, nil
	}
	return resp.User, nil
}

// ListReservations fetches the raw records of one email. The server may
// answer with {data: [...]} or a bare array.
func (c *Client) ListReservations(ctx context.Context, email string) ([]map[string]any, error) {
	endpoint := c.baseURL + ReservationsPath + "?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, domain.ErrEmptyResponse
	}
	if trimmed[0] == '[' {
		var list []map[string]any
		if err := decode(trimmed, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrapped struct {
		domain.Response
		Data []map[string]any `json:"data"`
	}
	if err := decode(trimmed, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Status != "" && !wrapped.OK() {
		return nil, &domain.APIError{Status: wrapped.Status, Message: wrapped.Message}
	}
	return wrapped.Data, nil
}

// DeleteReservation asks the server to remove one record from a collection.
func (c *Client) DeleteReservation(ctx context.Context, id, email, collection string) (*domain.Response, error) {
	body, err := c.postJSON(ctx, c.baseURL+ReservationsPath, map[string]string{
		"reservationId":  id,
		"userEmail":      email,
		"collectionName": collection,
	})
	if err != nil {
		return nil, err
	}
	var resp domain.Response
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("remote: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	res, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &domain.NetworkError{Err: err}
	}
	c.log.Debug("remote call",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(body)),
	)
	return body, nil
}

// decode classifies a body as empty, malformed, or decoded into v.
func decode(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return domain.ErrEmptyResponse
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		excerpt := string(trimmed)
		if r := []rune(excerpt); len(r) > excerptLen {
			excerpt = string(r[:excerptLen])
		}
		return &domain.MalformedResponseError{Excerpt: excerpt, Err: err}
	}
	return nil
}

var (
	_ ports.FormSubmitter  = (*Client)(nil)
	_ ports.Authenticator  = (*Client)(nil)
	_ ports.ReservationAPI = (*Client)(nil)
)
