package adminsync

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
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
)

const (
	defaultRequestTimeout       = 10 * time.Second
	errorBodyReadLimit    int64 = 1024
)

// HTTPRemote is the connected adapter: it talks to the backend REST API.
type HTTPRemote struct {
	httpClient *http.Client
	baseURL    string
	token      TokenSource
}

// TokenSource returns the bearer token for the next request. Implementations
// are expected to cache and refresh the token themselves.
type TokenSource func(ctx context.Context) (string, error)

// HTTPOption configures optional HTTPRemote behavior.
type HTTPOption func(*HTTPRemote)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(r *HTTPRemote) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithBearerToken authenticates every request with a fixed token.
func WithBearerToken(token string) HTTPOption {
	token = strings.TrimSpace(token)
	return WithTokenSource(func(context.Context) (string, error) {
		return token, nil
	})
}

// WithTokenSource authenticates every request with a token fetched from
// source right before the request is sent.
func WithTokenSource(source TokenSource) HTTPOption {
	return func(r *HTTPRemote) {
		r.token = source
	}
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(r *HTTPRemote) {
		if timeout > 0 {
			r.httpClient.Timeout = timeout
		}
	}
}

// NewHTTPRemote builds a connected adapter rooted at baseURL, for example
// http://localhost:4000/api.
func NewHTTPRemote(baseURL string, opts ...HTTPOption) (*HTTPRemote, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errors.New("api base url is required")
	}
	if _, err := url.ParseRequestURI(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	r := &HTTPRemote{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

func (r *HTTPRemote) ListBusinesses(ctx context.Context, endpoint Endpoint) ([]RemoteBusiness, error) {
	raw, err := r.do(ctx, http.MethodGet, string(endpoint), nil)
	if err != nil {
		return nil, err
	}
	return decodeBusinessList(raw)
}

// decodeBusinessList accepts {ok,businesses}, {businesses}, a bare array or
// {data:[...]}.
func decodeBusinessList(raw []byte) ([]RemoteBusiness, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []RemoteBusiness{}, nil
	}
	if raw[0] == '[' {
		var list []RemoteBusiness
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decode businesses: %w", err)
		}
		return list, nil
	}
	var envelope struct {
		Businesses []RemoteBusiness `json:"businesses"`
		Data       []RemoteBusiness `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode businesses: %w", err)
	}
	if envelope.Businesses != nil {
		return envelope.Businesses, nil
	}
	if envelope.Data != nil {
		return envelope.Data, nil
	}
	return []RemoteBusiness{}, nil
}

func (r *HTTPRemote) ListMedia(ctx context.Context, businessID string) ([]RemoteMedia, error) {
	raw, err := r.do(ctx, http.MethodGet, "/businesses/"+url.PathEscape(businessID), nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Media []RemoteMedia `json:"media"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	for i := range payload.Media {
		if payload.Media[i].BusinessID == "" {
			payload.Media[i].BusinessID = businessID
		}
	}
	return payload.Media, nil
}

func (r *HTTPRemote) GetUser(ctx context.Context, userID string) (RemoteUser, error) {
	raw, err := r.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID), nil)
	if err != nil {
		return RemoteUser{}, err
	}
	var user RemoteUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return RemoteUser{}, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

func (r *HTTPRemote) UpdateBusinessStatus(ctx context.Context, businessID string, status enums.AccountStatus, isActive bool) error {
	body := map[string]any{"status": status, "is_active": isActive}
	_, err := r.do(ctx, http.MethodPut, "/businesses/"+url.PathEscape(businessID)+"/admin", body)
	return err
}

func (r *HTTPRemote) DeleteBusiness(ctx context.Context, businessID string) (DeletionResult, error) {
	raw, err := r.do(ctx, http.MethodDelete, "/businesses/"+url.PathEscape(businessID)+"/admin", nil)
	if err != nil {
		return DeletionResult{}, err
	}
	var payload struct {
		Deleted DeletionResult `json:"deleted"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return DeletionResult{}, fmt.Errorf("decode deletion result: %w", err)
	}
	return payload.Deleted, nil
}

func (r *HTTPRemote) ListEvents(ctx context.Context) ([]RemoteContent, error) {
	return r.listContent(ctx, "/events", "events")
}

func (r *HTTPRemote) DeleteEvent(ctx context.Context, id string) error {
	_, err := r.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil)
	return err
}

func (r *HTTPRemote) ListBulletins(ctx context.Context) ([]RemoteContent, error) {
	return r.listContent(ctx, "/bulletins", "bulletins")
}

func (r *HTTPRemote) DeleteBulletin(ctx context.Context, id string) error {
	_, err := r.do(ctx, http.MethodDelete, "/bulletins/"+url.PathEscape(id), nil)
	return err
}

func (r *HTTPRemote) listContent(ctx context.Context, path, field string) ([]RemoteContent, error) {
	raw, err := r.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", field, err)
	}
	items := []RemoteContent{}
	if inner, ok := payload[field]; ok {
		if err := json.Unmarshal(inner, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", field, err)
		}
	}
	return items, nil
}

// do executes a request and classifies the outcome: transport failures wrap
// ErrUnreachable, 404 wraps ErrEndpointUnavailable and other non-2xx answers
// become *StatusError.
func (r *HTTPRemote) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != nil {
		token, err := r.token(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s %s: bearer token: %w", method, path, err)
		}
		if token = strings.TrimSpace(token); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %v", method, path, ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrEndpointUnavailable)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, &StatusError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return raw, nil
}
