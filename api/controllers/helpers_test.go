package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chamber122/chamber122-backend/api/middleware"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type requestOption func(*http.Request) *http.Request

func asUser(id string, role enums.UserRole) requestOption {
	return func(r *http.Request) *http.Request {
		ctx := middleware.WithUserID(r.Context(), id)
		return r.WithContext(middleware.WithRole(ctx, role))
	}
}

func withParam(key, value string) requestOption {
	return func(r *http.Request) *http.Request {
		rctx, _ := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
		if rctx == nil {
			rctx = chi.NewRouteContext()
		}
		rctx.URLParams.Add(key, value)
		return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
}

func newRequest(method, target, body string, opts ...requestOption) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for _, opt := range opts {
		req = opt(req)
	}
	return req
}

func serve(t *testing.T, handler http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}
