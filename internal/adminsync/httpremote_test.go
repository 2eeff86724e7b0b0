package adminsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPRemoteAsksTokenSourceOnEveryRequest(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		jsonBody(`{"businesses":[]}`)(w)
	}))
	defer srv.Close()

	calls := 0
	source := func(context.Context) (string, error) {
		calls++
		return fmt.Sprintf("token-%d", calls), nil
	}
	remote, err := NewHTTPRemote(srv.URL+"/api", WithTokenSource(source))
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := remote.ListBusinesses(context.Background(), EndpointPublic)
		require.NoError(t, err)
	}
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer token-1", "Bearer token-2"}, seen)
}

func TestHTTPRemoteTokenSourceFailureSkipsRequest(t *testing.T) {
	backend := newCountingBackend()
	srv := httptest.NewServer(backend)
	defer srv.Close()

	boom := errors.New("signing key missing")
	remote, err := NewHTTPRemote(srv.URL+"/api", WithTokenSource(func(context.Context) (string, error) {
		return "", boom
	}))
	require.NoError(t, err)

	_, err = remote.ListBusinesses(context.Background(), EndpointAdmin)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, backend.hits("/api"+string(EndpointAdmin)))
}

func TestHTTPRemoteStaticBearerToken(t *testing.T) {
	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("Authorization")
		jsonBody(`[]`)(w)
	}))
	defer srv.Close()

	remote, err := NewHTTPRemote(srv.URL+"/api", WithBearerToken("  static  "))
	require.NoError(t, err)
	_, err = remote.ListBusinesses(context.Background(), EndpointAll)
	require.NoError(t, err)
	assert.Equal(t, "Bearer static", <-got)
}
