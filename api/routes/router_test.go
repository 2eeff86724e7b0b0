package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgAuth "github.com/chamber122/chamber122-backend/pkg/auth"
	"github.com/chamber122/chamber122-backend/pkg/config"
	"github.com/chamber122/chamber122-backend/pkg/db/dbtest"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	handler http.Handler
	db      *gorm.DB
	cfg     *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb := dbtest.New(t)

	svc, err := NewServices(gdb)
	require.NoError(t, err)

	cfg := &config.Config{
		App:  config.AppConfig{Env: config.AppEnvDev},
		JWT:  config.JWTConfig{Secret: "router-secret", Issuer: "chamber122", ExpirationMinutes: 60},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	handler := NewRouter(cfg, logger.Nop(), nil, nil, prometheus.NewRegistry(), svc)
	return &testServer{handler: handler, db: gdb, cfg: cfg}
}

func (s *testServer) createUser(t *testing.T, email string, role enums.UserRole) (string, string) {
	t.Helper()
	user := &models.User{Email: email, Role: role}
	require.NoError(t, s.db.Create(user).Error)
	token, err := pkgAuth.MintAccessToken(s.cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: user.ID, Email: email, Role: role})
	require.NoError(t, err)
	return user.ID, token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var payload map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	}
	return rec, payload
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	rec, body := srv.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "running", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestUnknownAPIRouteIsJSON404(t *testing.T) {
	srv := newTestServer(t)
	rec, body := srv.do(t, http.MethodGet, "/api/does-not-exist", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "Not found", body["error"])
	assert.Equal(t, "/api/does-not-exist", body["path"])
}

func TestAdminListingRequiresAdmin(t *testing.T) {
	srv := newTestServer(t)
	_, ownerToken := srv.createUser(t, "owner@example.com", enums.UserRoleOwner)
	_, adminToken := srv.createUser(t, "admin@example.com", enums.UserRoleAdmin)

	rec, _ := srv.do(t, http.MethodGet, "/api/businesses/admin", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = srv.do(t, http.MethodGet, "/api/businesses/admin", ownerToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body := srv.do(t, http.MethodGet, "/api/businesses/all", adminToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, body["businesses"])
}

func TestOwnerProfileFlowThroughAlias(t *testing.T) {
	srv := newTestServer(t)
	ownerID, token := srv.createUser(t, "owner@example.com", enums.UserRoleOwner)

	rec, body := srv.do(t, http.MethodPut, "/api/business/me", token, `{"name":"Gulf Bakery","city":"Salmiya"}`)
	require.Equal(t, http.StatusOK, rec.Code, body)
	business := body["business"].(map[string]any)
	assert.Equal(t, ownerID, business["owner_id"])
	assert.Equal(t, "pending", business["status"])

	rec, body = srv.do(t, http.MethodGet, "/api/businesses/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gulf Bakery", body["business"].(map[string]any)["name"])

	rec, body = srv.do(t, http.MethodGet, "/api/businesses/public", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["businesses"], 1)

	rec, body = srv.do(t, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@example.com", body["user"].(map[string]any)["email"])
}

func TestAdminStatusAndUserLookup(t *testing.T) {
	srv := newTestServer(t)
	ownerID, ownerToken := srv.createUser(t, "owner@example.com", enums.UserRoleOwner)
	_, adminToken := srv.createUser(t, "admin@example.com", enums.UserRoleAdmin)

	_, body := srv.do(t, http.MethodPut, "/api/businesses/me", ownerToken, `{"name":"Gulf Bakery"}`)
	businessID := body["business"].(map[string]any)["id"].(string)

	rec, body := srv.do(t, http.MethodPut, "/api/businesses/"+businessID+"/admin", adminToken, `{"status":"approved"}`)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, "approved", body["business"].(map[string]any)["status"])

	rec, body = srv.do(t, http.MethodPut, "/api/businesses/"+businessID+"/admin", adminToken, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No updates provided", body["error"])

	rec, body = srv.do(t, http.MethodGet, "/api/users/"+ownerID, adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@example.com", body["user"].(map[string]any)["email"])

	rec, _ = srv.do(t, http.MethodGet, "/api/users/missing", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, body = srv.do(t, http.MethodDelete, "/api/businesses/"+businessID+"/admin", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, ownerID, body["ownerId"])
	assert.Equal(t, float64(1), body["deleted"].(map[string]any)["user"])
}

func TestEventLifecycle(t *testing.T) {
	srv := newTestServer(t)
	_, token := srv.createUser(t, "owner@example.com", enums.UserRoleOwner)
	_, _ = srv.do(t, http.MethodPost, "/api/businesses/upsert", token, `{"name":"Gulf Bakery"}`)

	rec, body := srv.do(t, http.MethodPost, "/api/events", token, `{"title":"Open house","start_at":"2026-11-01T18:00:00Z"}`)
	require.Equal(t, http.StatusCreated, rec.Code, body)
	eventID := body["event"].(map[string]any)["id"].(string)

	rec, body = srv.do(t, http.MethodPost, "/api/events/"+eventID+"/register", "", `{"name":"Guest","email":"guest@example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code, body)

	rec, body = srv.do(t, http.MethodGet, "/api/dashboard/registrations/"+eventID, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["registrations"], 1)

	rec, body = srv.do(t, http.MethodGet, "/api/events", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["events"], 1)

	rec, _ = srv.do(t, http.MethodPost, "/api/events/missing/register", "", `{"name":"Guest","email":"guest@example.com"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMessagesRequireAuthAndStartConversation(t *testing.T) {
	srv := newTestServer(t)
	aliceID, aliceToken := srv.createUser(t, "alice@example.com", enums.UserRoleOwner)
	bobID, _ := srv.createUser(t, "bob@example.com", enums.UserRoleOwner)

	rec, _ := srv.do(t, http.MethodGet, "/api/messages/conversations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, body := srv.do(t, http.MethodPost, "/api/messages/conversations", aliceToken, `{"other_user_id":"`+bobID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, body)
	conversationID := body["conversation"].(map[string]any)["id"].(string)

	rec, body = srv.do(t, http.MethodPost, "/api/messages", aliceToken, `{"conversation_id":"`+conversationID+`","content":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code, body)
	assert.Equal(t, aliceID, body["message"].(map[string]any)["sender_id"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	srv.do(t, http.MethodGet, "/api/health", "", "")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `chamber122_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestNewServicesRequiresConnection(t *testing.T) {
	_, err := NewServices(nil)
	assert.Error(t, err)
}
