package middleware

import (
	"net/http"
	"strings"

	"github.com/chamber122/chamber122-backend/api/responses"
	pkgAuth "github.com/chamber122/chamber122-backend/pkg/auth"
	"github.com/chamber122/chamber122-backend/pkg/config"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
	"github.com/chamber122/chamber122-backend/pkg/logger"
)

// SessionCookie carries the access token for browser clients.
const SessionCookie = "session"

// Auth validates the session cookie or a bearer token and seeds the request
// context with the claims.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated"))
				return
			}

			claims, err := pkgAuth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Not authenticated"))
				return
			}

			ctx := withClaims(r.Context(), claims)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID,
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// tokenFromRequest prefers the session cookie and falls back to the
// Authorization header.
func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v
		}
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
