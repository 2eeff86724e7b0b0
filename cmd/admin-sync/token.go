package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	pkgAuth "github.com/chamber122/chamber122-backend/pkg/auth"
	"github.com/chamber122/chamber122-backend/pkg/config"
	"github.com/chamber122/chamber122-backend/pkg/enums"
)

const maxTokenRefreshMargin = 5 * time.Minute

// adminTokenSource mints the admin service token and re-mints it shortly
// before it expires, so a long-running worker never sends a stale token.
type adminTokenSource struct {
	cfg    config.JWTConfig
	userID string
	now    func() time.Time

	mu      sync.Mutex
	token   string
	renewAt time.Time
}

func newAdminTokenSource(cfg config.JWTConfig, userID string, now func() time.Time) *adminTokenSource {
	if now == nil {
		now = time.Now
	}
	return &adminTokenSource{cfg: cfg, userID: userID, now: now}
}

// Token returns the cached token, minting a new one once the refresh point
// has passed.
func (s *adminTokenSource) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.token != "" && now.Before(s.renewAt) {
		return s.token, nil
	}

	token, err := pkgAuth.MintAccessToken(s.cfg, now, pkgAuth.AccessTokenPayload{
		UserID: s.userID,
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		return "", fmt.Errorf("mint admin token: %w", err)
	}

	ttl := s.cfg.Expiration()
	margin := ttl / 2
	if margin > maxTokenRefreshMargin {
		margin = maxTokenRefreshMargin
	}
	s.token = token
	s.renewAt = now.Add(ttl - margin)
	return token, nil
}
