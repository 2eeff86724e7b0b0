package adminsync

import "sync/atomic"

// Session holds what was learned about the backend during one admin session.
// Once the admin endpoints answer 404 they are skipped until Reset.
type Session struct {
	adminAPI  atomic.Bool
	reachable atomic.Bool
}

// NewSession starts optimistic: the admin API is assumed available.
func NewSession() *Session {
	s := &Session{}
	s.adminAPI.Store(true)
	return s
}

// AdminAPIAvailable reports whether admin-only endpoints may be called.
func (s *Session) AdminAPIAvailable() bool {
	return s.adminAPI.Load()
}

func (s *Session) markAdminAPI(available bool) {
	s.adminAPI.Store(available)
}

// Reachable reports whether any endpoint has answered with an HTTP response.
func (s *Session) Reachable() bool {
	return s.reachable.Load()
}

func (s *Session) markReachable() {
	s.reachable.Store(true)
}

// Reset forgets everything learned, as a fresh page load would.
func (s *Session) Reset() {
	s.adminAPI.Store(true)
	s.reachable.Store(false)
}
