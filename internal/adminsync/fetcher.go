package adminsync

import (
	"context"
	"errors"

	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/metrics"
)

// Fetcher lists businesses with endpoint fallback and enriches owners.
type Fetcher struct {
	remote  Remote
	logg    *logger.Logger
	metrics *metrics.SyncMetrics
}

// NewFetcher builds a Fetcher. metrics may be nil.
func NewFetcher(remote Remote, logg *logger.Logger, m *metrics.SyncMetrics) (*Fetcher, error) {
	if remote == nil {
		return nil, errors.New("remote required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Fetcher{remote: remote, logg: logg, metrics: m}, nil
}

// FetchBusinesses tries the admin, all and public listings in that order and
// returns the first non-empty one. Admin-only endpoints are skipped once the
// session has seen them answer 404. When nothing answers at all the result is
// an empty list with no error; ErrNoBusinesses is returned only when the
// backend answered, the admin API is still believed available, and no
// listing had any business.
func (f *Fetcher) FetchBusinesses(ctx context.Context, session *Session) ([]RemoteBusiness, error) {
	endpoints := []Endpoint{EndpointAdmin, EndpointAll, EndpointPublic}
	if !session.AdminAPIAvailable() {
		f.logg.Debug(ctx, "admin api not available, using public endpoint only")
		endpoints = []Endpoint{EndpointPublic}
	}

	responded := false
	for _, endpoint := range endpoints {
		epCtx := f.logg.WithField(ctx, "endpoint", string(endpoint))
		businesses, err := f.remote.ListBusinesses(epCtx, endpoint)
		switch {
		case err == nil:
			responded = true
			session.markReachable()
			if len(businesses) == 0 {
				f.metrics.IncAttempt(string(endpoint), "empty")
				f.logg.Debug(epCtx, "endpoint returned no businesses")
				continue
			}
			f.metrics.IncAttempt(string(endpoint), "ok")
			if endpoint.IsAdminOnly() {
				session.markAdminAPI(true)
			}
			f.logg.Info(f.logg.WithField(epCtx, "count", len(businesses)), "fetched businesses")
			return businesses, nil
		case errors.Is(err, ErrEndpointUnavailable):
			responded = true
			session.markReachable()
			f.metrics.IncAttempt(string(endpoint), "not_found")
			if endpoint.IsAdminOnly() {
				session.markAdminAPI(false)
				f.logg.Debug(epCtx, "admin api not available (404), falling back")
			} else {
				f.logg.Debug(epCtx, "endpoint not available (404)")
			}
		case errors.Is(err, ErrUnreachable):
			f.metrics.IncAttempt(string(endpoint), "unreachable")
			f.logg.Debug(f.logg.WithField(epCtx, "error", err.Error()), "endpoint unreachable")
		default:
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				responded = true
				session.markReachable()
			}
			f.metrics.IncAttempt(string(endpoint), "error")
			f.logg.Warn(f.logg.WithField(epCtx, "error", err.Error()), "endpoint failed")
		}
	}

	if responded && session.AdminAPIAvailable() {
		return nil, ErrNoBusinesses
	}
	return []RemoteBusiness{}, nil
}

// FetchUserInfo looks up owner profiles while the admin API is available.
// The first 404 marks the admin API unavailable and stops the loop; other
// failures skip the owner.
func (f *Fetcher) FetchUserInfo(ctx context.Context, session *Session, ownerIDs []string) map[string]RemoteUser {
	out := map[string]RemoteUser{}
	seen := map[string]struct{}{}
	for _, id := range ownerIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if !session.AdminAPIAvailable() {
			break
		}
		user, err := f.remote.GetUser(ctx, id)
		if err != nil {
			userCtx := f.logg.WithUserID(ctx, id)
			if errors.Is(err, ErrEndpointUnavailable) {
				session.markAdminAPI(false)
				f.logg.Debug(userCtx, "user endpoint not available (404), skipping user info")
				break
			}
			f.logg.Debug(f.logg.WithField(userCtx, "error", err.Error()), "user info fetch failed")
			continue
		}
		session.markReachable()
		out[id] = user
	}
	return out
}
