package adminsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/chamber122/chamber122-backend/pkg/metrics"
)

// SyncerParams wires a Syncer.
type SyncerParams struct {
	Store             *LocalStore
	Remote            Remote
	Session           *Session
	Logger            *logger.Logger
	Metrics           *metrics.SyncMetrics
	PlaceholderDomain string
	DefaultCountry    string
	Concurrency       int
	Now               func() time.Time
}

// Syncer runs imports and admin actions against one local store. Imports
// and actions are serialized in-process; separate processes must coordinate
// through the worker lock.
type Syncer struct {
	mu sync.Mutex

	store      *LocalStore
	remote     Remote
	session    *Session
	fetcher    *Fetcher
	aggregator *Aggregator
	logg       *logger.Logger
	metrics    *metrics.SyncMetrics
	domain     string
	country    string
	now        func() time.Time
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Imported      int          `json:"imported"`
	Updated       int          `json:"updated"`
	Total         int          `json:"total"`
	Documents     int          `json:"documents"`
	Discrepancies []Resolution `json:"discrepancies,omitempty"`
	AdminAPI      bool         `json:"admin_api_available"`
}

// NewSyncer validates params and builds a Syncer.
func NewSyncer(params SyncerParams) (*Syncer, error) {
	if params.Store == nil {
		return nil, errors.New("local store required")
	}
	if params.Remote == nil {
		return nil, errors.New("remote required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	session := params.Session
	if session == nil {
		session = NewSession()
	}
	fetcher, err := NewFetcher(params.Remote, params.Logger, params.Metrics)
	if err != nil {
		return nil, err
	}
	aggregator, err := NewAggregator(params.Remote, params.Logger, params.Concurrency)
	if err != nil {
		return nil, err
	}
	now := params.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	aggregator.now = now
	return &Syncer{
		store:      params.Store,
		remote:     params.Remote,
		session:    session,
		fetcher:    fetcher,
		aggregator: aggregator,
		logg:       params.Logger,
		metrics:    params.Metrics,
		domain:     placeholderDomain(params.PlaceholderDomain),
		country:    params.DefaultCountry,
		now:        now,
	}, nil
}

// Session exposes the session the syncer runs under.
func (s *Syncer) Session() *Session {
	return s.session
}

// Import pulls businesses from the backend, resolves statuses against the
// override store, merges them into the local users, seeds missing overrides
// and refreshes the documents list.
func (s *Syncer) Import(ctx context.Context) (ImportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.importLocked(ctx)
}

func (s *Syncer) importLocked(ctx context.Context) (ImportResult, error) {
	ctx = s.logg.WithField(ctx, "event", "admin_sync.import")

	businesses, err := s.fetcher.FetchBusinesses(ctx, s.session)
	if err != nil {
		return ImportResult{AdminAPI: s.session.AdminAPIAvailable()}, err
	}

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	users = pruneDemoUsers(users)
	if len(businesses) == 0 {
		s.logg.Info(ctx, "no businesses to import")
		return ImportResult{Total: len(users), AdminAPI: s.session.AdminAPIAvailable()}, nil
	}

	state, err := s.store.LoadAdminState(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	ownerIDs := make([]string, 0, len(businesses))
	for _, b := range businesses {
		ownerIDs = append(ownerIDs, b.OwnerID)
	}
	userInfo := s.fetcher.FetchUserInfo(ctx, s.session, ownerIDs)

	merged := Merge(users, businesses, MergeInput{
		Overrides:         state,
		UserInfo:          userInfo,
		APIAvailable:      s.session.AdminAPIAvailable(),
		Now:               s.now(),
		PlaceholderDomain: s.domain,
		DefaultCountry:    s.country,
	})

	discrepancies := merged.Discrepancies()
	for _, d := range discrepancies {
		s.metrics.IncDiscrepancy()
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"user_id": d.UserID,
			"local":   d.Local,
			"backend": d.Backend,
		}), "status mismatch, using backend status")
	}
	for _, u := range merged.Users {
		if IsPlaceholderEmail(u.Email, s.domain) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"user_id": u.ID,
				"email":   u.Email,
			}), "owner has placeholder email")
		}
	}

	if err := s.store.SaveUsers(ctx, merged.Users); err != nil {
		return ImportResult{}, fmt.Errorf("save users: %w", err)
	}
	if added := state.SeedMissing(ResolvedStatuses(merged.Users)); added > 0 {
		if err := s.store.SaveAdminState(ctx, state); err != nil {
			return ImportResult{}, fmt.Errorf("save admin state: %w", err)
		}
	}

	fetched, fetchErr := s.aggregator.FetchDocuments(ctx, businesses)
	if fetchErr != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", fetchErr.Error()), "some documents could not be fetched")
	}
	fetched = assignDocumentOwners(fetched, merged.Users)
	existingDocs, err := s.store.LoadDocuments(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	docs := MergeDocuments(pruneOrphanDocuments(existingDocs, merged.Users), fetched)
	if err := s.store.SaveDocuments(ctx, docs); err != nil {
		return ImportResult{}, fmt.Errorf("save documents: %w", err)
	}

	result := ImportResult{
		Imported:      merged.Imported,
		Updated:       merged.Updated,
		Total:         len(merged.Users),
		Documents:     len(docs),
		Discrepancies: discrepancies,
		AdminAPI:      s.session.AdminAPIAvailable(),
	}
	s.metrics.ObserveImport(result.Imported, result.Updated, result.Total, result.Documents)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"imported":  result.Imported,
		"updated":   result.Updated,
		"total":     result.Total,
		"documents": result.Documents,
	}), "import complete")
	return result, nil
}

// AutoImport runs Import and never fails: errors are logged and a zero
// result is returned. It is what the dashboard calls on load.
func (s *Syncer) AutoImport(ctx context.Context) ImportResult {
	result, err := s.Import(ctx)
	if err != nil {
		if errors.Is(err, ErrNoBusinesses) {
			s.logg.Info(ctx, "auto import found no businesses")
		} else {
			s.logg.Error(ctx, "auto import failed", err)
		}
		return ImportResult{AdminAPI: s.session.AdminAPIAvailable()}
	}
	return result
}

// assignDocumentOwners points documents at the merged owner of their
// business, which may differ from the listing's owner ID when the user was
// matched by email.
func assignDocumentOwners(docs []Document, users []User) []Document {
	owners := map[string]string{}
	for _, u := range users {
		if u.BusinessID != "" {
			owners[u.BusinessID] = u.ID
		}
	}
	for i := range docs {
		if owner, ok := owners[docs[i].BusinessID]; ok {
			docs[i].UserID = owner
		}
	}
	return docs
}

func pruneOrphanDocuments(docs []Document, users []User) []Document {
	known := make(map[string]struct{}, len(users))
	for _, u := range users {
		known[u.ID] = struct{}{}
	}
	kept := make([]Document, 0, len(docs))
	for _, d := range docs {
		if _, ok := known[d.UserID]; ok {
			kept = append(kept, d)
		}
	}
	return kept
}
