package adminsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 8

// URLState is where a document URL sits in NONE -> PENDING -> REAL.
type URLState int

const (
	URLStateNone URLState = iota
	URLStatePending
	URLStateReal
)

func (s URLState) String() string {
	switch s {
	case URLStatePending:
		return "PENDING"
	case URLStateReal:
		return "REAL"
	default:
		return "NONE"
	}
}

const pendingUploadPrefix = "pending_upload_"

// ClassifyURL places a document URL in the state machine.
func ClassifyURL(raw string) URLState {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "" || raw == "#":
		return URLStateNone
	case strings.HasPrefix(raw, "pending_") || strings.HasPrefix(raw, "blob:"):
		return URLStatePending
	default:
		return URLStateReal
	}
}

var documentKindAliases = map[string]enums.DocumentKind{
	"trade_license":           enums.DocumentKindLicense,
	"business_license":        enums.DocumentKindLicense,
	"iban_certificate":        enums.DocumentKindIBAN,
	"articles_of_association": enums.DocumentKindArticles,
	"signature_authorization": enums.DocumentKindSignatureAuth,
}

var excludedMediaTypes = map[string]struct{}{
	"gallery": {},
	"logo":    {},
}

// MapDocumentKind translates a backend media type into the admin taxonomy.
// Gallery, logo, untyped and unknown media report false.
func MapDocumentKind(raw string) (enums.DocumentKind, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", false
	}
	if _, excluded := excludedMediaTypes[key]; excluded {
		return "", false
	}
	if kind, err := enums.ParseDocumentKind(key); err == nil {
		return kind, true
	}
	if kind, ok := documentKindAliases[key]; ok {
		return kind, true
	}
	return "", false
}

// NormalizeMedia converts one business's media rows into admin documents.
func NormalizeMedia(b RemoteBusiness, media []RemoteMedia, now time.Time) []Document {
	docs := []Document{}
	userID := OwnerUserID(b)
	for _, m := range media {
		kind, ok := MapDocumentKind(m.Type)
		if !ok {
			continue
		}
		fileURL := strings.TrimSpace(m.URL)
		if fileURL == "" {
			fileURL = "#"
		}
		if ClassifyURL(fileURL) == URLStateNone {
			continue
		}
		if strings.HasPrefix(fileURL, "blob:") {
			if m.FileName == "" {
				continue
			}
			fileURL = fmt.Sprintf("%s%s_%d", pendingUploadPrefix, kind, now.UnixMilli())
		}

		doc := Document{
			ID:         m.ID,
			UserID:     userID,
			BusinessID: firstNonEmpty(m.BusinessID, b.ID),
			Kind:       kind,
			FileURL:    fileURL,
			FileName:   m.FileName,
			FileSize:   m.FileSize,
			UploadedAt: firstTime(m.UploadedAt, now),
		}
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		if doc.FileName == "" {
			doc.FileName = string(kind) + ".pdf"
		}
		docs = append(docs, doc)
	}
	return docs
}

type documentKey struct {
	userID string
	kind   enums.DocumentKind
}

// MergeDocuments folds incoming into existing keeping at most one document
// per (user_id, kind). A candidate replaces the held document when its URL is
// further along the state machine, or when both are real URLs (the newer
// upload wins). Order of first appearance is kept.
func MergeDocuments(existing, incoming []Document) []Document {
	out := make([]Document, 0, len(existing)+len(incoming))
	positions := map[documentKey]int{}
	add := func(doc Document) {
		key := documentKey{userID: doc.UserID, kind: doc.Kind}
		pos, ok := positions[key]
		if !ok {
			positions[key] = len(out)
			out = append(out, doc)
			return
		}
		held := ClassifyURL(out[pos].FileURL)
		candidate := ClassifyURL(doc.FileURL)
		if candidate > held || (candidate == URLStateReal && held == URLStateReal) {
			out[pos] = doc
		}
	}
	for _, doc := range existing {
		add(doc)
	}
	for _, doc := range incoming {
		add(doc)
	}
	return out
}

// Aggregator collects compliance documents for many businesses.
type Aggregator struct {
	remote      Remote
	logg        *logger.Logger
	concurrency int
	now         func() time.Time
}

// NewAggregator builds an Aggregator fetching at most concurrency
// businesses at a time.
func NewAggregator(remote Remote, logg *logger.Logger, concurrency int) (*Aggregator, error) {
	if remote == nil {
		return nil, errors.New("remote required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Aggregator{
		remote:      remote,
		logg:        logg,
		concurrency: concurrency,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// FetchDocuments returns the documents of every business, deduplicated, in
// input order. Per-business failures are skipped and reported together in
// the returned error; the documents already collected are still returned.
func (a *Aggregator) FetchDocuments(ctx context.Context, businesses []RemoteBusiness) ([]Document, error) {
	results := make([][]Document, len(businesses))
	var (
		mu   sync.Mutex
		errs error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, b := range businesses {
		if b.ID == "" {
			continue
		}
		g.Go(func() error {
			media, err := a.remote.ListMedia(gctx, b.ID)
			if err != nil {
				bizCtx := a.logg.WithBusinessID(gctx, b.ID)
				if errors.Is(err, ErrEndpointUnavailable) {
					a.logg.Debug(bizCtx, "business detail not available, no documents")
					return nil
				}
				a.logg.Warn(a.logg.WithField(bizCtx, "error", err.Error()), "could not fetch documents for business")
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("business %s: %w", b.ID, err))
				mu.Unlock()
				return nil
			}
			docs := NormalizeMedia(b, media, a.now())
			if len(media) > 0 && len(docs) == 0 {
				a.logg.Debug(a.logg.WithFields(gctx, map[string]any{
					"business_id": b.ID,
					"media":       len(media),
				}), "business has media but no compliance documents")
			}
			results[i] = docs
			return nil
		})
	}
	_ = g.Wait()

	var all []Document
	for _, docs := range results {
		all = append(all, docs...)
	}
	return MergeDocuments(nil, all), errs
}
