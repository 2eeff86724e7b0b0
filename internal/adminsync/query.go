package adminsync

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserFilter narrows ListUsers.
type UserFilter struct {
	Search string
	Status enums.AccountStatus
}

func (f UserFilter) matches(u User) bool {
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	for _, field := range []string{u.Name, u.Email, u.BusinessName} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// ListUsers returns the review queue: accounts needing attention first, then
// updated, then approved; newest first within a group.
func (s *Syncer) ListUsers(ctx context.Context, filter UserFilter) ([]User, error) {
	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if filter.matches(u) {
			out = append(out, u)
		}
	}
	SortReviewQueue(out)
	return out, nil
}

// SortReviewQueue orders users by status priority then created_at desc.
func SortReviewQueue(users []User) {
	sort.SliceStable(users, func(i, j int) bool {
		pi, pj := users[i].Status.Priority(), users[j].Status.Priority()
		if pi != pj {
			return pi < pj
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}

// Stats are the dashboard counters.
type Stats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Suspended int `json:"suspended"`
	NeedsFix  int `json:"needs_fix"`
	Rejected  int `json:"rejected"`
}

// Stats counts users by merged status.
func (s *Syncer) Stats(ctx context.Context) (Stats, error) {
	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Total: len(users)}
	for _, u := range users {
		switch u.Status {
		case enums.AccountStatusPending:
			stats.Pending++
		case enums.AccountStatusApproved:
			stats.Approved++
		case enums.AccountStatusSuspended:
			stats.Suspended++
		case enums.AccountStatusNeedsFix:
			stats.NeedsFix++
		case enums.AccountStatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

// DocumentsFor lists the documents of one user in taxonomy order.
func (s *Syncer) DocumentsFor(ctx context.Context, userID string) ([]Document, error) {
	docs, err := s.store.LoadDocuments(ctx)
	if err != nil {
		return nil, err
	}
	order := map[enums.DocumentKind]int{}
	for i, k := range enums.DocumentKinds() {
		order[k] = i
	}
	out := []Document{}
	for _, d := range docs {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return order[out[i].Kind] < order[out[j].Kind] })
	return out, nil
}

// MessagesFor lists the admin messages addressed to userID.
func (s *Syncer) MessagesFor(ctx context.Context, userID string) ([]InboxMessage, error) {
	msgs, err := s.store.LoadInbox(ctx)
	if err != nil {
		return nil, err
	}
	out := []InboxMessage{}
	for _, m := range msgs {
		if m.ToUserID == userID || m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

var (
	demoEmails        = map[string]struct{}{"user1@example.com": {}, "user2@example.com": {}}
	demoBusinessNames = map[string]struct{}{"Sample Business 1": {}, "Sample Business 2": {}}
)

func isDemoUser(u User) bool {
	if _, ok := demoEmails[normalizeEmail(u.Email)]; ok {
		return true
	}
	_, ok := demoBusinessNames[strings.TrimSpace(u.BusinessName)]
	return ok
}

func pruneDemoUsers(users []User) []User {
	kept := make([]User, 0, len(users))
	for _, u := range users {
		if !isDemoUser(u) {
			kept = append(kept, u)
		}
	}
	return kept
}

// PruneDemoAccounts removes the seeded sample accounts and their documents.
func (s *Syncer) PruneDemoAccounts(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return 0, err
	}
	kept := pruneDemoUsers(users)
	removed := len(users) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.store.SaveUsers(ctx, kept); err != nil {
		return 0, fmt.Errorf("save users: %w", err)
	}
	docs, err := s.store.LoadDocuments(ctx)
	if err != nil {
		return removed, err
	}
	if err := s.store.SaveDocuments(ctx, pruneOrphanDocuments(docs, kept)); err != nil {
		return removed, fmt.Errorf("save documents: %w", err)
	}
	s.logg.Info(s.logg.WithField(ctx, "removed", removed), "demo accounts pruned")
	return removed, nil
}

// SignupDocument is a document captured during signup.
type SignupDocument struct {
	Kind     string
	URL      string
	FileName string
	FileSize int64
}

// Signup is an owner registration as captured by the signup form.
type Signup struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	BusinessName string
	BusinessID   string
	Industry     string
	City         string
	Country      string
	CreatedAt    time.Time
	Documents    []SignupDocument
}

// RecordSignup adds or refreshes an owner in the admin view. New signups are
// always pending review. Documents without a usable URL fall back to a
// pending_upload placeholder when a file name is known and are dropped
// otherwise.
func (s *Syncer) RecordSignup(ctx context.Context, in Signup) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return User{}, err
	}

	email := normalizeEmail(in.Email)
	pos := -1
	for i, u := range users {
		if (in.ID != "" && u.ID == in.ID) || (email != "" && normalizeEmail(u.Email) == email) {
			pos = i
			break
		}
	}

	rec := User{}
	if pos >= 0 {
		rec = users[pos]
	}
	rec.ID = firstNonEmpty(rec.ID, in.ID, uuid.NewString())
	rec.Email = email
	if rec.Email == "" {
		rec.Email = PlaceholderEmail(firstNonEmpty(in.BusinessID, rec.ID), s.domain)
	}
	rec.Name = firstNonEmpty(in.Name, in.BusinessName, rec.Name)
	rec.Phone = firstNonEmpty(in.Phone, rec.Phone)
	rec.BusinessName = firstNonEmpty(in.BusinessName, in.Name, rec.BusinessName)
	rec.BusinessID = firstNonEmpty(in.BusinessID, rec.BusinessID)
	rec.Industry = firstNonEmpty(in.Industry, rec.Industry)
	rec.City = firstNonEmpty(in.City, rec.City)
	rec.Country = firstNonEmpty(in.Country, rec.Country, s.country, DefaultCountry)
	rec.Status = enums.AccountStatusPending
	rec.CreatedAt = firstTime(in.CreatedAt, rec.CreatedAt, now)
	rec.UpdatedAt = now

	if pos >= 0 {
		users[pos] = rec
	} else {
		users = append(users, rec)
	}
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return User{}, fmt.Errorf("save users: %w", err)
	}

	incoming := signupDocuments(rec, in.Documents, now)
	if len(incoming) > 0 {
		docs, err := s.store.LoadDocuments(ctx)
		if err != nil {
			return rec, err
		}
		if err := s.store.SaveDocuments(ctx, MergeDocuments(docs, incoming)); err != nil {
			return rec, fmt.Errorf("save documents: %w", err)
		}
		state, err := s.store.LoadAdminState(ctx)
		if err != nil {
			return rec, err
		}
		state.TouchDocuments(rec.ID, now)
		if err := s.store.SaveAdminState(ctx, state); err != nil {
			return rec, fmt.Errorf("save admin state: %w", err)
		}
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":   rec.ID,
		"documents": len(incoming),
	}), "signup recorded")
	return rec, nil
}

func signupDocuments(owner User, in []SignupDocument, now time.Time) []Document {
	out := []Document{}
	for _, d := range in {
		kind, ok := MapDocumentKind(d.Kind)
		if !ok {
			continue
		}
		fileURL := strings.TrimSpace(d.URL)
		if ClassifyURL(fileURL) == URLStateNone || strings.HasPrefix(fileURL, "blob:") {
			if d.FileName == "" {
				continue
			}
			fileURL = fmt.Sprintf("%s%s_%d", pendingUploadPrefix, kind, now.UnixMilli())
		}
		name := d.FileName
		if name == "" {
			name = string(kind) + ".pdf"
		}
		out = append(out, Document{
			ID:         uuid.NewString(),
			UserID:     owner.ID,
			BusinessID: owner.BusinessID,
			Kind:       kind,
			FileURL:    fileURL,
			FileName:   name,
			FileSize:   d.FileSize,
			UploadedAt: now,
		})
	}
	return out
}
