package adminsync

import (
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
)

// NewAdminState returns an empty override store.
func NewAdminState() *AdminState {
	s := &AdminState{}
	s.init()
	return s
}

func (s *AdminState) init() {
	if s.UserStatuses == nil {
		s.UserStatuses = map[string]enums.AccountStatus{}
	}
	if s.UserMetadata == nil {
		s.UserMetadata = map[string]UserMeta{}
	}
}

// Status returns the admin-set status for userID, if any.
func (s *AdminState) Status(userID string) (enums.AccountStatus, bool) {
	if s == nil || s.UserStatuses == nil {
		return "", false
	}
	status, ok := s.UserStatuses[userID]
	if !ok || !status.IsValid() {
		return "", false
	}
	return status, true
}

// SetStatus records an admin decision.
func (s *AdminState) SetStatus(userID string, status enums.AccountStatus, now time.Time) {
	s.init()
	s.UserStatuses[userID] = status
	meta := s.UserMetadata[userID]
	meta.LastStatusUpdate = now.UnixMilli()
	s.UserMetadata[userID] = meta
}

// MarkNeedsFix flags userID as needing to resubmit a document.
func (s *AdminState) MarkNeedsFix(userID string, now time.Time) {
	s.SetStatus(userID, enums.AccountStatusNeedsFix, now)
	meta := s.UserMetadata[userID]
	meta.NeedsFixAt = now.UnixMilli()
	s.UserMetadata[userID] = meta
}

// TouchDocuments records when documents for userID last changed.
func (s *AdminState) TouchDocuments(userID string, now time.Time) {
	s.init()
	meta := s.UserMetadata[userID]
	meta.DocumentsUpdatedAt = now.UnixMilli()
	s.UserMetadata[userID] = meta
}

// SeedMissing fills overrides only for users that have none. It returns the
// number of entries added.
func (s *AdminState) SeedMissing(statuses map[string]enums.AccountStatus) int {
	s.init()
	added := 0
	for id, status := range statuses {
		if id == "" || !status.IsValid() {
			continue
		}
		if _, ok := s.UserStatuses[id]; ok {
			continue
		}
		s.UserStatuses[id] = status
		added++
	}
	return added
}

// Forget removes every trace of userID.
func (s *AdminState) Forget(userID string) {
	s.init()
	delete(s.UserStatuses, userID)
	delete(s.UserMetadata, userID)
}
