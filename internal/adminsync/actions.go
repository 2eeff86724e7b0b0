package adminsync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrAlreadyInStatus = errors.New("account already in requested status")
	ErrReasonRequired  = errors.New("reason is required")
	ErrInvalidDocKind  = errors.New("invalid document kind")
	ErrWrongStateForOp = errors.New("account is not in a state that allows this action")
)

const (
	adminSender         = "admin"
	fixDocumentRedirect = "/owner-form.html#documents"
)

// statusChange describes one admin decision. A non-empty from restricts the
// status the account must currently be in.
type statusChange struct {
	status   enums.AccountStatus
	isActive bool
	from     enums.AccountStatus
	subject  string
	body     string
}

// Approve marks the account approved and activates the listing.
func (s *Syncer) Approve(ctx context.Context, userID string) (User, error) {
	return s.changeStatus(ctx, userID, statusChange{
		status:   enums.AccountStatusApproved,
		isActive: true,
		subject:  "Account Approved",
		body:     "Congratulations! Your account has been approved.",
	})
}

// Reject marks the account rejected with the given reason.
func (s *Syncer) Reject(ctx context.Context, userID, reason string) (User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return User{}, ErrReasonRequired
	}
	return s.changeStatus(ctx, userID, statusChange{
		status:  enums.AccountStatusRejected,
		subject: "Account Rejected",
		body:    fmt.Sprintf("Your account has been rejected.\n\nReason: %s\n\nIf you believe this is an error, please contact support.", reason),
	})
}

// Suspend deactivates the account with the given reason.
func (s *Syncer) Suspend(ctx context.Context, userID, reason string) (User, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return User{}, ErrReasonRequired
	}
	return s.changeStatus(ctx, userID, statusChange{
		status:  enums.AccountStatusSuspended,
		subject: "Account Suspended",
		body:    fmt.Sprintf("Your account has been suspended.\n\nReason: %s\n\nPlease contact support if you have any questions or would like to appeal this decision.", reason),
	})
}

// Unsuspend restores a suspended account to approved.
func (s *Syncer) Unsuspend(ctx context.Context, userID string) (User, error) {
	return s.changeStatus(ctx, userID, statusChange{
		status:   enums.AccountStatusApproved,
		isActive: true,
		from:     enums.AccountStatusSuspended,
		subject:  "Account Unsuspended",
		body:     "Your account has been unsuspended. You can now access all features.",
	})
}

// Unapprove sends an approved account back to pending review.
func (s *Syncer) Unapprove(ctx context.Context, userID string) (User, error) {
	return s.changeStatus(ctx, userID, statusChange{
		status:  enums.AccountStatusPending,
		from:    enums.AccountStatusApproved,
		subject: "Account Unapproved",
		body:    "Your account has been unapproved and set back to pending status. Please wait for review.",
	})
}

// ReportDocumentIssue asks the owner to resubmit one document and flags the
// account as needs_fix. Empty subject and message get defaults naming the
// document.
func (s *Syncer) ReportDocumentIssue(ctx context.Context, userID string, kind enums.DocumentKind, subject, message string) (User, error) {
	if !kind.IsValid() {
		return User{}, fmt.Errorf("%w: %q", ErrInvalidDocKind, kind)
	}
	label := kind.Label()
	if strings.TrimSpace(subject) == "" {
		subject = "Issue with " + label
	}
	if strings.TrimSpace(message) == "" {
		message = fmt.Sprintf("The %s document you submitted has an issue. Please review and resubmit it by going to your profile edit page and uploading a new file for this document.", label)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, pos, err := s.findUser(ctx, userID)
	if err != nil {
		return User{}, err
	}
	user := users[pos]
	businessID := s.resolveBusinessID(ctx, user)
	s.pushStatus(ctx, businessID, enums.AccountStatusNeedsFix, false)

	now := s.now()
	user.Status = enums.AccountStatusNeedsFix
	user.UpdatedAt = now
	users[pos] = user
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return User{}, fmt.Errorf("save users: %w", err)
	}

	state, err := s.store.LoadAdminState(ctx)
	if err != nil {
		return User{}, err
	}
	state.MarkNeedsFix(userID, now)
	if err := s.store.SaveAdminState(ctx, state); err != nil {
		return User{}, fmt.Errorf("save admin state: %w", err)
	}

	msg := s.newMessage(userID, subject, message)
	msg.DocumentType = string(kind)
	msg.Action = &MessageAction{Type: "fix_document", DocType: string(kind), RedirectURL: fixDocumentRedirect}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return User{}, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":       userID,
		"document_type": string(kind),
	}), "document issue reported")
	return user, nil
}

func (s *Syncer) changeStatus(ctx context.Context, userID string, change statusChange) (User, error) {
	if !change.status.IsValid() {
		return User{}, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, pos, err := s.findUser(ctx, userID)
	if err != nil {
		return User{}, err
	}
	user := users[pos]
	if change.from != "" && user.Status != change.from {
		return User{}, fmt.Errorf("%w: %s is %s", ErrWrongStateForOp, userID, user.Status)
	}
	if user.Status == change.status {
		return User{}, fmt.Errorf("%w: %s", ErrAlreadyInStatus, change.status)
	}

	businessID := s.resolveBusinessID(ctx, user)
	s.pushStatus(ctx, businessID, change.status, change.isActive)

	now := s.now()
	user.Status = change.status
	user.UpdatedAt = now
	if user.BusinessID == "" {
		user.BusinessID = businessID
	}
	users[pos] = user
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return User{}, fmt.Errorf("save users: %w", err)
	}

	state, err := s.store.LoadAdminState(ctx)
	if err != nil {
		return User{}, err
	}
	state.SetStatus(userID, change.status, now)
	if err := s.store.SaveAdminState(ctx, state); err != nil {
		return User{}, fmt.Errorf("save admin state: %w", err)
	}

	if err := s.store.AppendMessage(ctx, s.newMessage(userID, change.subject, change.body)); err != nil {
		return User{}, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id": userID,
		"status":  string(change.status),
	}), "account status changed")
	return user, nil
}

// DeleteResult reports what an account deletion removed.
type DeleteResult struct {
	UserID            string         `json:"user_id"`
	BusinessID        string         `json:"business_id,omitempty"`
	Remote            DeletionResult `json:"remote"`
	RemoteDeleted     bool           `json:"remote_deleted"`
	FallbackEvents    int            `json:"fallback_events"`
	FallbackBulletins int            `json:"fallback_bulletins"`
	Documents         int            `json:"documents"`
	Messages          int            `json:"messages"`
}

// Delete removes an account everywhere. The backend cascade is tried first;
// when it fails or reports no events and no bulletins, the owner's events
// and bulletins are deleted one by one. Local state is always cleaned.
func (s *Syncer) Delete(ctx context.Context, userID string) (DeleteResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, pos, err := s.findUser(ctx, userID)
	if err != nil {
		return DeleteResult{}, err
	}
	user := users[pos]
	result := DeleteResult{UserID: userID, BusinessID: s.resolveBusinessID(ctx, user)}
	ctx = s.logg.WithFields(ctx, map[string]any{"user_id": userID, "business_id": result.BusinessID})

	if result.BusinessID != "" {
		remote, err := s.remote.DeleteBusiness(ctx, result.BusinessID)
		switch {
		case err == nil:
			result.Remote = remote
			result.RemoteDeleted = true
		case errors.Is(err, ErrEndpointUnavailable), errors.Is(err, ErrUnreachable):
			s.logg.Debug(ctx, "backend delete not available, continuing locally")
		default:
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "backend delete failed, continuing locally")
		}
		if !result.RemoteDeleted || (remote.Events == 0 && remote.Bulletins == 0) {
			events, bulletins, ferr := s.deleteOwnedContent(ctx, userID, result.BusinessID)
			result.FallbackEvents, result.FallbackBulletins = events, bulletins
			if ferr != nil {
				s.logg.Warn(s.logg.WithField(ctx, "error", ferr.Error()), "direct content cleanup incomplete")
			}
		}
	}

	users = append(users[:pos], users[pos+1:]...)
	if err := s.store.SaveUsers(ctx, users); err != nil {
		return result, fmt.Errorf("save users: %w", err)
	}

	docs, err := s.store.LoadDocuments(ctx)
	if err != nil {
		return result, err
	}
	kept := docs[:0]
	for _, d := range docs {
		if d.UserID == userID || (result.BusinessID != "" && d.BusinessID == result.BusinessID) {
			result.Documents++
			continue
		}
		kept = append(kept, d)
	}
	if err := s.store.SaveDocuments(ctx, kept); err != nil {
		return result, fmt.Errorf("save documents: %w", err)
	}

	removed, err := s.store.RemoveMessagesFor(ctx, userID)
	if err != nil {
		return result, err
	}
	result.Messages = removed

	state, err := s.store.LoadAdminState(ctx)
	if err != nil {
		return result, err
	}
	state.Forget(userID)
	if err := s.store.SaveAdminState(ctx, state); err != nil {
		return result, fmt.Errorf("save admin state: %w", err)
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"documents":          result.Documents,
		"messages":           result.Messages,
		"fallback_events":    result.FallbackEvents,
		"fallback_bulletins": result.FallbackBulletins,
	}), "account deleted")
	return result, nil
}

func (s *Syncer) deleteOwnedContent(ctx context.Context, ownerID, businessID string) (int, int, error) {
	owned := func(c RemoteContent) bool {
		return (c.OwnerID != "" && c.OwnerID == ownerID) || (c.BusinessID != "" && c.BusinessID == businessID)
	}
	var errs error
	events, bulletins := 0, 0

	if list, err := s.remote.ListEvents(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("list events: %w", err))
	} else {
		for _, e := range list {
			if !owned(e) {
				continue
			}
			if err := s.remote.DeleteEvent(ctx, e.ID); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("delete event %s: %w", e.ID, err))
				continue
			}
			events++
		}
	}

	if list, err := s.remote.ListBulletins(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("list bulletins: %w", err))
	} else {
		for _, b := range list {
			if !owned(b) {
				continue
			}
			if err := s.remote.DeleteBulletin(ctx, b.ID); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("delete bulletin %s: %w", b.ID, err))
				continue
			}
			bulletins++
		}
	}
	return events, bulletins, errs
}

func (s *Syncer) findUser(ctx context.Context, userID string) ([]User, int, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, 0, fmt.Errorf("%w: empty id", ErrUserNotFound)
	}
	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		return nil, 0, err
	}
	for i, u := range users {
		if u.ID == userID {
			return users, i, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
}

// resolveBusinessID returns the user's business, looking it up in the public
// listing when the local record does not carry it.
func (s *Syncer) resolveBusinessID(ctx context.Context, user User) string {
	if user.BusinessID != "" {
		return user.BusinessID
	}
	businesses, err := s.remote.ListBusinesses(ctx, EndpointPublic)
	if err != nil {
		s.logg.Debug(s.logg.WithUserID(ctx, user.ID), "could not look up business for user")
		return ""
	}
	for _, b := range businesses {
		if b.OwnerID == user.ID {
			return b.ID
		}
	}
	return ""
}

// pushStatus mirrors an admin decision to the backend. Failures are logged;
// the local state is authoritative until the next import.
func (s *Syncer) pushStatus(ctx context.Context, businessID string, status enums.AccountStatus, isActive bool) {
	if businessID == "" {
		return
	}
	bizCtx := s.logg.WithBusinessID(ctx, businessID)
	err := s.remote.UpdateBusinessStatus(ctx, businessID, status, isActive)
	switch {
	case err == nil:
		s.logg.Debug(bizCtx, "backend status updated")
	case errors.Is(err, ErrEndpointUnavailable):
		s.logg.Warn(bizCtx, "backend admin endpoint not available, updating local state only")
	default:
		s.logg.Warn(s.logg.WithField(bizCtx, "error", err.Error()), "backend status update failed, updating local state only")
	}
}

func (s *Syncer) newMessage(userID, subject, body string) InboxMessage {
	now := s.now()
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return InboxMessage{
		ID:        fmt.Sprintf("msg_%d_%s", now.UnixMilli(), suffix),
		From:      adminSender,
		ToUserID:  userID,
		UserID:    userID,
		Subject:   subject,
		Body:      body,
		Message:   body,
		CreatedAt: now,
		Unread:    true,
		Status:    "open",
	}
}
