package adminsync

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOwner() User {
	return User{ID: "u1", Email: "owner@example.org", BusinessID: "b1", Status: enums.AccountStatusPending}
}

func TestApprovePushesAndNotifies(t *testing.T) {
	remote := newFakeRemote()
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, pendingOwner())
	ctx := context.Background()

	user, err := syncer.Approve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusApproved, user.Status)
	assert.Equal(t, fixedNow, user.UpdatedAt)

	require.Len(t, remote.pushes, 1)
	assert.Equal(t, statusPush{businessID: "b1", status: enums.AccountStatusApproved, isActive: true}, remote.pushes[0])

	state, err := store.LoadAdminState(ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusApproved, state.UserStatuses["u1"])
	assert.Equal(t, fixedNow.UnixMilli(), state.UserMetadata["u1"].LastStatusUpdate)

	inbox, err := syncer.MessagesFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Account Approved", inbox[0].Subject)
	assert.Equal(t, "admin", inbox[0].From)
	assert.True(t, inbox[0].Unread)
	assert.True(t, strings.HasPrefix(inbox[0].ID, "msg_"))

	outbox, err := store.LoadAdminMessages(ctx)
	require.NoError(t, err)
	assert.Len(t, outbox, 1)
}

func TestApproveTwiceFails(t *testing.T) {
	syncer, store := newTestSyncer(t, newFakeRemote())
	owner := pendingOwner()
	owner.Status = enums.AccountStatusApproved
	seedUsers(t, store, owner)

	_, err := syncer.Approve(context.Background(), "u1")
	assert.True(t, errors.Is(err, ErrAlreadyInStatus))
}

func TestApproveSucceedsLocallyWhenPushFails(t *testing.T) {
	remote := newFakeRemote()
	remote.pushErr = ErrEndpointUnavailable
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, pendingOwner())

	user, err := syncer.Approve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusApproved, user.Status)
}

func TestApproveLooksUpMissingBusinessID(t *testing.T) {
	remote := newFakeRemote()
	remote.listings[EndpointPublic] = []RemoteBusiness{{ID: "b7", OwnerID: "u1"}}
	syncer, store := newTestSyncer(t, remote)
	owner := pendingOwner()
	owner.BusinessID = ""
	seedUsers(t, store, owner)

	user, err := syncer.Approve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "b7", user.BusinessID)
	require.Len(t, remote.pushes, 1)
	assert.Equal(t, "b7", remote.pushes[0].businessID)
}

func TestRejectAndSuspendRequireReason(t *testing.T) {
	syncer, store := newTestSyncer(t, newFakeRemote())
	seedUsers(t, store, pendingOwner())
	ctx := context.Background()

	_, err := syncer.Reject(ctx, "u1", "  ")
	assert.True(t, errors.Is(err, ErrReasonRequired))
	_, err = syncer.Suspend(ctx, "u1", "")
	assert.True(t, errors.Is(err, ErrReasonRequired))

	user, err := syncer.Suspend(ctx, "u1", "Expired license")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusSuspended, user.Status)

	inbox, err := syncer.MessagesFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Contains(t, inbox[0].Body, "Reason: Expired license")
}

func TestUnsuspendRequiresSuspended(t *testing.T) {
	remote := newFakeRemote()
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, pendingOwner())
	ctx := context.Background()

	_, err := syncer.Unsuspend(ctx, "u1")
	assert.True(t, errors.Is(err, ErrWrongStateForOp))

	_, err = syncer.Suspend(ctx, "u1", "fraud")
	require.NoError(t, err)
	user, err := syncer.Unsuspend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusApproved, user.Status)
	assert.True(t, remote.pushes[len(remote.pushes)-1].isActive)

	user, err = syncer.Unapprove(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusPending, user.Status)
}

func TestActionOnUnknownUser(t *testing.T) {
	syncer, _ := newTestSyncer(t, newFakeRemote())
	_, err := syncer.Approve(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}

func TestReportDocumentIssue(t *testing.T) {
	remote := newFakeRemote()
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, pendingOwner())
	ctx := context.Background()

	_, err := syncer.ReportDocumentIssue(ctx, "u1", enums.DocumentKind("selfie"), "", "")
	assert.True(t, errors.Is(err, ErrInvalidDocKind))

	user, err := syncer.ReportDocumentIssue(ctx, "u1", enums.DocumentKindLicense, "", "")
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusNeedsFix, user.Status)
	require.Len(t, remote.pushes, 1)
	assert.Equal(t, statusPush{businessID: "b1", status: enums.AccountStatusNeedsFix, isActive: false}, remote.pushes[0])

	state, err := store.LoadAdminState(ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusNeedsFix, state.UserStatuses["u1"])
	assert.Equal(t, fixedNow.UnixMilli(), state.UserMetadata["u1"].NeedsFixAt)

	inbox, err := syncer.MessagesFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	msg := inbox[0]
	assert.Equal(t, "Issue with Business License", msg.Subject)
	assert.Contains(t, msg.Body, "Business License document")
	assert.Equal(t, "license", msg.DocumentType)
	require.NotNil(t, msg.Action)
	assert.Equal(t, MessageAction{Type: "fix_document", DocType: "license", RedirectURL: "/owner-form.html#documents"}, *msg.Action)
}

func TestNeedsFixSurvivesReimport(t *testing.T) {
	remote := newFakeRemote()
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, pendingOwner())
	ctx := context.Background()

	_, err := syncer.ReportDocumentIssue(ctx, "u1", enums.DocumentKindIBAN, "Blurry", "Please rescan")
	require.NoError(t, err)

	remote.listings[EndpointAdmin] = []RemoteBusiness{{ID: "b1", OwnerID: "u1", Status: "needs_fix", IsActive: boolPtr(false)}}
	result, err := syncer.Import(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Discrepancies)

	users, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusNeedsFix, users[0].Status)
}

func TestDeleteFallsBackToDirectCleanup(t *testing.T) {
	remote := newFakeRemote()
	remote.deleteRes = DeletionResult{Business: 1, User: 1}
	remote.events = []RemoteContent{{ID: "e1", OwnerID: "u1"}, {ID: "e2", OwnerID: "other"}, {ID: "e3", BusinessID: "b1"}}
	remote.bulletins = []RemoteContent{{ID: "n1", OwnerID: "u1"}}
	syncer, store := newTestSyncer(t, remote)
	ctx := context.Background()
	seedUsers(t, store, pendingOwner(), User{ID: "u2", Email: "two@example.org", Status: enums.AccountStatusPending})
	require.NoError(t, store.SaveDocuments(ctx, []Document{
		{ID: "d1", UserID: "u1", Kind: enums.DocumentKindLicense, FileURL: "/uploads/1.pdf"},
		{ID: "d2", UserID: "u2", Kind: enums.DocumentKindLicense, FileURL: "/uploads/2.pdf"},
	}))
	_, err := syncer.Approve(ctx, "u1")
	require.NoError(t, err)

	result, err := syncer.Delete(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, result.RemoteDeleted)
	assert.Equal(t, 2, result.FallbackEvents)
	assert.Equal(t, 1, result.FallbackBulletins)
	assert.ElementsMatch(t, []string{"e1", "e3"}, remote.deletedEvents)
	assert.Equal(t, []string{"n1"}, remote.deletedBullets)
	assert.Equal(t, 1, result.Documents)
	assert.Equal(t, 2, result.Messages)

	users, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u2", users[0].ID)

	state, err := store.LoadAdminState(ctx)
	require.NoError(t, err)
	_, ok := state.UserStatuses["u1"]
	assert.False(t, ok)
}

func TestDeleteSkipsFallbackWhenCascadeReportsContent(t *testing.T) {
	remote := newFakeRemote()
	remote.deleteRes = DeletionResult{Events: 3, Business: 1}
	remote.events = []RemoteContent{{ID: "e1", OwnerID: "u1"}}
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, pendingOwner())

	result, err := syncer.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Remote.Events)
	assert.Equal(t, 0, result.FallbackEvents)
	assert.Empty(t, remote.deletedEvents)
}

func TestDeleteContinuesLocallyWhenBackendMissing(t *testing.T) {
	remote := newFakeRemote()
	remote.deleteErr = ErrEndpointUnavailable
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, pendingOwner())

	result, err := syncer.Delete(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, result.RemoteDeleted)

	users, err := store.LoadUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
