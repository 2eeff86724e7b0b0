package adminsync

import (
	"context"
	"errors"
	"testing"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingListing() []RemoteBusiness {
	return []RemoteBusiness{{ID: "b1", OwnerID: "u1", Name: "Falafel House", Status: "pending"}}
}

func TestImportBackendWinsWhenReachable(t *testing.T) {
	remote := newFakeRemote()
	remote.listings[EndpointAdmin] = pendingListing()
	syncer, store := newTestSyncer(t, remote)
	seedOverride(t, store, "u1", enums.AccountStatusApproved)

	result, err := syncer.Import(context.Background())
	require.NoError(t, err)
	assert.True(t, result.AdminAPI)
	require.Len(t, result.Discrepancies, 1)
	assert.Equal(t, enums.AccountStatusApproved, result.Discrepancies[0].Local)

	users, err := store.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, enums.AccountStatusPending, users[0].Status)

	state, err := store.LoadAdminState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusApproved, state.UserStatuses["u1"], "override is kept for the next offline session")
}

func TestImportOverrideWinsWithoutAdminAPI(t *testing.T) {
	remote := newFakeRemote()
	remote.listingErr[EndpointAdmin] = ErrEndpointUnavailable
	remote.listingErr[EndpointAll] = ErrEndpointUnavailable
	remote.listings[EndpointPublic] = pendingListing()
	syncer, store := newTestSyncer(t, remote)
	seedOverride(t, store, "u1", enums.AccountStatusApproved)

	result, err := syncer.Import(context.Background())
	require.NoError(t, err)
	assert.False(t, result.AdminAPI)
	assert.Empty(t, result.Discrepancies)

	users, err := store.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, enums.AccountStatusApproved, users[0].Status)

	_, err = syncer.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, remote.listCalls[EndpointAdmin])
	assert.Equal(t, 2, remote.listCalls[EndpointPublic])
}

func TestImportIsIdempotentAndSeedsOverrides(t *testing.T) {
	remote := newFakeRemote()
	remote.listings[EndpointAdmin] = []RemoteBusiness{
		{ID: "b1", OwnerID: "u1", Name: "One", IsActive: boolPtr(true)},
		{ID: "b2", OwnerID: "u2", Name: "Two"},
	}
	remote.users["u1"] = RemoteUser{Email: "one@example.org", Name: "Owner One"}
	syncer, store := newTestSyncer(t, remote)
	ctx := context.Background()

	first, err := syncer.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Imported)
	assert.Equal(t, 2, first.Total)

	state, err := store.LoadAdminState(ctx)
	require.NoError(t, err)
	assert.Equal(t, enums.AccountStatusApproved, state.UserStatuses["u1"])
	assert.Equal(t, enums.AccountStatusPending, state.UserStatuses["u2"])

	usersAfterFirst, err := store.LoadUsers(ctx)
	require.NoError(t, err)

	second, err := syncer.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, 2, second.Updated)

	usersAfterSecond, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, usersAfterFirst, usersAfterSecond)
	assert.Equal(t, "one@example.org", usersAfterSecond[0].Email)
	assert.Equal(t, "business_b2@chamber122.com", usersAfterSecond[1].Email)
}

func TestImportRefreshesDocuments(t *testing.T) {
	remote := newFakeRemote()
	remote.listings[EndpointAdmin] = pendingListing()
	remote.media["b1"] = []RemoteMedia{
		{ID: "m1", Type: "license", URL: "/uploads/license.pdf", FileName: "license.pdf"},
		{ID: "m2", Type: "gallery", URL: "/uploads/g.jpg"},
	}
	syncer, store := newTestSyncer(t, remote)
	ctx := context.Background()
	require.NoError(t, store.SaveDocuments(ctx, []Document{
		{ID: "old", UserID: "u1", Kind: enums.DocumentKindLicense, FileURL: "pending_upload_license_1"},
		{ID: "orphan", UserID: "gone", Kind: enums.DocumentKindIBAN, FileURL: "/uploads/iban.pdf"},
	}))

	result, err := syncer.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Documents)

	docs, err := syncer.DocumentsFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "/uploads/license.pdf", docs[0].FileURL)
}

func TestImportDocumentsFollowMergedOwner(t *testing.T) {
	remote := newFakeRemote()
	remote.listings[EndpointAdmin] = []RemoteBusiness{{ID: "b1", OwnerID: "u1", OwnerEmail: "owner@example.org"}}
	remote.media["b1"] = []RemoteMedia{{ID: "m1", Type: "iban", URL: "/uploads/iban.pdf"}}
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, User{ID: "local-1", Email: "owner@example.org", Status: enums.AccountStatusPending})

	_, err := syncer.Import(context.Background())
	require.NoError(t, err)

	docs, err := syncer.DocumentsFor(context.Background(), "local-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "b1", docs[0].BusinessID)
}

func TestImportDropsDemoAccounts(t *testing.T) {
	remote := newFakeRemote()
	remote.listings[EndpointAdmin] = pendingListing()
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store,
		User{ID: "demo1", Email: "user1@example.com"},
		User{ID: "demo2", BusinessName: "Sample Business 2"},
	)

	result, err := syncer.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestImportNoBusinesses(t *testing.T) {
	remote := newFakeRemote()
	syncer, _ := newTestSyncer(t, remote)

	_, err := syncer.Import(context.Background())
	assert.True(t, errors.Is(err, ErrNoBusinesses))

	assert.Equal(t, 0, syncer.AutoImport(context.Background()).Total)

	job, err := NewSyncJob(syncer)
	require.NoError(t, err)
	assert.NoError(t, job.Run(context.Background()))
}

func TestImportUnreachableLeavesLocalStateAlone(t *testing.T) {
	remote := newFakeRemote()
	for _, ep := range []Endpoint{EndpointAdmin, EndpointAll, EndpointPublic} {
		remote.listingErr[ep] = ErrUnreachable
	}
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store, User{ID: "u1", Status: enums.AccountStatusSuspended})

	result, err := syncer.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total, "total counts the users already stored")

	users, err := store.LoadUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, enums.AccountStatusSuspended, users[0].Status)
}

func TestImportEmptyListingReportsStoredUsers(t *testing.T) {
	remote := newFakeRemote()
	remote.listingErr[EndpointAdmin] = ErrEndpointUnavailable
	remote.listingErr[EndpointAll] = ErrEndpointUnavailable
	syncer, store := newTestSyncer(t, remote)
	seedUsers(t, store,
		User{ID: "u1", Email: "one@example.org"},
		User{ID: "u2", Email: "two@example.org"},
		User{ID: "demo1", Email: "user1@example.com"},
	)

	result, err := syncer.Import(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Zero(t, result.Imported)
	assert.False(t, result.AdminAPI)
}

func TestSyncJobRetriesAdminAPIEachRun(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	remote.listingErr[EndpointAdmin] = ErrEndpointUnavailable
	remote.listingErr[EndpointAll] = ErrEndpointUnavailable
	remote.listings[EndpointPublic] = pendingListing()
	syncer, store := newTestSyncer(t, remote)
	seedOverride(t, store, "u1", enums.AccountStatusApproved)

	job, err := NewSyncJob(syncer)
	require.NoError(t, err)
	require.NoError(t, job.Run(ctx))
	assert.False(t, syncer.Session().AdminAPIAvailable())

	users, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, enums.AccountStatusApproved, users[0].Status)

	// the admin api comes back between ticks
	remote.mu.Lock()
	delete(remote.listingErr, EndpointAdmin)
	remote.listings[EndpointAdmin] = []RemoteBusiness{{ID: "b1", OwnerID: "u1", Name: "Falafel House", Status: "suspended"}}
	remote.mu.Unlock()

	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 2, remote.listCalls[EndpointAdmin])
	assert.True(t, syncer.Session().AdminAPIAvailable())

	users, err = store.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, enums.AccountStatusSuspended, users[0].Status)
}

func TestOfflineRemoteImportsNothing(t *testing.T) {
	syncer, _ := newTestSyncer(t, OfflineRemote{})
	result, err := syncer.Import(context.Background())
	require.NoError(t, err)
	assert.False(t, result.AdminAPI)
}
