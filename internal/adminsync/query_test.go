package adminsync

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortReviewQueue(t *testing.T) {
	day := 24 * time.Hour
	users := []User{
		{ID: "approved-new", Status: enums.AccountStatusApproved, CreatedAt: fixedNow},
		{ID: "pending-old", Status: enums.AccountStatusPending, CreatedAt: fixedNow.Add(-3 * day)},
		{ID: "updated", Status: enums.AccountStatusUpdated, CreatedAt: fixedNow},
		{ID: "needs-fix-new", Status: enums.AccountStatusNeedsFix, CreatedAt: fixedNow.Add(-day)},
		{ID: "approved-old", Status: enums.AccountStatusApproved, CreatedAt: fixedNow.Add(-day)},
	}
	SortReviewQueue(users)

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	assert.Equal(t, []string{"needs-fix-new", "pending-old", "updated", "approved-new", "approved-old"}, ids)
}

func TestListUsersFiltersAndStats(t *testing.T) {
	syncer, store := newTestSyncer(t, newFakeRemote())
	seedUsers(t, store,
		User{ID: "a", Name: "Amal", Email: "amal@example.org", BusinessName: "Bakery", Status: enums.AccountStatusPending},
		User{ID: "b", Name: "Badr", Email: "badr@example.org", BusinessName: "Garage", Status: enums.AccountStatusApproved},
		User{ID: "c", Name: "Carla", Email: "carla@example.org", BusinessName: "Bakehouse", Status: enums.AccountStatusSuspended},
	)
	ctx := context.Background()

	got, err := syncer.ListUsers(ctx, UserFilter{Search: "BAKE"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = syncer.ListUsers(ctx, UserFilter{Status: enums.AccountStatusApproved})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	stats, err := syncer.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 3, Pending: 1, Approved: 1, Suspended: 1}, stats)
}

func TestPruneDemoAccounts(t *testing.T) {
	syncer, store := newTestSyncer(t, newFakeRemote())
	ctx := context.Background()
	seedUsers(t, store,
		User{ID: "d1", Email: "User1@Example.com"},
		User{ID: "d2", BusinessName: "Sample Business 2"},
		User{ID: "real", Email: "owner@example.org"},
	)
	require.NoError(t, store.SaveDocuments(ctx, []Document{{ID: "x", UserID: "d1", Kind: enums.DocumentKindLicense}}))

	removed, err := syncer.PruneDemoAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	docs, err := store.LoadDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	removed, err = syncer.PruneDemoAccounts(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRecordSignup(t *testing.T) {
	syncer, store := newTestSyncer(t, newFakeRemote())
	ctx := context.Background()

	user, err := syncer.RecordSignup(ctx, Signup{
		ID:           "u1",
		Email:        " Owner@Example.org ",
		Name:         "Dana",
		BusinessName: "Dana Designs",
		BusinessID:   "b1",
		Documents: []SignupDocument{
			{Kind: "license", URL: "/uploads/license.pdf", FileName: "license.pdf"},
			{Kind: "iban", URL: "blob:http://localhost/1", FileName: "iban.pdf"},
			{Kind: "articles", URL: "blob:http://localhost/2"},
			{Kind: "gallery", URL: "/uploads/g.jpg"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "owner@example.org", user.Email)
	assert.Equal(t, enums.AccountStatusPending, user.Status)
	assert.Equal(t, "Kuwait", user.Country)

	docs, err := syncer.DocumentsFor(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, enums.DocumentKindLicense, docs[0].Kind)
	assert.True(t, strings.HasPrefix(docs[1].FileURL, "pending_upload_iban_"))

	state, err := store.LoadAdminState(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixedNow.UnixMilli(), state.UserMetadata["u1"].DocumentsUpdatedAt)

	_, err = syncer.Approve(ctx, "u1")
	require.NoError(t, err)
	again, err := syncer.RecordSignup(ctx, Signup{Email: "owner@example.org", Phone: "555"})
	require.NoError(t, err)
	assert.Equal(t, "u1", again.ID)
	assert.Equal(t, "555", again.Phone)
	assert.Equal(t, "Dana", again.Name)
	assert.Equal(t, enums.AccountStatusPending, again.Status)

	users, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRecordSignupWithoutEmailUsesPlaceholder(t *testing.T) {
	syncer, _ := newTestSyncer(t, newFakeRemote())
	user, err := syncer.RecordSignup(context.Background(), Signup{BusinessID: "b5", BusinessName: "Anon"})
	require.NoError(t, err)
	assert.Equal(t, "business_b5@chamber122.com", user.Email)
}
