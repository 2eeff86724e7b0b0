package adminsync

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/chamber122/chamber122-backend/pkg/kvstore"
	"github.com/chamber122/chamber122-backend/pkg/logger"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type statusPush struct {
	businessID string
	status     enums.AccountStatus
	isActive   bool
}

// fakeRemote records calls and answers from canned data.
type fakeRemote struct {
	mu sync.Mutex

	listings   map[Endpoint][]RemoteBusiness
	listingErr map[Endpoint]error
	media      map[string][]RemoteMedia
	mediaErr   map[string]error
	users      map[string]RemoteUser
	userErr    error
	pushErr    error
	deleteRes  DeletionResult
	deleteErr  error
	events     []RemoteContent
	bulletins  []RemoteContent

	listCalls      map[Endpoint]int
	pushes         []statusPush
	deletedEvents  []string
	deletedBullets []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		listings:   map[Endpoint][]RemoteBusiness{},
		listingErr: map[Endpoint]error{},
		media:      map[string][]RemoteMedia{},
		mediaErr:   map[string]error{},
		users:      map[string]RemoteUser{},
		listCalls:  map[Endpoint]int{},
	}
}

func (f *fakeRemote) ListBusinesses(_ context.Context, endpoint Endpoint) ([]RemoteBusiness, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls[endpoint]++
	if err := f.listingErr[endpoint]; err != nil {
		return nil, err
	}
	return f.listings[endpoint], nil
}

func (f *fakeRemote) ListMedia(_ context.Context, businessID string) ([]RemoteMedia, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.mediaErr[businessID]; err != nil {
		return nil, err
	}
	return f.media[businessID], nil
}

func (f *fakeRemote) GetUser(_ context.Context, userID string) (RemoteUser, error) {
	if f.userErr != nil {
		return RemoteUser{}, f.userErr
	}
	user, ok := f.users[userID]
	if !ok {
		return RemoteUser{}, &StatusError{Path: "/users/" + userID, Status: 500}
	}
	return user, nil
}

func (f *fakeRemote) UpdateBusinessStatus(_ context.Context, businessID string, status enums.AccountStatus, isActive bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, statusPush{businessID: businessID, status: status, isActive: isActive})
	return f.pushErr
}

func (f *fakeRemote) DeleteBusiness(context.Context, string) (DeletionResult, error) {
	return f.deleteRes, f.deleteErr
}

func (f *fakeRemote) ListEvents(context.Context) ([]RemoteContent, error) {
	return f.events, nil
}

func (f *fakeRemote) DeleteEvent(_ context.Context, id string) error {
	f.deletedEvents = append(f.deletedEvents, id)
	return nil
}

func (f *fakeRemote) ListBulletins(context.Context) ([]RemoteContent, error) {
	return f.bulletins, nil
}

func (f *fakeRemote) DeleteBulletin(_ context.Context, id string) error {
	f.deletedBullets = append(f.deletedBullets, id)
	return nil
}

func boolPtr(v bool) *bool { return &v }

func newTestSyncer(t *testing.T, remote Remote) (*Syncer, *LocalStore) {
	t.Helper()
	store, err := NewLocalStore(kvstore.NewMemory())
	require.NoError(t, err)
	syncer, err := NewSyncer(SyncerParams{
		Store:  store,
		Remote: remote,
		Logger: logger.Nop(),
		Now:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return syncer, store
}

func seedUsers(t *testing.T, store *LocalStore, users ...User) {
	t.Helper()
	require.NoError(t, store.SaveUsers(context.Background(), users))
}

func seedOverride(t *testing.T, store *LocalStore, userID string, status enums.AccountStatus) {
	t.Helper()
	ctx := context.Background()
	state, err := store.LoadAdminState(ctx)
	require.NoError(t, err)
	state.SetStatus(userID, status, fixedNow)
	require.NoError(t, store.SaveAdminState(ctx, state))
}
