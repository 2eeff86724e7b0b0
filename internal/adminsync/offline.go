package adminsync

import (
	"context"

	"github.com/chamber122/chamber122-backend/pkg/enums"
)

// OfflineRemote is the adapter used when no backend is deployed. Every call
// fails with ErrEndpointUnavailable so the admin view runs on local state and
// overrides alone.
type OfflineRemote struct{}

// NewOfflineRemote returns the offline adapter.
func NewOfflineRemote() OfflineRemote {
	return OfflineRemote{}
}

func (OfflineRemote) ListBusinesses(context.Context, Endpoint) ([]RemoteBusiness, error) {
	return nil, ErrEndpointUnavailable
}

func (OfflineRemote) ListMedia(context.Context, string) ([]RemoteMedia, error) {
	return nil, ErrEndpointUnavailable
}

func (OfflineRemote) GetUser(context.Context, string) (RemoteUser, error) {
	return RemoteUser{}, ErrEndpointUnavailable
}

func (OfflineRemote) UpdateBusinessStatus(context.Context, string, enums.AccountStatus, bool) error {
	return ErrEndpointUnavailable
}

func (OfflineRemote) DeleteBusiness(context.Context, string) (DeletionResult, error) {
	return DeletionResult{}, ErrEndpointUnavailable
}

func (OfflineRemote) ListEvents(context.Context) ([]RemoteContent, error) {
	return nil, ErrEndpointUnavailable
}

func (OfflineRemote) DeleteEvent(context.Context, string) error {
	return ErrEndpointUnavailable
}

func (OfflineRemote) ListBulletins(context.Context) ([]RemoteContent, error) {
	return nil, ErrEndpointUnavailable
}

func (OfflineRemote) DeleteBulletin(context.Context, string) error {
	return ErrEndpointUnavailable
}
