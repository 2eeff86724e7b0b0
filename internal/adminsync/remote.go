package adminsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/chamber122/chamber122-backend/pkg/enums"
)

// Endpoint names a business listing endpoint.
type Endpoint string

const (
	EndpointAdmin  Endpoint = "/businesses/admin"
	EndpointAll    Endpoint = "/businesses/all"
	EndpointPublic Endpoint = "/businesses/public"
)

// IsAdminOnly reports whether the endpoint needs the admin API.
func (e Endpoint) IsAdminOnly() bool {
	return e == EndpointAdmin || e == EndpointAll
}

var (
	// ErrEndpointUnavailable means the backend answered 404: the route is not
	// deployed. Callers treat it as a fallback signal.
	ErrEndpointUnavailable = errors.New("endpoint not available")
	// ErrUnreachable means no HTTP response came back at all.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrNoBusinesses means the backend answered but listed nothing.
	ErrNoBusinesses = errors.New("no businesses found")
)

// StatusError is a non-404 HTTP failure.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Status)
}

// Remote is the backend port. The connected adapter speaks HTTP; the offline
// adapter answers every call with ErrEndpointUnavailable.
type Remote interface {
	ListBusinesses(ctx context.Context, endpoint Endpoint) ([]RemoteBusiness, error)
	ListMedia(ctx context.Context, businessID string) ([]RemoteMedia, error)
	GetUser(ctx context.Context, userID string) (RemoteUser, error)
	UpdateBusinessStatus(ctx context.Context, businessID string, status enums.AccountStatus, isActive bool) error
	DeleteBusiness(ctx context.Context, businessID string) (DeletionResult, error)
	ListEvents(ctx context.Context) ([]RemoteContent, error)
	DeleteEvent(ctx context.Context, id string) error
	ListBulletins(ctx context.Context) ([]RemoteContent, error)
	DeleteBulletin(ctx context.Context, id string) error
}
