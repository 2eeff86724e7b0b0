// Package dashboard serves the owner's view of their own events and
// bulletins, drafts included.
package dashboard

import (
	"context"
	"fmt"

	"github.com/chamber122/chamber122-backend/internal/bulletins"
	"github.com/chamber122/chamber122-backend/internal/events"
	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
)

type eventRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]events.Row, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	ListRegistrations(ctx context.Context, eventID string) ([]models.EventRegistration, error)
}

type bulletinRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]bulletins.Row, error)
	FindByID(ctx context.Context, id string) (*models.Bulletin, error)
	ListRegistrations(ctx context.Context, bulletinID string) ([]models.BulletinRegistration, error)
}

type Service interface {
	MyEvents(ctx context.Context, ownerID string) ([]events.EventDTO, error)
	EventRegistrations(ctx context.Context, ownerID, eventID string) ([]events.RegistrationDTO, error)
	MyBulletins(ctx context.Context, ownerID string) ([]bulletins.BulletinDTO, error)
	BulletinRegistrations(ctx context.Context, ownerID, bulletinID string) ([]bulletins.RegistrationDTO, error)
}

type service struct {
	events    eventRepository
	bulletins bulletinRepository
}

func NewService(eventsRepo eventRepository, bulletinsRepo bulletinRepository) (Service, error) {
	if eventsRepo == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if bulletinsRepo == nil {
		return nil, fmt.Errorf("bulletin repository required")
	}
	return &service{events: eventsRepo, bulletins: bulletinsRepo}, nil
}

func (s *service) MyEvents(ctx context.Context, ownerID string) ([]events.EventDTO, error) {
	rows, err := s.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner events")
	}
	return events.FromRows(rows), nil
}

// EventRegistrations answers 403 for both a missing event and a foreign one
// so ids of other owners cannot be discovered.
func (s *service) EventRegistrations(ctx context.Context, ownerID, eventID string) ([]events.RegistrationDTO, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		err = repo.Translate(err, "", "load event")
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		event = nil
	}
	if event == nil || event.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Event not found or access denied")
	}
	rows, err := s.events.ListRegistrations(ctx, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registrations")
	}
	return events.RegistrationsFromModels(rows), nil
}

func (s *service) MyBulletins(ctx context.Context, ownerID string) ([]bulletins.BulletinDTO, error) {
	rows, err := s.bulletins.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owner bulletins")
	}
	return bulletins.FromRows(rows), nil
}

func (s *service) BulletinRegistrations(ctx context.Context, ownerID, bulletinID string) ([]bulletins.RegistrationDTO, error) {
	bulletin, err := s.bulletins.FindByID(ctx, bulletinID)
	if err != nil {
		err = repo.Translate(err, "", "load bulletin")
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		bulletin = nil
	}
	if bulletin == nil || bulletin.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Bulletin not found or access denied")
	}
	rows, err := s.bulletins.ListRegistrations(ctx, bulletinID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list registrations")
	}
	return bulletins.RegistrationsFromModels(rows), nil
}
