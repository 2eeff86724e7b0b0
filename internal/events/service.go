package events

import (
	"context"
	"fmt"
	"strings"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const notFoundMessage = "Event not found"

var validate = validator.New()

type eventRepository interface {
	ListPublished(ctx context.Context) ([]Row, error)
	FindRow(ctx context.Context, id string) (*Row, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, e *models.Event) error
	UpdateColumns(ctx context.Context, id string, values map[string]any) error
	Delete(ctx context.Context, id string) error
	CreateRegistration(ctx context.Context, reg *models.EventRegistration) error
}

type businessLookup interface {
	FindByOwner(ctx context.Context, ownerID string) (*models.Business, error)
}

// Service exposes event operations.
type Service interface {
	ListPublished(ctx context.Context) ([]EventDTO, error)
	Get(ctx context.Context, id string) (*EventDTO, error)
	Create(ctx context.Context, ownerID string, input CreateInput) (*EventDTO, error)
	Publish(ctx context.Context, ownerID, id string) (*EventDTO, error)
	Update(ctx context.Context, ownerID, id string, input UpdateInput) (*EventDTO, error)
	Delete(ctx context.Context, actorID string, isAdmin bool, id string) error
	Register(ctx context.Context, id string, input RegistrationInput) (*RegistrationDTO, error)
}

type service struct {
	repo       eventRepository
	businesses businessLookup
}

// NewService builds an event service.
func NewService(events eventRepository, businesses businessLookup) (Service, error) {
	if events == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if businesses == nil {
		return nil, fmt.Errorf("business lookup required")
	}
	return &service{repo: events, businesses: businesses}, nil
}

func (s *service) ListPublished(ctx context.Context) ([]EventDTO, error) {
	rows, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return FromRows(rows), nil
}

func (s *service) Get(ctx context.Context, id string) (*EventDTO, error) {
	row, err := s.repo.FindRow(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load event")
	}
	dto := FromRow(*row)
	return &dto, nil
}

// Create attaches the event to the owner's business unless one is named.
// Status defaults to published and is_published follows the status.
func (s *service) Create(ctx context.Context, ownerID string, input CreateInput) (*EventDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Title is required")
	}
	status := enums.ContentStatusPublished
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		status = *input.Status
	}
	isPublished := status == enums.ContentStatusPublished
	if input.IsPublished != nil {
		isPublished = *input.IsPublished
	}

	businessID, err := s.businessFor(ctx, ownerID, trimmed(input.BusinessID))
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		OwnerID:       ownerID,
		BusinessID:    businessID,
		Title:         title,
		Description:   trimmed(input.Description),
		StartAt:       firstTimestamp(input.StartAt, input.StartsAt),
		EndAt:         firstTimestamp(input.EndAt, input.EndsAt),
		Location:      trimmed(input.Location),
		CoverImageURL: trimmed(input.CoverImageURL),
		Status:        status,
		IsPublished:   isPublished,
	}
	if event.StartAt != nil && event.EndAt != nil && event.EndAt.Before(*event.StartAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_at must not be before start_at")
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return s.Get(ctx, event.ID)
}

func (s *service) Publish(ctx context.Context, ownerID, id string) (*EventDTO, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateColumns(ctx, id, map[string]any{
		"status":       enums.ContentStatusPublished,
		"is_published": true,
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish event")
	}
	return s.Get(ctx, id)
}

func (s *service) Update(ctx context.Context, ownerID, id string, input UpdateInput) (*EventDTO, error) {
	if _, err := s.owned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	values := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Title is required")
		}
		values["title"] = title
	}
	if input.Description != nil {
		values["description"] = trimmed(input.Description)
	}
	if input.StartAt != nil {
		values["start_at"] = input.StartAt.Ptr()
	}
	if input.EndAt != nil {
		values["end_at"] = input.EndAt.Ptr()
	}
	if input.Location != nil {
		values["location"] = trimmed(input.Location)
	}
	if input.CoverImageURL != nil {
		values["cover_image_url"] = trimmed(input.CoverImageURL)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		values["status"] = *input.Status
	}
	if input.IsPublished != nil {
		values["is_published"] = *input.IsPublished
	}
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No valid fields to update")
	}
	if err := s.repo.UpdateColumns(ctx, id, values); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repo.Translate(err, notFoundMessage, "load event")
	}
	if !isAdmin && event.OwnerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	return nil
}

// Register signs a visitor up for a published event.
func (s *service) Register(ctx context.Context, id string, input RegistrationInput) (*RegistrationDTO, error) {
	name, email := strings.TrimSpace(input.Name), strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name and email are required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, "Event not found or not available for registration", "load event")
	}
	if event.Status != enums.ContentStatusPublished || !event.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Event not found or not available for registration")
	}
	reg := &models.EventRegistration{
		EventID: event.ID,
		Name:    name,
		Email:   email,
		Phone:   trimmed(input.Phone),
	}
	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create registration")
	}
	dto := registrationFromModel(*reg)
	return &dto, nil
}

func (s *service) owned(ctx context.Context, ownerID, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load event")
	}
	if event.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	}
	return event, nil
}

// businessFor resolves the business an event is filed under. A named business
// must belong to the owner.
func (s *service) businessFor(ctx context.Context, ownerID string, requested *string) (*string, error) {
	b, err := s.businesses.FindByOwner(ctx, ownerID)
	if err != nil {
		err = repo.Translate(err, "No business profile found", "load business")
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		b = nil
	}
	switch {
	case requested == nil && b == nil:
		return nil, nil
	case requested == nil:
		return &b.ID, nil
	case b != nil && *requested == b.ID:
		return requested, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	}
}
