package bulletins

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

const notFoundMessage = "Bulletin not found"

var validate = validator.New()

type bulletinRepository interface {
	ListPublished(ctx context.Context) ([]Row, error)
	FindRow(ctx context.Context, id string) (*Row, error)
	FindByID(ctx context.Context, id string) (*models.Bulletin, error)
	Create(ctx context.Context, b *models.Bulletin) error
	UpdateColumns(ctx context.Context, id string, values map[string]any) error
	Delete(ctx context.Context, id string) error
	CreateRegistration(ctx context.Context, reg *models.BulletinRegistration) error
}

type businessLookup interface {
	FindByOwner(ctx context.Context, ownerID string) (*models.Business, error)
}

// Service exposes bulletin board operations.
type Service interface {
	ListPublished(ctx context.Context) ([]BulletinDTO, error)
	Get(ctx context.Context, id string) (*BulletinDTO, error)
	Create(ctx context.Context, ownerID string, input Input) (*BulletinDTO, error)
	Update(ctx context.Context, ownerID, id string, input Input) (*BulletinDTO, error)
	Delete(ctx context.Context, actorID string, isAdmin bool, id string) error
	Register(ctx context.Context, id string, input RegistrationInput) (*RegistrationDTO, error)
}

type service struct {
	repo       bulletinRepository
	businesses businessLookup
}

func NewService(bulletins bulletinRepository, businesses businessLookup) (Service, error) {
	if bulletins == nil {
		return nil, fmt.Errorf("bulletin repository required")
	}
	if businesses == nil {
		return nil, fmt.Errorf("business lookup required")
	}
	return &service{repo: bulletins, businesses: businesses}, nil
}

func (s *service) ListPublished(ctx context.Context) ([]BulletinDTO, error) {
	rows, err := s.repo.ListPublished(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bulletins")
	}
	return FromRows(rows), nil
}

func (s *service) Get(ctx context.Context, id string) (*BulletinDTO, error) {
	row, err := s.repo.FindRow(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load bulletin")
	}
	dto := FromRow(*row)
	return &dto, nil
}

// Create files the bulletin under the owner's business, which must exist.
func (s *service) Create(ctx context.Context, ownerID string, input Input) (*BulletinDTO, error) {
	title := trimmed(input.Title)
	if title == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	business, err := s.businesses.FindByOwner(ctx, ownerID)
	if err != nil {
		err = repo.Translate(err, "No business profile found", "load business")
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "No business profile found")
		}
		return nil, err
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
	content := trimmed(input.Content)
	body := trimmed(input.Body)
	if content == nil {
		content = body
	}
	if body == nil {
		body = content
	}

	bulletin := &models.Bulletin{
		OwnerID:     ownerID,
		BusinessID:  &business.ID,
		Title:       *title,
		Content:     content,
		Body:        body,
		Category:    trimmed(input.Category),
		ImageURL:    trimmed(input.ImageURL),
		URL:         trimmed(input.URL),
		StartAt:     input.StartAt.Ptr(),
		EndAt:       input.EndAt.Ptr(),
		Status:      status,
		IsPublished: isPublished,
		IsPinned:    input.IsPinned != nil && *input.IsPinned,
	}
	if bulletin.StartAt != nil && bulletin.EndAt != nil && bulletin.EndAt.Before(*bulletin.StartAt) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end_at must not be before start_at")
	}
	if err := s.repo.Create(ctx, bulletin); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create bulletin")
	}
	return s.Get(ctx, bulletin.ID)
}

func (s *service) Update(ctx context.Context, ownerID, id string, input Input) (*BulletinDTO, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load bulletin")
	}
	if existing.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	}

	values := map[string]any{}
	if input.Title != nil {
		title := trimmed(input.Title)
		if title == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
		}
		values["title"] = *title
	}
	optional := map[string]*string{
		"content":   input.Content,
		"body":      input.Body,
		"category":  input.Category,
		"image_url": input.ImageURL,
		"url":       input.URL,
	}
	for column, v := range optional {
		if v != nil {
			values[column] = trimmed(v)
		}
	}
	if input.StartAt != nil {
		values["start_at"] = input.StartAt.Ptr()
	}
	if input.EndAt != nil {
		values["end_at"] = input.EndAt.Ptr()
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
	if input.IsPinned != nil {
		values["is_pinned"] = *input.IsPinned
	}
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No valid fields to update")
	}
	if err := s.repo.UpdateColumns(ctx, id, values); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update bulletin")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, actorID string, isAdmin bool, id string) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repo.Translate(err, notFoundMessage, "load bulletin")
	}
	if !isAdmin && existing.OwnerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete bulletin")
	}
	return nil
}

func (s *service) Register(ctx context.Context, id string, input RegistrationInput) (*RegistrationDTO, error) {
	name, email := strings.TrimSpace(input.Name), strings.TrimSpace(input.Email)
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Name and email are required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	const unavailable = "Bulletin not found or not available for registration"
	bulletin, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, unavailable, "load bulletin")
	}
	if bulletin.Status != enums.ContentStatusPublished || !bulletin.IsPublished {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, unavailable)
	}
	reg := &models.BulletinRegistration{
		BulletinID: bulletin.ID,
		Name:       name,
		Email:      email,
		Phone:      trimmed(input.Phone),
	}
	if err := s.repo.CreateRegistration(ctx, reg); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create registration")
	}
	dto := registrationFromModel(*reg)
	return &dto, nil
}
