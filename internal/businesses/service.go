package businesses

import (
	"context"
	"fmt"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
)

const notFoundMessage = "Business not found"

type businessRepository interface {
	ListPublic(ctx context.Context) ([]publicRow, error)
	ListAll(ctx context.Context) ([]models.Business, error)
	FindByID(ctx context.Context, id string) (*models.Business, error)
	FindByOwner(ctx context.Context, ownerID string) (*models.Business, error)
	Create(ctx context.Context, b *models.Business) error
	Save(ctx context.Context, b *models.Business) error
	UpdateColumns(ctx context.Context, id string, values map[string]any) error
	ListMedia(ctx context.Context, businessID string) ([]models.BusinessMedia, error)
	CreateMedia(ctx context.Context, media ...*models.BusinessMedia) error
	ReplaceDocument(ctx context.Context, media *models.BusinessMedia) error
	FindMedia(ctx context.Context, businessID, mediaID string) (*models.BusinessMedia, error)
	DeleteMedia(ctx context.Context, mediaID string) error
	DeleteWithMedia(ctx context.Context, businessID string) error
	DeleteAccount(ctx context.Context, b *models.Business) (DeleteCounts, error)
}

// Service exposes directory listing operations.
type Service interface {
	ListPublic(ctx context.Context) ([]BusinessDTO, error)
	ListAll(ctx context.Context) ([]BusinessDTO, error)
	Get(ctx context.Context, id string) (*Detail, error)
	GetMine(ctx context.Context, ownerID string) (*Detail, error)
	UpsertMine(ctx context.Context, ownerID string, input ProfileInput) (*Detail, error)
	UpdateOwned(ctx context.Context, ownerID, id string, input ProfileInput) (*Detail, error)
	AdminUpdateStatus(ctx context.Context, id string, input AdminUpdateInput) (*BusinessDTO, error)
	AdminDelete(ctx context.Context, id string) (*DeleteResult, error)
	DeleteOwned(ctx context.Context, actorID string, isAdmin bool, id string) error
	AddMedia(ctx context.Context, ownerID, id string, input MediaInput) (*MediaDTO, error)
	DeleteMedia(ctx context.Context, ownerID, id, mediaID string) error
}

type service struct {
	repo businessRepository
}

// NewService builds a business service with the provided repository.
func NewService(repo businessRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("business repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPublic(ctx context.Context) ([]BusinessDTO, error) {
	rows, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list public businesses")
	}
	out := make([]BusinessDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i].Business)
		count := rows[i].MediaCount
		dto.MediaCount = &count
		out = append(out, *dto)
	}
	return out, nil
}

func (s *service) ListAll(ctx context.Context) ([]BusinessDTO, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list businesses")
	}
	out := make([]BusinessDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id string) (*Detail, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load business")
	}
	return s.detail(ctx, b)
}

// GetMine returns an empty detail when the owner has not created a listing.
func (s *service) GetMine(ctx context.Context, ownerID string) (*Detail, error) {
	b, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		err = repo.Translate(err, notFoundMessage, "load business")
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return &Detail{Media: []MediaDTO{}}, nil
		}
		return nil, err
	}
	return s.detail(ctx, b)
}

func (s *service) UpsertMine(ctx context.Context, ownerID string, input ProfileInput) (*Detail, error) {
	if ownerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Not authenticated")
	}
	b, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		err = repo.Translate(err, notFoundMessage, "load business")
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
		b = &models.Business{
			OwnerID:  ownerID,
			IsActive: true,
			Status:   enums.AccountStatusPending,
		}
		input.apply(b)
		if err := s.repo.Create(ctx, b); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create business")
		}
	} else {
		input.apply(b)
		if err := s.repo.Save(ctx, b); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update business")
		}
	}
	if err := s.addGallery(ctx, b.ID, input); err != nil {
		return nil, err
	}
	return s.detail(ctx, b)
}

func (s *service) UpdateOwned(ctx context.Context, ownerID, id string, input ProfileInput) (*Detail, error) {
	b, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if !input.apply(b) && len(input.galleryURLs()) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No updates provided")
	}
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update business")
	}
	if err := s.addGallery(ctx, b.ID, input); err != nil {
		return nil, err
	}
	return s.detail(ctx, b)
}

func (s *service) AdminUpdateStatus(ctx context.Context, id string, input AdminUpdateInput) (*BusinessDTO, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load business")
	}
	values := map[string]any{}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		values["status"] = *input.Status
	}
	if input.IsActive != nil {
		values["is_active"] = *input.IsActive
	}
	if len(values) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No updates provided")
	}
	if err := s.repo.UpdateColumns(ctx, b.ID, values); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update business status")
	}
	updated, err := s.repo.FindByID(ctx, b.ID)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "reload business")
	}
	return FromModel(updated), nil
}

func (s *service) AdminDelete(ctx context.Context, id string) (*DeleteResult, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load business")
	}
	counts, err := s.repo.DeleteAccount(ctx, b)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete account")
	}
	return &DeleteResult{DeletedID: b.ID, OwnerID: b.OwnerID, Deleted: counts}, nil
}

func (s *service) DeleteOwned(ctx context.Context, actorID string, isAdmin bool, id string) error {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repo.Translate(err, notFoundMessage, "load business")
	}
	if !isAdmin && b.OwnerID != actorID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	}
	if err := s.repo.DeleteWithMedia(ctx, b.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete business")
	}
	return nil
}

// AddMedia records metadata for a file stored elsewhere. Document types
// replace any earlier file of the same type.
func (s *service) AddMedia(ctx context.Context, ownerID, id string, input MediaInput) (*MediaDTO, error) {
	b, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	url := clean(&input.PublicURL)
	if url == nil || isBlobURL(*url) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "public_url is required")
	}
	media := &models.BusinessMedia{
		BusinessID:   b.ID,
		PublicURL:    *url,
		FileType:     clean(input.FileType),
		DocumentType: clean(input.DocumentType),
	}
	if media.DocumentType != nil && *media.DocumentType != "gallery" {
		err = s.repo.ReplaceDocument(ctx, media)
	} else {
		err = s.repo.CreateMedia(ctx, media)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save media")
	}
	out := MediaFromModels([]models.BusinessMedia{*media})
	return &out[0], nil
}

func (s *service) DeleteMedia(ctx context.Context, ownerID, id, mediaID string) error {
	b, err := s.owned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if _, err := s.repo.FindMedia(ctx, b.ID, mediaID); err != nil {
		return repo.Translate(err, "Media not found", "load media")
	}
	if err := s.repo.DeleteMedia(ctx, mediaID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media")
	}
	return nil
}

func (s *service) owned(ctx context.Context, ownerID, id string) (*models.Business, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load business")
	}
	if b.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	}
	return b, nil
}

func (s *service) addGallery(ctx context.Context, businessID string, input ProfileInput) error {
	urls := input.galleryURLs()
	if len(urls) == 0 {
		return nil
	}
	fileType, docType := "image", "gallery"
	media := make([]*models.BusinessMedia, 0, len(urls))
	for _, url := range urls {
		media = append(media, &models.BusinessMedia{
			BusinessID:   businessID,
			PublicURL:    url,
			FileType:     &fileType,
			DocumentType: &docType,
		})
	}
	if err := s.repo.CreateMedia(ctx, media...); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save gallery")
	}
	return nil
}

func (s *service) detail(ctx context.Context, b *models.Business) (*Detail, error) {
	media, err := s.repo.ListMedia(ctx, b.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}
	return &Detail{Business: FromModel(b), Media: MediaFromModels(media)}, nil
}
