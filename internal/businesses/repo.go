package businesses

import (
	"context"
	"fmt"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"gorm.io/gorm"
)

// publicRow is a business joined with its media count.
type publicRow struct {
	models.Business `gorm:"embedded"`
	MediaCount      int64 `gorm:"column:media_count"`
}

// Repository handles business and media persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to business operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListPublic returns active listings that are approved or awaiting review.
func (r *Repository) ListPublic(ctx context.Context) ([]publicRow, error) {
	var rows []publicRow
	err := r.DB(ctx).
		Model(&models.Business{}).
		Select("businesses.*, (SELECT COUNT(*) FROM business_media WHERE business_media.business_id = businesses.id) AS media_count").
		Where("businesses.is_active = ? AND businesses.status IN ?", true, []enums.AccountStatus{enums.AccountStatusApproved, enums.AccountStatusPending}).
		Order("businesses.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListAll returns every listing, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Business, error) {
	var rows []models.Business
	err := r.DB(ctx).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// FindByID loads a business by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Business, error) {
	var b models.Business
	if err := r.DB(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// FindByOwner loads the business owned by ownerID.
func (r *Repository) FindByOwner(ctx context.Context, ownerID string) (*models.Business, error) {
	var b models.Business
	if err := r.DB(ctx).Where("owner_id = ?", ownerID).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a new business.
func (r *Repository) Create(ctx context.Context, b *models.Business) error {
	if b == nil {
		return fmt.Errorf("business is required")
	}
	return r.DB(ctx).Create(b).Error
}

// Save persists every column of b.
func (r *Repository) Save(ctx context.Context, b *models.Business) error {
	if b == nil {
		return fmt.Errorf("business is required")
	}
	return r.DB(ctx).Save(b).Error
}

// UpdateColumns writes only the given columns.
func (r *Repository) UpdateColumns(ctx context.Context, id string, values map[string]any) error {
	return r.DB(ctx).Model(&models.Business{}).Where("id = ?", id).Updates(values).Error
}

// ListMedia returns media for a business, newest first.
func (r *Repository) ListMedia(ctx context.Context, businessID string) ([]models.BusinessMedia, error) {
	var rows []models.BusinessMedia
	err := r.DB(ctx).
		Where("business_id = ?", businessID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CreateMedia inserts media rows.
func (r *Repository) CreateMedia(ctx context.Context, media ...*models.BusinessMedia) error {
	if len(media) == 0 {
		return nil
	}
	return r.DB(ctx).Create(media).Error
}

// ReplaceDocument removes older media of the same document type before
// inserting the new one.
func (r *Repository) ReplaceDocument(ctx context.Context, media *models.BusinessMedia) error {
	return r.Transaction(ctx, func(tx repo.Base) error {
		if media.DocumentType != nil {
			if err := tx.DB(ctx).
				Where("business_id = ? AND document_type = ?", media.BusinessID, *media.DocumentType).
				Delete(&models.BusinessMedia{}).Error; err != nil {
				return err
			}
		}
		return tx.DB(ctx).Create(media).Error
	})
}

// FindMedia loads a media row scoped to its business.
func (r *Repository) FindMedia(ctx context.Context, businessID, mediaID string) (*models.BusinessMedia, error) {
	var m models.BusinessMedia
	if err := r.DB(ctx).
		Where("id = ? AND business_id = ?", mediaID, businessID).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMedia removes a single media row.
func (r *Repository) DeleteMedia(ctx context.Context, mediaID string) error {
	return r.DB(ctx).Where("id = ?", mediaID).Delete(&models.BusinessMedia{}).Error
}

// DeleteWithMedia removes the business and its media.
func (r *Repository) DeleteWithMedia(ctx context.Context, businessID string) error {
	return r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		if err := db.Where("business_id = ?", businessID).Delete(&models.BusinessMedia{}).Error; err != nil {
			return err
		}
		return db.Where("id = ?", businessID).Delete(&models.Business{}).Error
	})
}

// DeleteAccount removes the business, its owner and everything either of
// them produced, in dependency order, inside one transaction.
func (r *Repository) DeleteAccount(ctx context.Context, b *models.Business) (DeleteCounts, error) {
	var counts DeleteCounts
	ownerID, businessID := b.OwnerID, b.ID
	err := r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		events := db.Model(&models.Event{}).Select("id").Where("owner_id = ? OR business_id = ?", ownerID, businessID)
		bulletins := db.Model(&models.Bulletin{}).Select("id").Where("owner_id = ? OR business_id = ?", ownerID, businessID)
		conversations := db.Model(&models.Conversation{}).Select("id").Where("participant1_id = ? OR participant2_id = ?", ownerID, ownerID)

		steps := []struct {
			count *int64
			run   func() *gorm.DB
		}{
			{&counts.EventRegistrations, func() *gorm.DB {
				return db.Where("event_id IN (?)", events).Delete(&models.EventRegistration{})
			}},
			{&counts.BulletinRegistrations, func() *gorm.DB {
				return db.Where("bulletin_id IN (?)", bulletins).Delete(&models.BulletinRegistration{})
			}},
			{&counts.Events, func() *gorm.DB {
				return db.Where("owner_id = ? OR business_id = ?", ownerID, businessID).Delete(&models.Event{})
			}},
			{&counts.Bulletins, func() *gorm.DB {
				return db.Where("owner_id = ? OR business_id = ?", ownerID, businessID).Delete(&models.Bulletin{})
			}},
			{&counts.Messages, func() *gorm.DB {
				return db.Where("sender_id = ? OR conversation_id IN (?)", ownerID, conversations).Delete(&models.Message{})
			}},
			{&counts.Conversations, func() *gorm.DB {
				return db.Where("participant1_id = ? OR participant2_id = ?", ownerID, ownerID).Delete(&models.Conversation{})
			}},
			{&counts.Media, func() *gorm.DB {
				return db.Where("business_id = ?", businessID).Delete(&models.BusinessMedia{})
			}},
			{&counts.Business, func() *gorm.DB {
				return db.Where("id = ?", businessID).Delete(&models.Business{})
			}},
			{&counts.User, func() *gorm.DB {
				return db.Where("id = ?", ownerID).Delete(&models.User{})
			}},
		}
		for _, step := range steps {
			res := step.run()
			if res.Error != nil {
				return res.Error
			}
			*step.count = res.RowsAffected
		}
		return nil
	})
	return counts, err
}
