package bulletins

import (
	"context"
	"fmt"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"gorm.io/gorm"
)

const joinedColumns = "bl.*, COALESCE(b.name, b.business_name) AS business_name, b.logo_url AS business_logo_url"

// Repository handles bulletin persistence.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Table("bulletins AS bl").
		Joins("LEFT JOIN businesses b ON b.id = bl.business_id")
}

// ListPublished returns published bulletins, pinned first, then newest.
func (r *Repository) ListPublished(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := r.joined(ctx).
		Select(joinedColumns).
		Where("bl.is_published = ? AND bl.status = ?", true, enums.ContentStatusPublished).
		Order("bl.is_pinned DESC").
		Order("bl.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListByOwner returns all bulletins of ownerID with registration counts.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Row, error) {
	var rows []Row
	err := r.joined(ctx).
		Select(joinedColumns+", (SELECT COUNT(*) FROM bulletin_registrations br WHERE br.bulletin_id = bl.id) AS registration_count").
		Where("bl.owner_id = ?", ownerID).
		Order("bl.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// FindRow loads one joined bulletin including the business description.
func (r *Repository) FindRow(ctx context.Context, id string) (*Row, error) {
	var rows []Row
	if err := r.joined(ctx).
		Select(joinedColumns+", b.description AS business_description").
		Where("bl.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*models.Bulletin, error) {
	var b models.Bulletin
	if err := r.DB(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) Create(ctx context.Context, b *models.Bulletin) error {
	if b == nil {
		return fmt.Errorf("bulletin is required")
	}
	return r.DB(ctx).Create(b).Error
}

func (r *Repository) UpdateColumns(ctx context.Context, id string, values map[string]any) error {
	return r.DB(ctx).Model(&models.Bulletin{}).Where("id = ?", id).Updates(values).Error
}

// Delete removes the bulletin and its registrations.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		if err := db.Where("bulletin_id = ?", id).Delete(&models.BulletinRegistration{}).Error; err != nil {
			return err
		}
		return db.Where("id = ?", id).Delete(&models.Bulletin{}).Error
	})
}

func (r *Repository) CreateRegistration(ctx context.Context, reg *models.BulletinRegistration) error {
	return r.DB(ctx).Create(reg).Error
}

func (r *Repository) ListRegistrations(ctx context.Context, bulletinID string) ([]models.BulletinRegistration, error) {
	var rows []models.BulletinRegistration
	err := r.DB(ctx).Where("bulletin_id = ?", bulletinID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
