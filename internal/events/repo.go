package events

import (
	"context"
	"fmt"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"gorm.io/gorm"
)

const joinedColumns = "e.*, COALESCE(b.name, b.business_name) AS business_name, b.logo_url AS business_logo_url"

// Repository handles event persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a GORM DB to event operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) joined(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Table("events AS e").
		Joins("LEFT JOIN businesses b ON e.business_id = b.id")
}

// ListPublished returns published events, newest first.
func (r *Repository) ListPublished(ctx context.Context) ([]Row, error) {
	var rows []Row
	err := r.joined(ctx).
		Select(joinedColumns).
		Where("e.status = ? AND e.is_published = ?", enums.ContentStatusPublished, true).
		Order("e.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListByOwner returns every event of ownerID, drafts included, with the
// number of registrations each has.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Row, error) {
	var rows []Row
	err := r.joined(ctx).
		Select(joinedColumns+", (SELECT COUNT(*) FROM event_registrations er WHERE er.event_id = e.id) AS registration_count").
		Where("e.owner_id = ?", ownerID).
		Order("e.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// FindRow loads a single joined event. A missing event yields
// gorm.ErrRecordNotFound.
func (r *Repository) FindRow(ctx context.Context, id string) (*Row, error) {
	var rows []Row
	if err := r.joined(ctx).
		Select(joinedColumns).
		Where("e.id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

// FindByID loads the bare event.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	var e models.Event
	if err := r.DB(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	if e == nil {
		return fmt.Errorf("event is required")
	}
	return r.DB(ctx).Create(e).Error
}

// UpdateColumns writes only the given columns.
func (r *Repository) UpdateColumns(ctx context.Context, id string, values map[string]any) error {
	return r.DB(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(values).Error
}

// Delete removes the event and its registrations.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		if err := db.Where("event_id = ?", id).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}
		return db.Where("id = ?", id).Delete(&models.Event{}).Error
	})
}

// CreateRegistration stores a sign-up.
func (r *Repository) CreateRegistration(ctx context.Context, reg *models.EventRegistration) error {
	return r.DB(ctx).Create(reg).Error
}

// ListRegistrations returns sign-ups for an event, newest first.
func (r *Repository) ListRegistrations(ctx context.Context, eventID string) ([]models.EventRegistration, error) {
	var rows []models.EventRegistration
	err := r.DB(ctx).Where("event_id = ?", eventID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
