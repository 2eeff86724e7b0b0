package models

import (
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"gorm.io/gorm"
)

type Event struct {
	ID            string              `gorm:"column:id;primaryKey"`
	OwnerID       string              `gorm:"column:owner_id;index;not null"`
	BusinessID    *string             `gorm:"column:business_id;index"`
	Title         string              `gorm:"column:title;not null"`
	Description   *string             `gorm:"column:description"`
	StartAt       *time.Time          `gorm:"column:start_at"`
	EndAt         *time.Time          `gorm:"column:end_at"`
	Location      *string             `gorm:"column:location"`
	CoverImageURL *string             `gorm:"column:cover_image_url"`
	Status        enums.ContentStatus `gorm:"column:status;not null;default:'draft'"`
	IsPublished   bool                `gorm:"column:is_published;not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Event) TableName() string { return "events" }

func (e *Event) BeforeCreate(*gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

type EventRegistration struct {
	ID        string    `gorm:"column:id;primaryKey"`
	EventID   string    `gorm:"column:event_id;index;not null"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null"`
	Phone     *string   `gorm:"column:phone"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (EventRegistration) TableName() string { return "event_registrations" }

func (r *EventRegistration) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

type Bulletin struct {
	ID          string              `gorm:"column:id;primaryKey"`
	OwnerID     string              `gorm:"column:owner_id;index;not null"`
	BusinessID  *string             `gorm:"column:business_id;index"`
	Title       string              `gorm:"column:title;not null"`
	Content     *string             `gorm:"column:content"`
	Body        *string             `gorm:"column:body"`
	Category    *string             `gorm:"column:category"`
	ImageURL    *string             `gorm:"column:image_url"`
	URL         *string             `gorm:"column:url"`
	StartAt     *time.Time          `gorm:"column:start_at"`
	EndAt       *time.Time          `gorm:"column:end_at"`
	Status      enums.ContentStatus `gorm:"column:status;not null;default:'published'"`
	IsPublished bool                `gorm:"column:is_published;not null"`
	IsPinned    bool                `gorm:"column:is_pinned;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Bulletin) TableName() string { return "bulletins" }

func (b *Bulletin) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

type BulletinRegistration struct {
	ID         string    `gorm:"column:id;primaryKey"`
	BulletinID string    `gorm:"column:bulletin_id;index;not null"`
	Name       string    `gorm:"column:name;not null"`
	Email      string    `gorm:"column:email;not null"`
	Phone      *string   `gorm:"column:phone"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (BulletinRegistration) TableName() string { return "bulletin_registrations" }

func (r *BulletinRegistration) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
