package models

import (
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"gorm.io/gorm"
)

// Business is the directory listing owned by exactly one user.
type Business struct {
	ID               string              `gorm:"column:id;primaryKey"`
	OwnerID          string              `gorm:"column:owner_id;uniqueIndex;not null"`
	Name             *string             `gorm:"column:name"`
	BusinessName     *string             `gorm:"column:business_name"`
	Description      *string             `gorm:"column:description"`
	ShortDescription *string             `gorm:"column:short_description"`
	Story            *string             `gorm:"column:story"`
	Industry         *string             `gorm:"column:industry"`
	Category         *string             `gorm:"column:category"`
	Country          *string             `gorm:"column:country"`
	City             *string             `gorm:"column:city"`
	Area             *string             `gorm:"column:area"`
	Block            *string             `gorm:"column:block"`
	Street           *string             `gorm:"column:street"`
	Floor            *string             `gorm:"column:floor"`
	OfficeNo         *string             `gorm:"column:office_no"`
	Phone            *string             `gorm:"column:phone"`
	WhatsApp         *string             `gorm:"column:whatsapp"`
	Website          *string             `gorm:"column:website"`
	Instagram        *string             `gorm:"column:instagram"`
	LogoURL          *string             `gorm:"column:logo_url"`
	IsActive         bool                `gorm:"column:is_active;not null"`
	Status           enums.AccountStatus `gorm:"column:status;not null;default:'pending'"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Business) TableName() string { return "businesses" }

func (b *Business) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// BusinessMedia is an uploaded asset attached to a business. DocumentType is
// empty for gallery images.
type BusinessMedia struct {
	ID           string    `gorm:"column:id;primaryKey"`
	BusinessID   string    `gorm:"column:business_id;index;not null"`
	PublicURL    string    `gorm:"column:public_url;not null"`
	FileType     *string   `gorm:"column:file_type"`
	DocumentType *string   `gorm:"column:document_type"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (BusinessMedia) TableName() string { return "business_media" }

func (m *BusinessMedia) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
