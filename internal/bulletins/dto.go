package bulletins

import (
	"strings"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/chamber122/chamber122-backend/pkg/types"
)

// BulletinDTO is a bulletin joined with the display fields of its business.
type BulletinDTO struct {
	ID                  string              `json:"id"`
	OwnerID             string              `json:"owner_id"`
	BusinessID          *string             `json:"business_id"`
	Title               string              `json:"title"`
	Content             *string             `json:"content"`
	Body                *string             `json:"body"`
	Category            *string             `json:"category"`
	ImageURL            *string             `json:"image_url"`
	URL                 *string             `json:"url"`
	StartAt             *time.Time          `json:"start_at"`
	EndAt               *time.Time          `json:"end_at"`
	Status              enums.ContentStatus `json:"status"`
	IsPublished         bool                `json:"is_published"`
	IsPinned            bool                `json:"is_pinned"`
	BusinessName        *string             `json:"business_name"`
	BusinessLogoURL     *string             `json:"business_logo_url"`
	BusinessDescription *string             `json:"business_description,omitempty"`
	RegistrationCount   *int64              `json:"registration_count,omitempty"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// Input is the payload for creating or editing a bulletin. On update only
// non-nil fields are written.
type Input struct {
	Title       *string              `json:"title"`
	Content     *string              `json:"content"`
	Body        *string              `json:"body"`
	Category    *string              `json:"category"`
	ImageURL    *string              `json:"image_url"`
	URL         *string              `json:"url"`
	StartAt     *types.Timestamp     `json:"start_at"`
	EndAt       *types.Timestamp     `json:"end_at"`
	Status      *enums.ContentStatus `json:"status"`
	IsPublished *bool                `json:"is_published"`
	IsPinned    *bool                `json:"is_pinned"`
}

// RegistrationInput is a public response to a bulletin.
type RegistrationInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// RegistrationDTO is a stored response.
type RegistrationDTO struct {
	ID         string    `json:"id"`
	BulletinID string    `json:"bulletin_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      *string   `json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
}

// Row is a bulletin read together with its business display fields.
type Row struct {
	models.Bulletin     `gorm:"embedded"`
	BusinessName        *string `gorm:"column:business_name"`
	BusinessLogoURL     *string `gorm:"column:business_logo_url"`
	BusinessDescription *string `gorm:"column:business_description"`
	RegistrationCount   *int64  `gorm:"column:registration_count"`
}

func FromRow(r Row) BulletinDTO {
	return BulletinDTO{
		ID:                  r.ID,
		OwnerID:             r.OwnerID,
		BusinessID:          r.BusinessID,
		Title:               r.Title,
		Content:             r.Content,
		Body:                r.Body,
		Category:            r.Category,
		ImageURL:            r.ImageURL,
		URL:                 r.URL,
		StartAt:             r.StartAt,
		EndAt:               r.EndAt,
		Status:              r.Status,
		IsPublished:         r.IsPublished,
		IsPinned:            r.IsPinned,
		BusinessName:        r.BusinessName,
		BusinessLogoURL:     r.BusinessLogoURL,
		BusinessDescription: r.BusinessDescription,
		RegistrationCount:   r.RegistrationCount,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

func FromRows(rows []Row) []BulletinDTO {
	out := make([]BulletinDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRow(r))
	}
	return out
}

func RegistrationsFromModels(rows []models.BulletinRegistration) []RegistrationDTO {
	out := make([]RegistrationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, registrationFromModel(r))
	}
	return out
}

func registrationFromModel(r models.BulletinRegistration) RegistrationDTO {
	return RegistrationDTO{
		ID:         r.ID,
		BulletinID: r.BulletinID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		CreatedAt:  r.CreatedAt,
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
