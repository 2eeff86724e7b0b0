package events

import (
	"strings"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/chamber122/chamber122-backend/pkg/types"
)

// EventDTO is an event joined with the display fields of its business.
type EventDTO struct {
	ID                string              `json:"id"`
	OwnerID           string              `json:"owner_id"`
	BusinessID        *string             `json:"business_id"`
	Title             string              `json:"title"`
	Description       *string             `json:"description"`
	StartAt           *time.Time          `json:"start_at"`
	EndAt             *time.Time          `json:"end_at"`
	Location          *string             `json:"location"`
	CoverImageURL     *string             `json:"cover_image_url"`
	Status            enums.ContentStatus `json:"status"`
	IsPublished       bool                `json:"is_published"`
	BusinessName      *string             `json:"business_name"`
	BusinessLogoURL   *string             `json:"business_logo_url"`
	RegistrationCount *int64              `json:"registration_count,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// CreateInput is the payload for a new event. starts_at and ends_at are
// accepted as aliases.
type CreateInput struct {
	Title         string               `json:"title"`
	Description   *string              `json:"description"`
	StartAt       *types.Timestamp     `json:"start_at"`
	StartsAt      *types.Timestamp     `json:"starts_at"`
	EndAt         *types.Timestamp     `json:"end_at"`
	EndsAt        *types.Timestamp     `json:"ends_at"`
	Location      *string              `json:"location"`
	CoverImageURL *string              `json:"cover_image_url"`
	Status        *enums.ContentStatus `json:"status"`
	IsPublished   *bool                `json:"is_published"`
	BusinessID    *string              `json:"business_id"`
}

// UpdateInput lists the fields an owner may change.
type UpdateInput struct {
	Title         *string              `json:"title"`
	Description   *string              `json:"description"`
	StartAt       *types.Timestamp     `json:"start_at"`
	EndAt         *types.Timestamp     `json:"end_at"`
	Location      *string              `json:"location"`
	CoverImageURL *string              `json:"cover_image_url"`
	Status        *enums.ContentStatus `json:"status"`
	IsPublished   *bool                `json:"is_published"`
}

// RegistrationInput is a public sign-up for an event.
type RegistrationInput struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone"`
}

// RegistrationDTO is a stored sign-up.
type RegistrationDTO struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// Row is an event read together with its business display fields.
type Row struct {
	models.Event      `gorm:"embedded"`
	BusinessName      *string `gorm:"column:business_name"`
	BusinessLogoURL   *string `gorm:"column:business_logo_url"`
	RegistrationCount *int64  `gorm:"column:registration_count"`
}

// FromRow maps a joined row into a DTO.
func FromRow(r Row) EventDTO {
	return EventDTO{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		BusinessID:        r.BusinessID,
		Title:             r.Title,
		Description:       r.Description,
		StartAt:           r.StartAt,
		EndAt:             r.EndAt,
		Location:          r.Location,
		CoverImageURL:     r.CoverImageURL,
		Status:            r.Status,
		IsPublished:       r.IsPublished,
		BusinessName:      r.BusinessName,
		BusinessLogoURL:   r.BusinessLogoURL,
		RegistrationCount: r.RegistrationCount,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// FromRows maps joined rows into DTOs.
func FromRows(rows []Row) []EventDTO {
	out := make([]EventDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromRow(r))
	}
	return out
}

// RegistrationsFromModels maps registration rows into DTOs.
func RegistrationsFromModels(rows []models.EventRegistration) []RegistrationDTO {
	out := make([]RegistrationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, registrationFromModel(r))
	}
	return out
}

func registrationFromModel(r models.EventRegistration) RegistrationDTO {
	return RegistrationDTO{
		ID:        r.ID,
		EventID:   r.EventID,
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		CreatedAt: r.CreatedAt,
	}
}

func firstTimestamp(values ...*types.Timestamp) *time.Time {
	for _, v := range values {
		if t := v.Ptr(); t != nil {
			return t
		}
	}
	return nil
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
