package businesses

import (
	"strings"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
)

const defaultCountry = "Kuwait"

// BusinessDTO is the API shape of a directory listing.
type BusinessDTO struct {
	ID               string              `json:"id"`
	OwnerID          string              `json:"owner_id"`
	Name             *string             `json:"name"`
	BusinessName     *string             `json:"business_name"`
	Description      *string             `json:"description"`
	ShortDescription *string             `json:"short_description"`
	Story            *string             `json:"story"`
	Industry         *string             `json:"industry"`
	Category         *string             `json:"category"`
	Country          *string             `json:"country"`
	City             *string             `json:"city"`
	Area             *string             `json:"area"`
	Block            *string             `json:"block"`
	Street           *string             `json:"street"`
	Floor            *string             `json:"floor"`
	OfficeNo         *string             `json:"office_no"`
	Phone            *string             `json:"phone"`
	WhatsApp         *string             `json:"whatsapp"`
	Website          *string             `json:"website"`
	Instagram        *string             `json:"instagram"`
	LogoURL          *string             `json:"logo_url"`
	IsActive         bool                `json:"is_active"`
	Status           enums.AccountStatus `json:"status"`
	MediaCount       *int64              `json:"media_count,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// MediaDTO is the API shape of a business asset.
type MediaDTO struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	PublicURL    string    `json:"public_url"`
	FileType     *string   `json:"file_type"`
	DocumentType *string   `json:"document_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// Detail pairs a business with its media, newest first.
type Detail struct {
	Business *BusinessDTO `json:"business"`
	Media    []MediaDTO   `json:"media"`
}

// ProfileInput carries owner-editable fields. Nil or blank values leave the
// stored field untouched.
type ProfileInput struct {
	Name             *string  `json:"name"`
	BusinessName     *string  `json:"business_name"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"short_description"`
	Story            *string  `json:"story"`
	Industry         *string  `json:"industry"`
	Category         *string  `json:"category"`
	Country          *string  `json:"country"`
	City             *string  `json:"city"`
	Area             *string  `json:"area"`
	Block            *string  `json:"block"`
	Street           *string  `json:"street"`
	Floor            *string  `json:"floor"`
	OfficeNo         *string  `json:"office_no"`
	Phone            *string  `json:"phone"`
	WhatsApp         *string  `json:"whatsapp"`
	Website          *string  `json:"website"`
	Instagram        *string  `json:"instagram"`
	LogoURL          *string  `json:"logo_url"`
	GalleryURLs      []string `json:"gallery_urls"`
}

// AdminUpdateInput changes moderation fields. At least one must be set.
type AdminUpdateInput struct {
	Status   *enums.AccountStatus `json:"status"`
	IsActive *bool                `json:"is_active"`
}

// MediaInput registers an already uploaded file.
type MediaInput struct {
	PublicURL    string  `json:"public_url" validate:"required"`
	FileType     *string `json:"file_type"`
	DocumentType *string `json:"document_type"`
}

// DeleteCounts reports rows removed by an admin delete.
type DeleteCounts struct {
	EventRegistrations    int64 `json:"event_registrations"`
	BulletinRegistrations int64 `json:"bulletin_registrations"`
	Events                int64 `json:"events"`
	Bulletins             int64 `json:"bulletins"`
	Messages              int64 `json:"messages"`
	Conversations         int64 `json:"conversations"`
	Media                 int64 `json:"media"`
	Business              int64 `json:"business"`
	User                  int64 `json:"user"`
}

// DeleteResult identifies what an admin delete removed.
type DeleteResult struct {
	DeletedID string       `json:"deletedId"`
	OwnerID   string       `json:"ownerId"`
	Deleted   DeleteCounts `json:"deleted"`
}

// FromModel maps the persisted business into a DTO.
func FromModel(m *models.Business) *BusinessDTO {
	if m == nil {
		return nil
	}
	return &BusinessDTO{
		ID:               m.ID,
		OwnerID:          m.OwnerID,
		Name:             m.Name,
		BusinessName:     m.BusinessName,
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
		Story:            m.Story,
		Industry:         m.Industry,
		Category:         m.Category,
		Country:          m.Country,
		City:             m.City,
		Area:             m.Area,
		Block:            m.Block,
		Street:           m.Street,
		Floor:            m.Floor,
		OfficeNo:         m.OfficeNo,
		Phone:            m.Phone,
		WhatsApp:         m.WhatsApp,
		Website:          m.Website,
		Instagram:        m.Instagram,
		LogoURL:          m.LogoURL,
		IsActive:         m.IsActive,
		Status:           m.Status,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// MediaFromModels maps media rows into DTOs.
func MediaFromModels(rows []models.BusinessMedia) []MediaDTO {
	out := make([]MediaDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, MediaDTO{
			ID:           m.ID,
			BusinessID:   m.BusinessID,
			PublicURL:    m.PublicURL,
			FileType:     m.FileType,
			DocumentType: m.DocumentType,
			CreatedAt:    m.CreatedAt,
		})
	}
	return out
}

// apply copies the non-blank input fields onto b. It reports whether any
// field was written.
func (in ProfileInput) apply(b *models.Business) bool {
	name := firstNonBlank(in.Name, in.BusinessName)
	businessName := firstNonBlank(in.BusinessName, in.Name)
	changed := false
	set := func(dst **string, v *string) {
		if v = clean(v); v != nil {
			*dst = v
			changed = true
		}
	}
	set(&b.Name, name)
	set(&b.BusinessName, businessName)
	set(&b.Description, in.Description)
	set(&b.ShortDescription, in.ShortDescription)
	set(&b.Story, in.Story)
	set(&b.Industry, in.Industry)
	set(&b.Category, in.Category)
	set(&b.Country, in.Country)
	set(&b.City, in.City)
	set(&b.Area, in.Area)
	set(&b.Block, in.Block)
	set(&b.Street, in.Street)
	set(&b.Floor, in.Floor)
	set(&b.OfficeNo, in.OfficeNo)
	set(&b.Phone, in.Phone)
	set(&b.WhatsApp, in.WhatsApp)
	set(&b.Website, in.Website)
	set(&b.Instagram, in.Instagram)
	if logo := clean(in.LogoURL); logo != nil && !isBlobURL(*logo) {
		b.LogoURL = logo
		changed = true
	}
	if b.Country == nil {
		country := defaultCountry
		b.Country = &country
	}
	return changed
}

// galleryURLs drops blank and browser-local blob: URLs.
func (in ProfileInput) galleryURLs() []string {
	out := make([]string, 0, len(in.GalleryURLs))
	for _, raw := range in.GalleryURLs {
		url := strings.TrimSpace(raw)
		if url == "" || isBlobURL(url) {
			continue
		}
		out = append(out, url)
	}
	return out
}

func isBlobURL(url string) bool {
	return strings.HasPrefix(url, "blob:")
}

func clean(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func firstNonBlank(values ...*string) *string {
	for _, v := range values {
		if c := clean(v); c != nil {
			return c
		}
	}
	return nil
}
