// Package adminsync reconciles business and owner state between the backend
// API, the admin dashboard override store and the local admin view.
package adminsync

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
)

// Storage keys shared with the admin dashboard.
const (
	KeyUsers         = "chamber122_users"
	KeyDocuments     = "chamber122_documents"
	KeyAdminState    = "chamber_admin_dashboard_state"
	KeyAdminMessages = "chamber122_admin_messages"
	KeyInboxMessages = "ch122_inbox_messages"
)

// User is an owner record in the merged admin view.
type User struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	Name         string              `json:"name"`
	Phone        string              `json:"phone"`
	BusinessName string              `json:"business_name"`
	Industry     string              `json:"industry"`
	City         string              `json:"city"`
	Country      string              `json:"country"`
	Status       enums.AccountStatus `json:"status"`
	BusinessID   string              `json:"business_id,omitempty"`
	Description  string              `json:"description,omitempty"`
	WhatsApp     string              `json:"whatsapp,omitempty"`
	Website      string              `json:"website,omitempty"`
	LogoURL      string              `json:"logo_url,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Document is a compliance document in the merged admin view.
type Document struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	BusinessID string             `json:"business_id,omitempty"`
	Kind       enums.DocumentKind `json:"kind"`
	FileURL    string             `json:"file_url"`
	FileName   string             `json:"file_name"`
	FileSize   int64              `json:"file_size,omitempty"`
	UploadedAt time.Time          `json:"uploaded_at"`
}

// UserMeta carries admin bookkeeping timestamps in epoch milliseconds.
type UserMeta struct {
	LastStatusUpdate   int64 `json:"lastStatusUpdate,omitempty"`
	DocumentsUpdatedAt int64 `json:"documentsUpdatedAt,omitempty"`
	NeedsFixAt         int64 `json:"needsFixAt,omitempty"`
}

// AdminState is the admin dashboard override store.
type AdminState struct {
	UserStatuses map[string]enums.AccountStatus `json:"userStatuses"`
	UserMetadata map[string]UserMeta            `json:"userMetadata"`
}

// MessageAction is an in-app call to action attached to an owner message.
type MessageAction struct {
	Type        string `json:"type"`
	DocType     string `json:"docType,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// InboxMessage is a note from the admin to an owner. The same record is
// written to the owner inbox and the admin outbox.
type InboxMessage struct {
	ID           string         `json:"id"`
	From         string         `json:"from"`
	ToUserID     string         `json:"toUserId"`
	UserID       string         `json:"user_id"`
	Subject      string         `json:"subject"`
	Body         string         `json:"body"`
	Message      string         `json:"message"`
	CreatedAt    time.Time      `json:"created_at"`
	Unread       bool           `json:"unread"`
	Status       string         `json:"status"`
	DocumentType string         `json:"document_type,omitempty"`
	Action       *MessageAction `json:"action,omitempty"`
}

// RemoteUser is the subset of the backend user record used to enrich owners.
type RemoteUser struct {
	Email string
	Name  string
	Phone string
}

// UnmarshalJSON accepts either {"user": {...}} or the bare user object.
func (u *RemoteUser) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.User) > 0 && !bytes.Equal(wrapper.User, []byte("null")) {
		data = wrapper.User
	}
	var raw struct {
		Email       flexString `json:"email"`
		Name        flexString `json:"name"`
		FullName    flexString `json:"full_name"`
		DisplayName flexString `json:"display_name"`
		Phone       flexString `json:"phone"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.Email = strings.TrimSpace(string(raw.Email))
	u.Name = firstNonEmpty(string(raw.Name), string(raw.FullName), string(raw.DisplayName))
	u.Phone = strings.TrimSpace(string(raw.Phone))
	return nil
}

// RemoteBusiness is a business listing as returned by the backend. Decoding
// folds the field aliases different endpoints use.
type RemoteBusiness struct {
	ID          string
	OwnerID     string
	OwnerEmail  string
	OwnerName   string
	OwnerPhone  string
	Name        string
	Status      string
	IsActive    *bool
	Industry    string
	City        string
	Country     string
	Phone       string
	WhatsApp    string
	Website     string
	LogoURL     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type remoteOwner struct {
	Email    flexString `json:"email"`
	Name     flexString `json:"name"`
	FullName flexString `json:"full_name"`
	Phone    flexString `json:"phone"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *RemoteBusiness) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID               flexString   `json:"id"`
		OwnerID          flexString   `json:"owner_id"`
		OwnerUserID      flexString   `json:"owner_user_id"`
		UserID           flexString   `json:"user_id"`
		OwnerEmail       flexString   `json:"owner_email"`
		Email            flexString   `json:"email"`
		OwnerName        flexString   `json:"owner_name"`
		Owner            *remoteOwner `json:"owner"`
		Name             flexString   `json:"name"`
		BusinessName     flexString   `json:"business_name"`
		DisplayName      flexString   `json:"display_name"`
		LegalName        flexString   `json:"legal_name"`
		Status           flexString   `json:"status"`
		IsActive         *flexBool    `json:"is_active"`
		Industry         flexString   `json:"industry"`
		Category         flexString   `json:"category"`
		City             flexString   `json:"city"`
		Country          flexString   `json:"country"`
		Phone            flexString   `json:"phone"`
		WhatsApp         flexString   `json:"whatsapp"`
		Website          flexString   `json:"website"`
		LogoURL          flexString   `json:"logo_url"`
		Description      flexString   `json:"description"`
		ShortDescription flexString   `json:"short_description"`
		CreatedAt        flexString   `json:"created_at"`
		UpdatedAt        flexString   `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	owner := remoteOwner{}
	if raw.Owner != nil {
		owner = *raw.Owner
	}

	*b = RemoteBusiness{
		ID:          strings.TrimSpace(string(raw.ID)),
		OwnerID:     firstNonEmpty(string(raw.OwnerID), string(raw.OwnerUserID), string(raw.UserID)),
		OwnerEmail:  firstNonEmpty(string(raw.OwnerEmail), string(raw.Email), string(owner.Email)),
		OwnerName:   firstNonEmpty(string(raw.OwnerName), string(owner.Name), string(owner.FullName)),
		OwnerPhone:  firstNonEmpty(string(raw.Phone), string(raw.WhatsApp), string(owner.Phone)),
		Name:        firstNonEmpty(string(raw.Name), string(raw.BusinessName), string(raw.DisplayName), string(raw.LegalName)),
		Status:      strings.TrimSpace(string(raw.Status)),
		Industry:    firstNonEmpty(string(raw.Industry), string(raw.Category)),
		City:        strings.TrimSpace(string(raw.City)),
		Country:     strings.TrimSpace(string(raw.Country)),
		Phone:       strings.TrimSpace(string(raw.Phone)),
		WhatsApp:    strings.TrimSpace(string(raw.WhatsApp)),
		Website:     strings.TrimSpace(string(raw.Website)),
		LogoURL:     strings.TrimSpace(string(raw.LogoURL)),
		Description: firstNonEmpty(string(raw.Description), string(raw.ShortDescription)),
		CreatedAt:   parseTimestamp(string(raw.CreatedAt)),
		UpdatedAt:   parseTimestamp(string(raw.UpdatedAt)),
	}
	if raw.IsActive != nil {
		active := bool(*raw.IsActive)
		b.IsActive = &active
	}
	return nil
}

// DisplayName returns the listing name, falling back to a generated label.
func (b RemoteBusiness) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return "Business " + b.ID
}

// RemoteMedia is a media row attached to a business.
type RemoteMedia struct {
	ID         string
	BusinessID string
	Type       string
	URL        string
	FileName   string
	FileSize   int64
	UploadedAt time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *RemoteMedia) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           flexString `json:"id"`
		BusinessID   flexString `json:"business_id"`
		DocumentType flexString `json:"document_type"`
		Type         flexString `json:"type"`
		Kind         flexString `json:"kind"`
		PublicURL    flexString `json:"public_url"`
		URL          flexString `json:"url"`
		FileURL      flexString `json:"file_url"`
		Path         flexString `json:"path"`
		FileName     flexString `json:"file_name"`
		Name         flexString `json:"name"`
		FileSize     flexString `json:"file_size"`
		Size         flexString `json:"size"`
		UploadedAt   flexString `json:"uploaded_at"`
		CreatedAt    flexString `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	size, _ := strconv.ParseInt(firstNonEmpty(string(raw.FileSize), string(raw.Size)), 10, 64)
	*m = RemoteMedia{
		ID:         strings.TrimSpace(string(raw.ID)),
		BusinessID: strings.TrimSpace(string(raw.BusinessID)),
		Type:       firstNonEmpty(string(raw.DocumentType), string(raw.Type), string(raw.Kind)),
		URL:        firstNonEmpty(string(raw.PublicURL), string(raw.URL), string(raw.FileURL), string(raw.Path)),
		FileName:   firstNonEmpty(string(raw.FileName), string(raw.Name)),
		FileSize:   size,
		UploadedAt: parseTimestamp(firstNonEmpty(string(raw.UploadedAt), string(raw.CreatedAt))),
	}
	return nil
}

// RemoteContent is an event or bulletin as listed by the backend.
type RemoteContent struct {
	ID         string
	OwnerID    string
	BusinessID string
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *RemoteContent) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         flexString `json:"id"`
		OwnerID    flexString `json:"owner_id"`
		BusinessID flexString `json:"business_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = strings.TrimSpace(string(raw.ID))
	c.OwnerID = strings.TrimSpace(string(raw.OwnerID))
	c.BusinessID = strings.TrimSpace(string(raw.BusinessID))
	return nil
}

// DeletionResult counts rows removed by the backend delete cascade.
type DeletionResult struct {
	Events        int `json:"events"`
	Bulletins     int `json:"bulletins"`
	Messages      int `json:"messages"`
	Conversations int `json:"conversations"`
	Media         int `json:"media"`
	Business      int `json:"business"`
	User          int `json:"user"`
}

// flexString decodes strings, numbers and booleans into their string form.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		*s = ""
		return nil
	}
	*s = flexString(data)
	return nil
}

// flexBool decodes true/false, "true"/"false" and 1/0.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTimestamp(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
