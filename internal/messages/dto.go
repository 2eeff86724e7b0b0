package messages

import (
	"time"

	"github.com/chamber122/chamber122-backend/pkg/db/models"
)

const (
	ParticipantBusiness = "business"
	ParticipantUser     = "user"
)

// Participant describes the other side of a conversation. Owners of a
// listing are shown under their business name.
type Participant struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	LogoURL    *string `json:"logo_url"`
	BusinessID *string `json:"business_id,omitempty"`
	Type       string  `json:"type"`
}

type ConversationDTO struct {
	ID                   string      `json:"id"`
	Participant1ID       string      `json:"participant1_id"`
	Participant2ID       string      `json:"participant2_id"`
	Participant1Type     string      `json:"participant1_type"`
	Participant2Type     string      `json:"participant2_type"`
	OtherParticipantID   string      `json:"other_participant_id"`
	OtherParticipantType string      `json:"other_participant_type"`
	OtherParticipant     Participant `json:"other_participant"`
	LastMessage          *string     `json:"last_message,omitempty"`
	UnreadCount          int64       `json:"unread_count"`
	LastMessageAt        *time.Time  `json:"last_message_at"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

type MessageDTO struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// Thread is a conversation with its messages in send order.
type Thread struct {
	Conversation ConversationDTO `json:"conversation"`
	Messages     []MessageDTO    `json:"messages"`
}

// SendInput targets an existing conversation or, when ConversationID is
// empty, the conversation with RecipientID.
type SendInput struct {
	ConversationID string `json:"conversation_id"`
	RecipientID    string `json:"recipient_id"`
	Content        string `json:"content"`
}

// summaryRow is a conversation with its latest message and unread count for
// one reader.
type summaryRow struct {
	models.Conversation `gorm:"embedded"`
	LastMessage         *string `gorm:"column:last_message"`
	UnreadCount         int64   `gorm:"column:unread_count"`
}

func conversationFromModel(c models.Conversation, viewerID string) ConversationDTO {
	dto := ConversationDTO{
		ID:                 c.ID,
		Participant1ID:     c.Participant1ID,
		Participant2ID:     c.Participant2ID,
		Participant1Type:   c.Participant1Type,
		Participant2Type:   c.Participant2Type,
		OtherParticipantID: c.OtherParticipant(viewerID),
		LastMessageAt:      c.LastMessageAt,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	dto.OtherParticipantType = c.Participant1Type
	if c.Participant1ID == viewerID {
		dto.OtherParticipantType = c.Participant2Type
	}
	return dto
}

func messagesFromModels(rows []models.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, messageFromModel(m))
	}
	return out
}

func messageFromModel(m models.Message) MessageDTO {
	return MessageDTO{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Content:        m.Content,
		IsRead:         m.IsRead,
		CreatedAt:      m.CreatedAt,
	}
}
