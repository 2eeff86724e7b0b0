package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation links two users. Participant IDs are stored in sorted order so
// the pair is unique regardless of who started it.
type Conversation struct {
	ID               string     `gorm:"column:id;primaryKey"`
	Participant1ID   string     `gorm:"column:participant1_id;not null;uniqueIndex:idx_conversation_pair"`
	Participant2ID   string     `gorm:"column:participant2_id;not null;uniqueIndex:idx_conversation_pair"`
	Participant1Type string     `gorm:"column:participant1_type;not null;default:'user'"`
	Participant2Type string     `gorm:"column:participant2_type;not null;default:'user'"`
	LastMessageAt    *time.Time `gorm:"column:last_message_at"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Conversation) TableName() string { return "conversations" }

func (c *Conversation) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

// OtherParticipant returns the participant that is not userID.
func (c Conversation) OtherParticipant(userID string) string {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

// HasParticipant reports whether userID belongs to the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	return c.Participant1ID == userID || c.Participant2ID == userID
}

type Message struct {
	ID             string    `gorm:"column:id;primaryKey"`
	ConversationID string    `gorm:"column:conversation_id;index;not null"`
	SenderID       string    `gorm:"column:sender_id;index;not null"`
	Content        string    `gorm:"column:content;not null"`
	IsRead         bool      `gorm:"column:is_read;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
