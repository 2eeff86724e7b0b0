package messages

import (
	"context"
	"time"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository handles conversation and message persistence.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListForUser returns the user's conversations, most recently active first.
func (r *Repository) ListForUser(ctx context.Context, userID string) ([]summaryRow, error) {
	var rows []summaryRow
	err := r.DB(ctx).
		Table("conversations AS c").
		Select(`c.*,
			(SELECT m.content FROM messages m WHERE m.conversation_id = c.id ORDER BY m.created_at DESC LIMIT 1) AS last_message,
			(SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id AND m.sender_id <> ? AND m.is_read = ?) AS unread_count`,
			userID, false).
		Where("c.participant1_id = ? OR c.participant2_id = ?", userID, userID).
		Order("CASE WHEN c.last_message_at IS NULL THEN 1 ELSE 0 END, c.last_message_at DESC, c.created_at DESC").
		Scan(&rows).Error
	return rows, err
}

// FindForParticipant loads a conversation only if userID takes part in it.
func (r *Repository) FindForParticipant(ctx context.Context, id, userID string) (*models.Conversation, error) {
	var c models.Conversation
	if err := r.DB(ctx).
		Where("id = ? AND (participant1_id = ? OR participant2_id = ?)", id, userID, userID).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// FindPair loads the conversation between two users in either order.
func (r *Repository) FindPair(ctx context.Context, a, b string) (*models.Conversation, error) {
	p1, p2 := sortedPair(a, b)
	var c models.Conversation
	if err := r.DB(ctx).
		Where("participant1_id = ? AND participant2_id = ?", p1, p2).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateConversation inserts the pair in sorted order.
func (r *Repository) CreateConversation(ctx context.Context, a, b string) (*models.Conversation, error) {
	p1, p2 := sortedPair(a, b)
	c := &models.Conversation{
		Participant1ID:   p1,
		Participant2ID:   p2,
		Participant1Type: ParticipantUser,
		Participant2Type: ParticipantUser,
	}
	if err := r.DB(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// ReadThread returns messages oldest first, then marks the ones addressed to
// readerID as read. The returned rows carry the state before marking.
func (r *Repository) ReadThread(ctx context.Context, conversationID, readerID string) ([]models.Message, error) {
	var rows []models.Message
	err := r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		if err := db.Where("conversation_id = ?", conversationID).
			Order("created_at ASC").
			Find(&rows).Error; err != nil {
			return err
		}
		return db.Model(&models.Message{}).
			Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
			Update("is_read", true).Error
	})
	return rows, err
}

// AppendMessage stores m and bumps the conversation activity time.
func (r *Repository) AppendMessage(ctx context.Context, m *models.Message, at time.Time) error {
	return r.Transaction(ctx, func(tx repo.Base) error {
		db := tx.DB(ctx)
		m.CreatedAt = at
		if err := db.Create(m).Error; err != nil {
			return err
		}
		return db.Model(&models.Conversation{}).
			Where("id = ?", m.ConversationID).
			Updates(map[string]any{"last_message_at": at, "updated_at": at}).Error
	})
}

// UserExists reports whether id names an account.
func (r *Repository) UserExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Participants resolves display data for the given user ids.
func (r *Repository) Participants(ctx context.Context, ids []string) (map[string]Participant, error) {
	out := make(map[string]Participant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []models.User
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		name := u.Email
		if u.Name != nil && *u.Name != "" {
			name = *u.Name
		}
		out[u.ID] = Participant{ID: u.ID, Name: name, Type: ParticipantUser}
	}
	var businesses []models.Business
	if err := r.DB(ctx).Where("owner_id IN ?", ids).Find(&businesses).Error; err != nil {
		return nil, err
	}
	for _, b := range businesses {
		name := "Business"
		switch {
		case b.Name != nil && *b.Name != "":
			name = *b.Name
		case b.BusinessName != nil && *b.BusinessName != "":
			name = *b.BusinessName
		}
		businessID := b.ID
		out[b.OwnerID] = Participant{ID: b.OwnerID, Name: name, LogoURL: b.LogoURL, BusinessID: &businessID, Type: ParticipantBusiness}
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			out[id] = Participant{ID: id, Name: "User", Type: ParticipantUser}
		}
	}
	return out, nil
}

func sortedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}
