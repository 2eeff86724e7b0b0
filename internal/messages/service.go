package messages

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chamber122/chamber122-backend/internal/repo"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
)

const notFoundMessage = "Conversation not found"

type messageRepository interface {
	ListForUser(ctx context.Context, userID string) ([]summaryRow, error)
	FindForParticipant(ctx context.Context, id, userID string) (*models.Conversation, error)
	FindPair(ctx context.Context, a, b string) (*models.Conversation, error)
	CreateConversation(ctx context.Context, a, b string) (*models.Conversation, error)
	ReadThread(ctx context.Context, conversationID, readerID string) ([]models.Message, error)
	AppendMessage(ctx context.Context, m *models.Message, at time.Time) error
	UserExists(ctx context.Context, id string) (bool, error)
	Participants(ctx context.Context, ids []string) (map[string]Participant, error)
}

// Service exposes direct messaging between users.
type Service interface {
	ListConversations(ctx context.Context, userID string) ([]ConversationDTO, error)
	GetConversation(ctx context.Context, userID, id string) (*Thread, error)
	StartConversation(ctx context.Context, userID, otherID string) (*ConversationDTO, error)
	Send(ctx context.Context, userID string, input SendInput) (*MessageDTO, error)
}

type service struct {
	repo messageRepository
	now  func() time.Time
}

func NewService(messages messageRepository) (Service, error) {
	if messages == nil {
		return nil, fmt.Errorf("message repository required")
	}
	return &service{repo: messages, now: time.Now}, nil
}

func (s *service) ListConversations(ctx context.Context, userID string) ([]ConversationDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}
	others := make([]string, 0, len(rows))
	for _, row := range rows {
		others = append(others, row.OtherParticipant(userID))
	}
	participants, err := s.repo.Participants(ctx, others)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load participants")
	}
	out := make([]ConversationDTO, 0, len(rows))
	for _, row := range rows {
		dto := conversationFromModel(row.Conversation, userID)
		dto.LastMessage = row.LastMessage
		dto.UnreadCount = row.UnreadCount
		dto.OtherParticipant = participants[dto.OtherParticipantID]
		out = append(out, dto)
	}
	return out, nil
}

// GetConversation returns the thread and marks the other side's messages as
// read.
func (s *service) GetConversation(ctx context.Context, userID, id string) (*Thread, error) {
	conv, err := s.repo.FindForParticipant(ctx, id, userID)
	if err != nil {
		return nil, repo.Translate(err, notFoundMessage, "load conversation")
	}
	rows, err := s.repo.ReadThread(ctx, conv.ID, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read messages")
	}
	dto, err := s.withParticipant(ctx, *conv, userID)
	if err != nil {
		return nil, err
	}
	return &Thread{Conversation: dto, Messages: messagesFromModels(rows)}, nil
}

// StartConversation returns the existing conversation of the pair or creates
// it. The pair is unordered.
func (s *service) StartConversation(ctx context.Context, userID, otherID string) (*ConversationDTO, error) {
	otherID = strings.TrimSpace(otherID)
	if otherID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "other_user_id is required")
	}
	if otherID == userID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cannot create conversation with yourself")
	}
	conv, err := s.findOrCreate(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	dto, err := s.withParticipant(ctx, *conv, userID)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func (s *service) Send(ctx context.Context, userID string, input SendInput) (*MessageDTO, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" || (input.ConversationID == "" && input.RecipientID == "") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "conversation_id and content are required")
	}
	var conv *models.Conversation
	var err error
	if input.ConversationID != "" {
		conv, err = s.repo.FindForParticipant(ctx, input.ConversationID, userID)
		if err != nil {
			return nil, repo.Translate(err, notFoundMessage, "load conversation")
		}
	} else {
		if input.RecipientID == userID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Cannot create conversation with yourself")
		}
		conv, err = s.findOrCreate(ctx, userID, input.RecipientID)
		if err != nil {
			return nil, err
		}
	}
	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       userID,
		Content:        content,
	}
	if err := s.repo.AppendMessage(ctx, msg, s.now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send message")
	}
	dto := messageFromModel(*msg)
	return &dto, nil
}

func (s *service) findOrCreate(ctx context.Context, userID, otherID string) (*models.Conversation, error) {
	conv, err := s.repo.FindPair(ctx, userID, otherID)
	if err == nil {
		return conv, nil
	}
	if err = repo.Translate(err, notFoundMessage, "load conversation"); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}
	exists, err := s.repo.UserExists(ctx, otherID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}
	conv, err = s.repo.CreateConversation(ctx, userID, otherID)
	if err != nil {
		// a concurrent start of the same pair won the unique index
		if existing, findErr := s.repo.FindPair(ctx, userID, otherID); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create conversation")
	}
	return conv, nil
}

func (s *service) withParticipant(ctx context.Context, conv models.Conversation, viewerID string) (ConversationDTO, error) {
	dto := conversationFromModel(conv, viewerID)
	participants, err := s.repo.Participants(ctx, []string{dto.OtherParticipantID})
	if err != nil {
		return ConversationDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load participant")
	}
	dto.OtherParticipant = participants[dto.OtherParticipantID]
	return dto, nil
}
