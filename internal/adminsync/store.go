package adminsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/chamber122/chamber122-backend/pkg/kvstore"
)

// LocalStore persists the admin view as JSON documents in a key-value store.
type LocalStore struct {
	kv kvstore.Store
}

// NewLocalStore wraps kv.
func NewLocalStore(kv kvstore.Store) (*LocalStore, error) {
	if kv == nil {
		return nil, errors.New("kv store required")
	}
	return &LocalStore{kv: kv}, nil
}

func (s *LocalStore) LoadUsers(ctx context.Context) ([]User, error) {
	users := []User{}
	if _, err := kvstore.GetJSON(ctx, s.kv, KeyUsers, &users); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (s *LocalStore) SaveUsers(ctx context.Context, users []User) error {
	if users == nil {
		users = []User{}
	}
	return kvstore.SetJSON(ctx, s.kv, KeyUsers, users)
}

func (s *LocalStore) LoadDocuments(ctx context.Context) ([]Document, error) {
	docs := []Document{}
	if _, err := kvstore.GetJSON(ctx, s.kv, KeyDocuments, &docs); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	return docs, nil
}

func (s *LocalStore) SaveDocuments(ctx context.Context, docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	return kvstore.SetJSON(ctx, s.kv, KeyDocuments, docs)
}

// LoadAdminState returns the override store, empty when it was never written.
func (s *LocalStore) LoadAdminState(ctx context.Context) (*AdminState, error) {
	state := NewAdminState()
	if _, err := kvstore.GetJSON(ctx, s.kv, KeyAdminState, state); err != nil {
		return nil, fmt.Errorf("load admin state: %w", err)
	}
	state.init()
	return state, nil
}

func (s *LocalStore) SaveAdminState(ctx context.Context, state *AdminState) error {
	if state == nil {
		state = NewAdminState()
	}
	state.init()
	return kvstore.SetJSON(ctx, s.kv, KeyAdminState, state)
}

func (s *LocalStore) LoadInbox(ctx context.Context) ([]InboxMessage, error) {
	return s.loadMessages(ctx, KeyInboxMessages)
}

func (s *LocalStore) LoadAdminMessages(ctx context.Context) ([]InboxMessage, error) {
	return s.loadMessages(ctx, KeyAdminMessages)
}

// AppendMessage writes msg to both the owner inbox and the admin outbox.
func (s *LocalStore) AppendMessage(ctx context.Context, msg InboxMessage) error {
	for _, key := range []string{KeyInboxMessages, KeyAdminMessages} {
		msgs, err := s.loadMessages(ctx, key)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
		if err := kvstore.SetJSON(ctx, s.kv, key, msgs); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}

// RemoveMessagesFor drops every message addressed to userID from both lists.
func (s *LocalStore) RemoveMessagesFor(ctx context.Context, userID string) (int, error) {
	removed := 0
	for _, key := range []string{KeyInboxMessages, KeyAdminMessages} {
		msgs, err := s.loadMessages(ctx, key)
		if err != nil {
			return removed, err
		}
		kept := msgs[:0]
		for _, msg := range msgs {
			if msg.ToUserID == userID || msg.UserID == userID {
				removed++
				continue
			}
			kept = append(kept, msg)
		}
		if err := kvstore.SetJSON(ctx, s.kv, key, kept); err != nil {
			return removed, fmt.Errorf("save %s: %w", key, err)
		}
	}
	return removed, nil
}

func (s *LocalStore) loadMessages(ctx context.Context, key string) ([]InboxMessage, error) {
	msgs := []InboxMessage{}
	if _, err := kvstore.GetJSON(ctx, s.kv, key, &msgs); err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return msgs, nil
}
