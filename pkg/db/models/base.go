package models

import "github.com/google/uuid"

// ensureID assigns a random identifier when the caller did not supply one.
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// All lists every model for AutoMigrate in tests and dev bootstrap.
func All() []any {
	return []any{
		&User{},
		&Business{},
		&BusinessMedia{},
		&Event{},
		&EventRegistration{},
		&Bulletin{},
		&BulletinRegistration{},
		&Conversation{},
		&Message{},
		&KVEntry{},
	}
}
