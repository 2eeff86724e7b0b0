package adminsync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteBusinessFoldsAliases(t *testing.T) {
	raw := `{
		"id": 42,
		"user_id": "u9",
		"owner": {"email": "owner@example.org", "full_name": "Noura", "phone": "999"},
		"business_name": "Spice Route",
		"category": "food",
		"short_description": "Kitchen",
		"is_active": "true",
		"created_at": "2024-06-01 10:00:00"
	}`
	var b RemoteBusiness
	require.NoError(t, json.Unmarshal([]byte(raw), &b))

	assert.Equal(t, "42", b.ID)
	assert.Equal(t, "u9", b.OwnerID)
	assert.Equal(t, "owner@example.org", b.OwnerEmail)
	assert.Equal(t, "Noura", b.OwnerName)
	assert.Equal(t, "999", b.OwnerPhone)
	assert.Equal(t, "Spice Route", b.Name)
	assert.Equal(t, "food", b.Industry)
	assert.Equal(t, "Kitchen", b.Description)
	require.NotNil(t, b.IsActive)
	assert.True(t, *b.IsActive)
	assert.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC), b.CreatedAt)
}

func TestRemoteBusinessPrefersPrimaryFields(t *testing.T) {
	raw := `{"id":"b1","owner_id":"u1","owner_user_id":"u2","name":"Primary","legal_name":"Legal","is_active":0}`
	var b RemoteBusiness
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, "u1", b.OwnerID)
	assert.Equal(t, "Primary", b.Name)
	require.NotNil(t, b.IsActive)
	assert.False(t, *b.IsActive)
}

func TestRemoteBusinessWithoutIsActive(t *testing.T) {
	var b RemoteBusiness
	require.NoError(t, json.Unmarshal([]byte(`{"id":"b1"}`), &b))
	assert.Nil(t, b.IsActive)
	assert.Equal(t, "Business b1", b.DisplayName())
}

func TestRemoteMediaAliases(t *testing.T) {
	raw := `{"id":"m1","kind":"license","path":"/uploads/l.pdf","name":"l.pdf","size":"2048","created_at":"1717236000000"}`
	var m RemoteMedia
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	assert.Equal(t, "license", m.Type)
	assert.Equal(t, "/uploads/l.pdf", m.URL)
	assert.Equal(t, "l.pdf", m.FileName)
	assert.Equal(t, int64(2048), m.FileSize)
	assert.Equal(t, time.UnixMilli(1717236000000).UTC(), m.UploadedAt)
}

func TestRemoteUserUnwrapsEnvelope(t *testing.T) {
	var wrapped RemoteUser
	require.NoError(t, json.Unmarshal([]byte(`{"ok":true,"user":{"email":" a@example.org ","name":"A"}}`), &wrapped))
	assert.Equal(t, "a@example.org", wrapped.Email)
	assert.Equal(t, "A", wrapped.Name)

	var nullUser RemoteUser
	require.NoError(t, json.Unmarshal([]byte(`{"user":null,"email":"b@example.org"}`), &nullUser))
	assert.Equal(t, "b@example.org", nullUser.Email)
}

func TestFlexStringIgnoresObjects(t *testing.T) {
	var s struct {
		V flexString `json:"v"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"v":{"nested":true}}`), &s))
	assert.Equal(t, flexString(""), s.V)
}

func TestPlaceholderEmails(t *testing.T) {
	assert.Equal(t, "business_b1@chamber122.com", PlaceholderEmail("b1", ""))
	assert.True(t, IsPlaceholderEmail("", ""))
	assert.True(t, IsPlaceholderEmail("Business_X@Chamber122.com", ""))
	assert.False(t, IsPlaceholderEmail("owner@example.org", ""))
	assert.True(t, IsRealEmail("owner@example.org", ""))
	assert.True(t, IsPlaceholderEmail("business_1@test.local", "test.local"))
}
