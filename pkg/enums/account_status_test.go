package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountStatusNormalizes(t *testing.T) {
	got, err := ParseAccountStatus("  Needs_Fix ")
	require.NoError(t, err)
	assert.Equal(t, AccountStatusNeedsFix, got)

	_, err = ParseAccountStatus("archived")
	require.Error(t, err)
}

func TestAccountStatusPriorityOrdersReviewQueue(t *testing.T) {
	assert.Equal(t, AccountStatusPending.Priority(), AccountStatusSuspended.Priority())
	assert.Equal(t, AccountStatusRejected.Priority(), AccountStatusNeedsFix.Priority())
	assert.Less(t, AccountStatusNeedsFix.Priority(), AccountStatusUpdated.Priority())
	assert.Less(t, AccountStatusUpdated.Priority(), AccountStatusApproved.Priority())
	assert.Less(t, AccountStatusApproved.Priority(), AccountStatus("unknown").Priority())
}

func TestDocumentKindTaxonomy(t *testing.T) {
	kinds := DocumentKinds()
	require.Len(t, kinds, 7)
	for _, kind := range kinds {
		assert.True(t, kind.IsValid(), kind)
		assert.NotEqual(t, kind.String(), kind.Label())
	}
	assert.False(t, DocumentKind("gallery").IsValid())
	assert.Equal(t, "gallery", DocumentKind("gallery").Label())
}

func TestContentStatus(t *testing.T) {
	_, err := ParseContentStatus("archived")
	require.Error(t, err)
	s, err := ParseContentStatus("draft")
	require.NoError(t, err)
	assert.Equal(t, ContentStatusDraft, s)
}
