package dashboard

import (
	"context"
	"testing"

	"github.com/chamber122/chamber122-backend/internal/bulletins"
	"github.com/chamber122/chamber122-backend/internal/events"
	"github.com/chamber122/chamber122-backend/pkg/db/dbtest"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardListsOwnContentWithCounts(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	owner := models.User{Email: "owner@example.com"}
	other := models.User{Email: "other@example.com"}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&other).Error)

	draft := models.Event{OwnerID: owner.ID, Title: "Draft", Status: enums.ContentStatusDraft}
	live := models.Event{OwnerID: owner.ID, Title: "Live", Status: enums.ContentStatusPublished, IsPublished: true}
	foreign := models.Event{OwnerID: other.ID, Title: "Foreign", Status: enums.ContentStatusPublished, IsPublished: true}
	require.NoError(t, db.Create(&draft).Error)
	require.NoError(t, db.Create(&live).Error)
	require.NoError(t, db.Create(&foreign).Error)
	require.NoError(t, db.Create(&[]models.EventRegistration{
		{EventID: live.ID, Name: "A", Email: "a@example.com"},
		{EventID: live.ID, Name: "B", Email: "b@example.com"},
	}).Error)

	note := models.Bulletin{OwnerID: owner.ID, Title: "Note", Status: enums.ContentStatusPublished, IsPublished: true}
	require.NoError(t, db.Create(&note).Error)
	require.NoError(t, db.Create(&models.BulletinRegistration{BulletinID: note.ID, Name: "C", Email: "c@example.com"}).Error)

	svc, err := NewService(events.NewRepository(db), bulletins.NewRepository(db))
	require.NoError(t, err)

	mine, err := svc.MyEvents(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	counts := map[string]int64{}
	for _, e := range mine {
		counts[e.Title] = *e.RegistrationCount
	}
	assert.Equal(t, map[string]int64{"Draft": 0, "Live": 2}, counts)

	regs, err := svc.EventRegistrations(ctx, owner.ID, live.ID)
	require.NoError(t, err)
	assert.Len(t, regs, 2)

	_, err = svc.EventRegistrations(ctx, owner.ID, foreign.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
	_, err = svc.EventRegistrations(ctx, owner.ID, "missing")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	notes, err := svc.MyBulletins(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.EqualValues(t, 1, *notes[0].RegistrationCount)

	bregs, err := svc.BulletinRegistrations(ctx, owner.ID, note.ID)
	require.NoError(t, err)
	assert.Len(t, bregs, 1)
	_, err = svc.BulletinRegistrations(ctx, other.ID, note.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestNewServiceRequiresRepos(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.Error(t, err)
}
