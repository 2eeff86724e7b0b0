package events

import (
	"context"
	"testing"
	"time"

	"github.com/chamber122/chamber122-backend/internal/businesses"
	"github.com/chamber122/chamber122-backend/pkg/db/dbtest"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	"github.com/chamber122/chamber122-backend/pkg/enums"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
	"github.com/chamber122/chamber122-backend/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(v string) *string { return &v }

type fixture struct {
	svc      Service
	repo     *Repository
	db       *gorm.DB
	owner    models.User
	business models.Business
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := dbtest.New(t)
	owner := models.User{Email: "owner@example.com"}
	require.NoError(t, db.Create(&owner).Error)
	business := models.Business{OwnerID: owner.ID, Name: strPtr("Blue Cafe"), LogoURL: strPtr("https://cdn.example.com/logo.png"), Status: enums.AccountStatusApproved, IsActive: true}
	require.NoError(t, db.Create(&business).Error)

	repo := NewRepository(db)
	svc, err := NewService(repo, businesses.NewRepository(db))
	require.NoError(t, err)
	return fixture{svc: svc, repo: repo, db: db, owner: owner, business: business}
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, code), "expected %s, got %v", code, err)
}

func TestCreateDefaultsToPublishedOwnBusiness(t *testing.T) {
	f := newFixture(t)
	start, err := types.ParseTimestamp("2025-04-01T18:00")
	require.NoError(t, err)

	event, err := f.svc.Create(context.Background(), f.owner.ID, CreateInput{
		Title:    "  Open House ",
		StartsAt: &start,
	})
	require.NoError(t, err)
	assert.Equal(t, "Open House", event.Title)
	assert.Equal(t, enums.ContentStatusPublished, event.Status)
	assert.True(t, event.IsPublished)
	require.NotNil(t, event.BusinessID)
	assert.Equal(t, f.business.ID, *event.BusinessID)
	require.NotNil(t, event.BusinessName)
	assert.Equal(t, "Blue Cafe", *event.BusinessName)
	require.NotNil(t, event.BusinessLogoURL)
	require.NotNil(t, event.StartAt)
	assert.True(t, time.Date(2025, 4, 1, 18, 0, 0, 0, time.UTC).Equal(*event.StartAt))
}

func TestCreateValidates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner.ID, CreateInput{Title: " "})
	assertCode(t, err, pkgerrors.CodeValidation)

	bad := enums.ContentStatus("archived")
	_, err = f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "x", Status: &bad})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "x", BusinessID: strPtr("someone-elses")})
	assertCode(t, err, pkgerrors.CodeForbidden)

	start, _ := types.ParseTimestamp("2025-04-02")
	end, _ := types.ParseTimestamp("2025-04-01")
	_, err = f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "x", StartAt: &start, EndAt: &end})
	assertCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateWithoutBusinessProfile(t *testing.T) {
	f := newFixture(t)
	loner := models.User{Email: "loner@example.com"}
	require.NoError(t, f.db.Create(&loner).Error)

	event, err := f.svc.Create(context.Background(), loner.ID, CreateInput{Title: "Meetup"})
	require.NoError(t, err)
	assert.Nil(t, event.BusinessID)
	assert.Nil(t, event.BusinessName)
}

func TestDraftsStayOutOfPublicListUntilPublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft := enums.ContentStatusDraft

	event, err := f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "Draft", Status: &draft})
	require.NoError(t, err)
	assert.False(t, event.IsPublished)

	list, err := f.svc.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.svc.Publish(ctx, "intruder", event.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	published, err := f.svc.Publish(ctx, f.owner.ID, event.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ContentStatusPublished, published.Status)
	assert.True(t, published.IsPublished)

	list, err = f.svc.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, event.ID, list[0].ID)
}

func TestUpdateOwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "Launch", Location: strPtr("Hall A")})
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, "intruder", event.ID, UpdateInput{Title: strPtr("Hacked")})
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = f.svc.Update(ctx, f.owner.ID, "missing", UpdateInput{Title: strPtr("x")})
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.Update(ctx, f.owner.ID, event.ID, UpdateInput{})
	assertCode(t, err, pkgerrors.CodeValidation)
	assert.Equal(t, "No valid fields to update", pkgerrors.As(err).Message())

	updated, err := f.svc.Update(ctx, f.owner.ID, event.ID, UpdateInput{Title: strPtr("Grand Launch"), Location: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Grand Launch", updated.Title)
	assert.Nil(t, updated.Location)
}

func TestDeleteOwnerOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	event, err := f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "Launch"})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, event.ID, RegistrationInput{Name: "Ali", Email: "ali@example.com"})
	require.NoError(t, err)

	assertCode(t, f.svc.Delete(ctx, "intruder", false, event.ID), pkgerrors.CodeForbidden)
	require.NoError(t, f.svc.Delete(ctx, "admin-1", true, event.ID))
	assertCode(t, f.svc.Delete(ctx, f.owner.ID, false, event.ID), pkgerrors.CodeNotFound)

	regs, err := f.repo.ListRegistrations(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, regs)
}

func TestRegisterRequiresPublishedEvent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	draft := enums.ContentStatusDraft
	hidden, err := f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "Hidden", Status: &draft})
	require.NoError(t, err)
	open, err := f.svc.Create(ctx, f.owner.ID, CreateInput{Title: "Open"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, open.ID, RegistrationInput{Name: "Ali"})
	assertCode(t, err, pkgerrors.CodeValidation)
	_, err = f.svc.Register(ctx, open.ID, RegistrationInput{Name: "Ali", Email: "not-an-email"})
	assertCode(t, err, pkgerrors.CodeValidation)
	_, err = f.svc.Register(ctx, hidden.ID, RegistrationInput{Name: "Ali", Email: "ali@example.com"})
	assertCode(t, err, pkgerrors.CodeNotFound)

	reg, err := f.svc.Register(ctx, open.ID, RegistrationInput{Name: " Ali ", Email: "ali@example.com", Phone: strPtr("+965")})
	require.NoError(t, err)
	assert.Equal(t, "Ali", reg.Name)
	assert.Equal(t, open.ID, reg.EventID)

	rows, err := f.repo.ListByOwner(ctx, f.owner.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	counts := map[string]int64{}
	for _, r := range rows {
		require.NotNil(t, r.RegistrationCount)
		counts[r.ID] = *r.RegistrationCount
	}
	assert.EqualValues(t, 1, counts[open.ID])
	assert.EqualValues(t, 0, counts[hidden.ID])
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil)
	assert.Error(t, err)
	_, err = NewService(&Repository{}, nil)
	assert.Error(t, err)
}
