package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/chamber122/chamber122-backend/pkg/db/dbtest"
	"github.com/chamber122/chamber122-backend/pkg/db/models"
	pkgerrors "github.com/chamber122/chamber122-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ctxKey struct{}

func TestBaseDBBindsContext(t *testing.T) {
	db := dbtest.New(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	withCtx := base.DB(ctx)
	require.NotNil(t, withCtx.Statement)
	assert.Equal(t, ctx, withCtx.Statement.Context)

	var nilCtx context.Context
	assert.Same(t, db, base.DB(nilCtx))
}

func TestTransactionRollsBackOnError(t *testing.T) {
	base := NewBase(dbtest.New(t))
	ctx := context.Background()

	err := base.Transaction(ctx, func(tx Base) error {
		require.NoError(t, tx.DB(ctx).Create(&models.User{Email: "a@example.com"}).Error)
		return errors.New("abort")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, base.DB(ctx).Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, base.Transaction(ctx, func(tx Base) error {
		return tx.DB(ctx).Create(&models.User{Email: "b@example.com"}).Error
	}))
	require.NoError(t, base.DB(ctx).Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate(nil, "x", "y"))

	err := Translate(gorm.ErrRecordNotFound, "Business not found", "load business")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Equal(t, "Business not found", pkgerrors.As(err).Message())

	err = Translate(errors.New("disk full"), "Business not found", "load business")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))

	typed := pkgerrors.New(pkgerrors.CodeForbidden, "Not authorized")
	assert.Same(t, typed, Translate(typed, "x", "y"))
}
