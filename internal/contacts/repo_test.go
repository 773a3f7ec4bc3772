package contacts

import (
	"context"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/dbtest"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRepositoryScopesByUser(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := dbtest.SeedUser(t, db, enums.UserTypeBuyer)
	other := dbtest.SeedUser(t, db, enums.UserTypeBuyer)
	mine := dbtest.SeedContact(t, db, owner.ID)
	theirs := dbtest.SeedContact(t, db, other.ID)

	list, err := repo.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = repo.FindForUser(ctx, owner.ID, theirs.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	affected, err := repo.UpdateForUser(ctx, owner.ID, theirs.ID, map[string]any{"city": "Elsewhere"})
	require.NoError(t, err)
	assert.Zero(t, affected)

	deleted, err := repo.DeleteForUser(ctx, owner.ID, []uuid.UUID{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var remaining int64
	require.NoError(t, db.Model(&models.Contact{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestServiceCreateUpdateDelete(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	user := dbtest.SeedUser(t, db, enums.UserTypeBuyer)

	created, err := svc.Create(ctx, user.ID, CreateContactInput{
		Name:   " Warehouse ",
		City:   "Springfield",
		Street: "Industrial rd",
		House:  "4",
		Phone:  "+15550199",
	})
	require.NoError(t, err)
	assert.Equal(t, "Warehouse", created.Name)

	city := "Shelbyville"
	updated, err := svc.Update(ctx, user.ID, UpdateContactInput{ID: created.ID, City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Shelbyville", updated.City)
	assert.Equal(t, "Industrial rd", updated.Street)

	_, err = svc.Update(ctx, user.ID, UpdateContactInput{ID: uuid.New(), City: &city})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.Update(ctx, user.ID, UpdateContactInput{ID: created.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	deleted, err := svc.Delete(ctx, user.ID, []uuid.UUID{created.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	list, err := svc.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
