package shops

import (
	"context"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/dbtest"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOpenSkipsClosedShops(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	a := dbtest.SeedUser(t, db, enums.UserTypeShop)
	b := dbtest.SeedUser(t, db, enums.UserTypeShop)
	dbtest.SeedShop(t, db, a.ID, "Beta Tools", enums.ShopStateOpen)
	dbtest.SeedShop(t, db, b.ID, "Alpha Parts", enums.ShopStateClosed)

	list, err := svc.ListOpen(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Beta Tools", list[0].Name)
	assert.Equal(t, enums.ShopStateOpen, list[0].State)
}

func TestStateRoundTrip(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	owner := dbtest.SeedUser(t, db, enums.UserTypeShop)
	dbtest.SeedShop(t, db, owner.ID, "Acme", enums.ShopStateOpen)

	got, err := svc.SetState(ctx, owner.ID, enums.ShopStateClosed)
	require.NoError(t, err)
	assert.Equal(t, enums.ShopStateClosed, got.State)

	current, err := svc.GetState(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ShopStateClosed, current.State)

	_, err = svc.SetState(ctx, owner.ID, enums.ShopState("PAUSED"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestStateWithoutShopIsNotFound(t *testing.T) {
	db := dbtest.Open(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.GetState(context.Background(), uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.SetState(context.Background(), uuid.New(), enums.ShopStateOpen)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestAttachCategoriesIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := dbtest.SeedUser(t, db, enums.UserTypeShop)
	shop := dbtest.SeedShop(t, db, owner.ID, "Acme", enums.ShopStateOpen)
	catID := uuid.New()
	require.NoError(t, db.Exec("INSERT INTO categories (id, name) VALUES (?, ?)", catID, "Tools").Error)

	require.NoError(t, repo.AttachCategories(ctx, shop.ID, []uuid.UUID{catID}))
	require.NoError(t, repo.AttachCategories(ctx, shop.ID, []uuid.UUID{catID}))

	ids, err := repo.CategoryIDs(ctx, shop.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{catID}, ids)
}
