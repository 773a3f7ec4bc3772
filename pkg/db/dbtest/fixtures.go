package dbtest

import (
	"fmt"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedUser inserts an active user of the given type with a unique email.
func SeedUser(t *testing.T, db *gorm.DB, userType enums.UserType) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s_%s@example.com", userType, uuid.NewString()[:8]),
		PasswordHash: "hash",
		FirstName:    "Test",
		LastName:     "User",
		Type:         userType,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// SeedShop inserts a shop owned by ownerID in the given state.
func SeedShop(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, state enums.ShopState) *models.Shop {
	t.Helper()
	owner := ownerID
	shop := &models.Shop{
		ID:     uuid.New(),
		Name:   name,
		State:  state,
		UserID: &owner,
	}
	require.NoError(t, db.Create(shop).Error)
	return shop
}

// SeedOffer inserts an offer of productName under the shop, creating the product when needed.
func SeedOffer(t *testing.T, db *gorm.DB, shopID uuid.UUID, productName string, price int64, quantity int) *models.ProductInfo {
	t.Helper()
	var product models.Product
	err := db.Where("name = ?", productName).First(&product).Error
	if err != nil {
		require.ErrorIs(t, err, gorm.ErrRecordNotFound)
		product = models.Product{ID: uuid.New(), Name: productName}
		require.NoError(t, db.Create(&product).Error)
	}

	offer := &models.ProductInfo{
		ID:        uuid.New(),
		ProductID: product.ID,
		ShopID:    shopID,
		Price:     price,
		Quantity:  quantity,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(offer).Error)
	offer.Product = product
	return offer
}

// SeedContact inserts a delivery contact for the user.
func SeedContact(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Contact {
	t.Helper()
	contact := &models.Contact{
		ID:     uuid.New(),
		UserID: userID,
		Name:   "Receiving dock",
		City:   "Springfield",
		Street: "Main st",
		House:  "12",
		Phone:  "+15550100",
	}
	require.NoError(t, db.Create(contact).Error)
	return contact
}
