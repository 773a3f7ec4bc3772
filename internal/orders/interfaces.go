package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for baskets, orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBasket(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	CreateBasket(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	FindOffers(ctx context.Context, ids []uuid.UUID) ([]models.ProductInfo, error)
	CreateItems(ctx context.Context, items []models.OrderItem) error
	IncrementItemQuantity(ctx context.Context, itemID uuid.UUID, delta int) error
	SetItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (int64, error)
	DeleteItems(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	FreezeItem(ctx context.Context, itemID uuid.UUID, productName string, price int64) error
	MarkConfirmed(ctx context.Context, orderID, contactID uuid.UUID, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Order, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type contactFinder interface {
	FindForUser(ctx context.Context, userID, contactID uuid.UUID) (*models.Contact, error)
}

type shopFinder interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Shop, error)
}
