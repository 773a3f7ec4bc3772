package orders

import (
	"context"
	"time"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
	// lockRows is only supported by the postgres dialect.
	lockRows bool
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	repo := &repository{db: db}
	if db != nil && db.Dialector != nil && db.Dialector.Name() == "postgres" {
		repo.lockRows = true
	}
	return repo
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx, lockRows: r.lockRows}
}

func (r *repository) locked(q *gorm.DB) *gorm.DB {
	if r.lockRows {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func (r *repository) FindBasket(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.locked(r.db.WithContext(ctx)).
		Where("user_id = ? AND state = ?", userID, enums.OrderStateBasket).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateBasket inserts the basket unless the user already has one. Callers re-read with FindBasket.
func (r *repository) CreateBasket(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.State = enums.OrderStateBasket
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(order).Error
}

func (r *repository) FindOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.locked(r.db.WithContext(ctx)).First(&order, "id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListItems returns the order's items with their live offers, oldest first.
func (r *repository) ListItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Preload("ProductInfo.Product").
		Preload("ProductInfo.Shop").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *repository) FindOffers(ctx context.Context, ids []uuid.UUID) ([]models.ProductInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var offers []models.ProductInfo
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Shop").
		Where("id IN ?", ids).
		Find(&offers).Error
	return offers, err
}

func (r *repository) CreateItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func (r *repository) IncrementItemQuantity(ctx context.Context, itemID uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

// SetItemQuantity returns zero when the item is not part of the order.
func (r *repository) SetItemQuantity(ctx context.Context, orderID, itemID uuid.UUID, quantity int) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ? AND order_id = ?", itemID, orderID).
		Update("quantity", quantity)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteItems(ctx context.Context, orderID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("order_id = ? AND id IN ?", orderID, itemIDs).
		Delete(&models.OrderItem{})
	return res.RowsAffected, res.Error
}

// FreezeItem overwrites the item's snapshot with the offer's current values.
func (r *repository) FreezeItem(ctx context.Context, itemID uuid.UUID, productName string, price int64) error {
	return r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Where("id = ?", itemID).
		Updates(map[string]any{"product_name": productName, "price": price}).Error
}

// MarkConfirmed moves a basket to new. Zero rows means the order left the basket state meanwhile.
func (r *repository) MarkConfirmed(ctx context.Context, orderID, contactID uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND state = ?", orderID, enums.OrderStateBasket).
		Updates(map[string]any{
			"state":        enums.OrderStateNew,
			"contact_id":   contactID,
			"confirmed_at": at,
		})
	return res.RowsAffected, res.Error
}

// ListByUser returns the user's placed orders, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var list []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC").Order("id ASC")
		}).
		Preload("Contact").
		Where("user_id = ? AND state <> ?", userID, enums.OrderStateBasket).
		Order("confirmed_at DESC").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// ListByShop returns placed orders holding at least one of the shop's items. Only that shop's items are loaded.
func (r *repository) ListByShop(ctx context.Context, shopID uuid.UUID) ([]models.Order, error) {
	touching := r.db.Model(&models.OrderItem{}).Select("order_id").Where("shop_id = ?", shopID)

	var list []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Where("shop_id = ?", shopID).Order("created_at ASC").Order("id ASC")
		}).
		Preload("Contact").
		Where("state <> ? AND id IN (?)", enums.OrderStateBasket, touching).
		Order("confirmed_at DESC").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}
