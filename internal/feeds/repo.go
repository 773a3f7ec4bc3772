package feeds

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
)

// Repository writes a shop's catalog. It is meant to be bound to a transaction.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var nameConflict = clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}

func (r *Repository) UpsertCategory(ctx context.Context, name string) (uuid.UUID, error) {
	row := models.Category{ID: uuid.New(), Name: name}
	if err := r.db.WithContext(ctx).Clauses(nameConflict).Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return r.idByName(ctx, &models.Category{}, name)
}

// UpsertProduct finds or creates the product by name. A non-nil categoryID overwrites its category.
func (r *Repository) UpsertProduct(ctx context.Context, name string, categoryID *uuid.UUID) (uuid.UUID, error) {
	row := models.Product{ID: uuid.New(), Name: name, CategoryID: categoryID}
	onConflict := nameConflict
	if categoryID != nil {
		onConflict = clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"category_id"}),
		}
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(onConflict).Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return r.idByName(ctx, &models.Product{}, name)
}

func (r *Repository) UpsertParameter(ctx context.Context, name string) (uuid.UUID, error) {
	row := models.Parameter{ID: uuid.New(), Name: name}
	if err := r.db.WithContext(ctx).Clauses(nameConflict).Create(&row).Error; err != nil {
		return uuid.Nil, err
	}
	return r.idByName(ctx, &models.Parameter{}, name)
}

func (r *Repository) idByName(ctx context.Context, model any, name string) (uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).Model(model).Where("name = ?", name).Limit(1).Pluck("id", &ids).Error; err != nil {
		return uuid.Nil, err
	}
	if len(ids) == 0 {
		return uuid.Nil, gorm.ErrRecordNotFound
	}
	return ids[0], nil
}

// ClearShopOffers detaches order items from the shop's offers, then deletes the offers and their parameters.
func (r *Repository) ClearShopOffers(ctx context.Context, shopID uuid.UUID) error {
	db := r.db.WithContext(ctx)
	offers := db.Model(&models.ProductInfo{}).Select("id").Where("shop_id = ?", shopID)

	if err := db.Model(&models.OrderItem{}).
		Where("product_info_id IN (?)", offers).
		Update("product_info_id", nil).Error; err != nil {
		return err
	}
	if err := db.Where("product_info_id IN (?)", offers).
		Delete(&models.ProductParameter{}).Error; err != nil {
		return err
	}
	return db.Where("shop_id = ?", shopID).Delete(&models.ProductInfo{}).Error
}

func (r *Repository) CreateOffer(ctx context.Context, offer *models.ProductInfo) error {
	if offer.ID == uuid.Nil {
		offer.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(offer).Error
}

func (r *Repository) CreateParameters(ctx context.Context, rows []models.ProductParameter) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&rows).Error
}

// ReattachBasketItems points detached basket items of the shop at the shop's current offer of
// the same product and refreshes their price. Items of confirmed orders are left alone.
func (r *Repository) ReattachBasketItems(ctx context.Context, shopID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
UPDATE order_items
SET product_info_id = (
      SELECT pi.id FROM product_infos pi
      WHERE pi.shop_id = order_items.shop_id AND pi.product_id = order_items.product_id
    ),
    price = (
      SELECT pi.price FROM product_infos pi
      WHERE pi.shop_id = order_items.shop_id AND pi.product_id = order_items.product_id
    )
WHERE order_items.shop_id = ?
  AND order_items.product_info_id IS NULL
  AND order_items.order_id IN (SELECT id FROM orders WHERE state = ?)
  AND EXISTS (
      SELECT 1 FROM product_infos pi
      WHERE pi.shop_id = order_items.shop_id AND pi.product_id = order_items.product_id
    )`, shopID, enums.OrderStateBasket)
	return res.RowsAffected, res.Error
}
