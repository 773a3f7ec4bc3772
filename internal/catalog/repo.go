package catalog

import (
	"context"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository serves the read side of the catalog.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *Repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

// SearchOffers returns offers of OPEN shops matching the filter.
func (r *Repository) SearchOffers(ctx context.Context, filter OfferFilter) ([]models.ProductInfo, error) {
	q := r.db.WithContext(ctx).
		Model(&models.ProductInfo{}).
		Joins("JOIN shops ON shops.id = product_infos.shop_id").
		Joins("JOIN products ON products.id = product_infos.product_id").
		Where("shops.state = ?", enums.ShopStateOpen)

	if len(filter.ShopIDs) > 0 {
		q = q.Where("product_infos.shop_id IN ?", filter.ShopIDs)
	}
	if len(filter.ProductIDs) > 0 {
		q = q.Where("product_infos.product_id IN ?", filter.ProductIDs)
	}
	if len(filter.CategoryIDs) > 0 {
		q = q.Where("products.category_id IN ?", filter.CategoryIDs)
	}
	if filter.PriceFrom != nil {
		q = q.Where("product_infos.price >= ?", *filter.PriceFrom)
	}
	if filter.PriceTo != nil {
		q = q.Where("product_infos.price <= ?", *filter.PriceTo)
	}

	var list []models.ProductInfo
	err := q.
		Preload("Product").
		Preload("Shop").
		Preload("Parameters.Parameter").
		Order("products.name ASC, product_infos.price ASC").
		Find(&list).Error
	return list, err
}
