package shops

import (
	"context"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists shops and their category associations.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByState(ctx context.Context, state enums.ShopState) ([]models.Shop, error) {
	var list []models.Shop
	err := r.db.WithContext(ctx).
		Where("state = ?", state).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *Repository) FindByName(ctx context.Context, name string) (*models.Shop, error) {
	var shop models.Shop
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *Repository) Create(ctx context.Context, shop *models.Shop) error {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	if shop.State == "" {
		shop.State = enums.ShopStateOpen
	}
	return r.db.WithContext(ctx).Create(shop).Error
}

// UpdateIdentity sets the shop's name and feed url.
func (r *Repository) UpdateIdentity(ctx context.Context, shopID uuid.UUID, name string, url *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("id = ?", shopID).
		Updates(map[string]any{"name": name, "url": url}).Error
}

// UpdateState returns the number of shops touched. Zero means the user owns no shop.
func (r *Repository) UpdateState(ctx context.Context, userID uuid.UUID, state enums.ShopState) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Shop{}).
		Where("user_id = ?", userID).
		Update("state", state)
	return res.RowsAffected, res.Error
}

// AttachCategories links the shop to each category. Existing links are kept.
func (r *Repository) AttachCategories(ctx context.Context, shopID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]models.ShopCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, models.ShopCategory{ShopID: shopID, CategoryID: id})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *Repository) CategoryIDs(ctx context.Context, shopID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.ShopCategory{}).
		Where("shop_id = ?", shopID).
		Pluck("category_id", &ids).Error
	return ids, err
}
