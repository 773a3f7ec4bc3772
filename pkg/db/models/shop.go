package models

import (
	"time"

	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// Shop is a supplier publishing a catalog. It accepts orders only while OPEN.
type Shop struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string          `gorm:"column:name;not null;uniqueIndex"`
	URL       *string         `gorm:"column:url"`
	State     enums.ShopState `gorm:"column:state;type:shop_state;not null;default:'OPEN'"`
	UserID    *uuid.UUID      `gorm:"column:user_id;type:uuid;uniqueIndex"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Shop) TableName() string { return "shops" }

// ShopCategory is the shared shop/category association. Rows are never cascaded from either side's catalog rebuild.
type ShopCategory struct {
	ShopID     uuid.UUID `gorm:"column:shop_id;type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"column:category_id;type:uuid;primaryKey"`
}

func (ShopCategory) TableName() string { return "shop_categories" }
