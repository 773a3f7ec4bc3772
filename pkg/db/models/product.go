package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a named good shared by every shop that offers it.
type Product struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string     `gorm:"column:name;not null;uniqueIndex"`
	CategoryID *uuid.UUID `gorm:"column:category_id;type:uuid"`
	Category   *Category  `gorm:"foreignKey:CategoryID"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Product) TableName() string { return "products" }

// ProductInfo is a shop's priced, stocked offer of a product. Price is in the smallest currency unit.
type ProductInfo struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	ShopID     uuid.UUID          `gorm:"column:shop_id;type:uuid;not null"`
	Quantity   int                `gorm:"column:quantity;not null"`
	Price      int64              `gorm:"column:price;not null"`
	CreatedAt  time.Time          `gorm:"column:created_at;autoCreateTime"`
	Product    Product            `gorm:"foreignKey:ProductID"`
	Shop       Shop               `gorm:"foreignKey:ShopID"`
	Parameters []ProductParameter `gorm:"foreignKey:ProductInfoID"`
}

func (ProductInfo) TableName() string { return "product_infos" }

type Parameter struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name string    `gorm:"column:name;not null;uniqueIndex"`
}

func (Parameter) TableName() string { return "parameters" }

type ProductParameter struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ProductInfoID uuid.UUID `gorm:"column:product_info_id;type:uuid;not null"`
	ParameterID   uuid.UUID `gorm:"column:parameter_id;type:uuid;not null"`
	Value         string    `gorm:"column:value;not null"`
	Parameter     Parameter `gorm:"foreignKey:ParameterID"`
}

func (ProductParameter) TableName() string { return "product_parameters" }
