package models

import (
	"time"

	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// Order is either the buyer's basket or a confirmed order moving through fulfillment.
type Order struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	State       enums.OrderState `gorm:"column:state;type:order_state;not null;default:'basket'"`
	ContactID   *uuid.UUID       `gorm:"column:contact_id;type:uuid"`
	Contact     *Contact         `gorm:"foreignKey:ContactID"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime;<-:create"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	ConfirmedAt *time.Time       `gorm:"column:confirmed_at"`
	Items       []OrderItem      `gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string { return "orders" }

// OrderItem references a live offer and snapshots what is needed once the offer is gone.
// ProductInfoID is nil after the shop's catalog was rebuilt without this product.
type OrderItem struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID    `gorm:"column:order_id;type:uuid;not null"`
	ProductInfoID *uuid.UUID   `gorm:"column:product_info_id;type:uuid"`
	ShopID        uuid.UUID    `gorm:"column:shop_id;type:uuid;not null"`
	ProductID     uuid.UUID    `gorm:"column:product_id;type:uuid;not null"`
	ProductName   string       `gorm:"column:product_name;not null"`
	Price         int64        `gorm:"column:price;not null"`
	Quantity      int          `gorm:"column:quantity;not null"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
	ProductInfo   *ProductInfo `gorm:"foreignKey:ProductInfoID"`
}

func (OrderItem) TableName() string { return "order_items" }
