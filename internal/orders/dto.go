package orders

import (
	"time"

	"github.com/angelmondragon/supplyhub-backend/internal/contacts"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// AddItemInput is one (offer, quantity) pair added to the basket.
type AddItemInput struct {
	ProductInfoID uuid.UUID `json:"product_info" validate:"required"`
	Quantity      int       `json:"quantity" validate:"required,gt=0"`
}

type AddItemsRequest struct {
	Items []AddItemInput `json:"items" validate:"required,min=1,dive"`
}

// UpdateItemInput sets the quantity of a basket item.
type UpdateItemInput struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

type UpdateItemsRequest struct {
	Items []UpdateItemInput `json:"items" validate:"required,min=1,dive"`
}

type RemoveItemsRequest struct {
	Items []uuid.UUID `json:"items" validate:"required,min=1"`
}

type ConfirmRequest struct {
	ID      uuid.UUID `json:"id" validate:"required"`
	Contact uuid.UUID `json:"contact" validate:"required"`
}

// ConfirmInput identifies the basket to place and the delivery contact.
type ConfirmInput struct {
	UserID    uuid.UUID
	OrderID   uuid.UUID
	ContactID uuid.UUID
}

// OrderItemDTO renders a line. Price is the live offer price in a basket and the frozen price otherwise.
type OrderItemDTO struct {
	ID            uuid.UUID  `json:"id"`
	ProductInfoID *uuid.UUID `json:"product_info"`
	ProductID     uuid.UUID  `json:"product"`
	ProductName   string     `json:"product_name"`
	ShopID        uuid.UUID  `json:"shop"`
	ShopName      string     `json:"shop_name,omitempty"`
	Price         int64      `json:"price"`
	Quantity      int        `json:"quantity"`
	Available     bool       `json:"available"`
}

type OrderDTO struct {
	ID          uuid.UUID            `json:"id"`
	State       enums.OrderState     `json:"state"`
	Contact     *contacts.ContactDTO `json:"contact,omitempty"`
	Items       []OrderItemDTO       `json:"ordered_items"`
	TotalPrice  int64                `json:"total_price"`
	CreatedAt   time.Time            `json:"created_at"`
	ConfirmedAt *time.Time           `json:"confirmed_at,omitempty"`
}

// basketItemDTO prices the item from its live offer when one is attached.
func basketItemDTO(item models.OrderItem) OrderItemDTO {
	dto := snapshotItemDTO(item)
	if item.ProductInfo != nil {
		dto.Price = item.ProductInfo.Price
		dto.ProductName = item.ProductInfo.Product.Name
		dto.ShopName = item.ProductInfo.Shop.Name
		dto.Available = item.ProductInfo.Shop.State.AcceptsOrders()
	}
	return dto
}

func snapshotItemDTO(item models.OrderItem) OrderItemDTO {
	return OrderItemDTO{
		ID:            item.ID,
		ProductInfoID: item.ProductInfoID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		ShopID:        item.ShopID,
		Price:         item.Price,
		Quantity:      item.Quantity,
	}
}

func orderDTO(order models.Order, items []OrderItemDTO, total int64) OrderDTO {
	dto := OrderDTO{
		ID:          order.ID,
		State:       order.State,
		Items:       items,
		TotalPrice:  total,
		CreatedAt:   order.CreatedAt,
		ConfirmedAt: order.ConfirmedAt,
	}
	if order.Contact != nil {
		contact := contacts.FromModel(*order.Contact)
		dto.Contact = &contact
	}
	return dto
}
