package payloads

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// OrderConfirmedEvent is emitted when a buyer turns a basket into an order.
type OrderConfirmedEvent struct {
	OrderID     uuid.UUID   `json:"order_id"`
	UserID      uuid.UUID   `json:"user_id"`
	ContactID   uuid.UUID   `json:"contact_id"`
	ShopIDs     []uuid.UUID `json:"shop_ids"`
	ItemCount   int         `json:"item_count"`
	TotalPrice  int64       `json:"total_price"`
	ConfirmedAt time.Time   `json:"confirmed_at"`
}

// CatalogImportedEvent is emitted after a shop's catalog was rebuilt from its feed.
type CatalogImportedEvent struct {
	ShopID     uuid.UUID `json:"shop_id"`
	ShopName   string    `json:"shop_name"`
	URL        string    `json:"url"`
	Categories int       `json:"categories"`
	Offers     int       `json:"offers"`
	Parameters int       `json:"parameters"`
}

// Subject returns the aggregate the event is about.
func (e OrderConfirmedEvent) Subject() uuid.UUID { return e.OrderID }

func (e OrderConfirmedEvent) Validate() error {
	switch {
	case e.OrderID == uuid.Nil:
		return errors.New("order_id is required")
	case e.UserID == uuid.Nil:
		return errors.New("user_id is required")
	case e.ItemCount <= 0:
		return errors.New("item_count must be positive")
	}
	return nil
}

func (e CatalogImportedEvent) Subject() uuid.UUID { return e.ShopID }

func (e CatalogImportedEvent) Validate() error {
	if e.ShopID == uuid.Nil {
		return errors.New("shop_id is required")
	}
	return nil
}
