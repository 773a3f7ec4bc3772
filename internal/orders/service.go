package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/supplyhub-backend/internal/contacts"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/angelmondragon/supplyhub-backend/pkg/outbox"
	"github.com/angelmondragon/supplyhub-backend/pkg/outbox/payloads"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service covers the basket lifecycle and the order read paths.
type Service interface {
	GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	AddItems(ctx context.Context, userID uuid.UUID, items []AddItemInput) (int, error)
	ViewBasket(ctx context.Context, userID uuid.UUID) (*OrderDTO, error)
	RemoveItems(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
	UpdateItems(ctx context.Context, userID uuid.UUID, items []UpdateItemInput) (int, error)
	Confirm(ctx context.Context, input ConfirmInput) (*OrderDTO, error)
	ListBuyerOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	ListShopOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
}

type ServiceParams struct {
	Repo     Repository
	TxRunner txRunner
	Outbox   outboxPublisher
	Shops    shopFinder

	// ContactsFactory binds contact lookups to the confirm transaction.
	ContactsFactory func(tx *gorm.DB) contactFinder
}

type service struct {
	repo            Repository
	tx              txRunner
	outbox          outboxPublisher
	shops           shopFinder
	contactsFactory func(tx *gorm.DB) contactFinder
	now             func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Shops == nil {
		return nil, fmt.Errorf("shops repository required")
	}
	factory := params.ContactsFactory
	if factory == nil {
		factory = func(tx *gorm.DB) contactFinder { return contacts.NewRepository(tx) }
	}
	return &service{
		repo:            params.Repo,
		tx:              params.TxRunner,
		outbox:          params.Outbox,
		shops:           params.Shops,
		contactsFactory: factory,
		now:             func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return getOrCreateBasket(ctx, s.repo, userID)
}

// getOrCreateBasket relies on ux_orders_user_basket. A lost insert race resolves to the winner's row.
func getOrCreateBasket(ctx context.Context, repo Repository, userID uuid.UUID) (*models.Order, error) {
	basket, err := repo.FindBasket(ctx, userID)
	if err == nil {
		return basket, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket")
	}
	if err := repo.CreateBasket(ctx, &models.Order{ID: uuid.New(), UserID: userID}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create basket")
	}
	basket, err = repo.FindBasket(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload basket")
	}
	return basket, nil
}

func (s *service) AddItems(ctx context.Context, userID uuid.UUID, items []AddItemInput) (int, error) {
	if len(items) == 0 {
		return 0, pkgerrors.Validation("items required", map[string]string{"items": "is required"})
	}

	order := make([]uuid.UUID, 0, len(items))
	quantities := make(map[uuid.UUID]int, len(items))
	for i, item := range items {
		if item.ProductInfoID == uuid.Nil {
			return 0, pkgerrors.Validation("invalid item", map[string]string{fmt.Sprintf("items[%d].product_info", i): "is required"})
		}
		if item.Quantity <= 0 {
			return 0, pkgerrors.Validation("invalid item", map[string]string{fmt.Sprintf("items[%d].quantity", i): "must be greater than 0"})
		}
		if _, seen := quantities[item.ProductInfoID]; !seen {
			order = append(order, item.ProductInfoID)
		}
		quantities[item.ProductInfoID] += item.Quantity
	}

	touched := 0
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		offers, err := repo.FindOffers(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load offers")
		}
		byID := make(map[uuid.UUID]models.ProductInfo, len(offers))
		for _, offer := range offers {
			byID[offer.ID] = offer
		}
		for _, id := range order {
			offer, ok := byID[id]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("offer %s not found", id))
			}
			if !offer.Shop.State.AcceptsOrders() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "shop is not accepting orders").
					WithDetails(map[string]string{id.String(): "shop is closed"})
			}
		}

		basket, err := getOrCreateBasket(ctx, repo, userID)
		if err != nil {
			return err
		}
		existing, err := repo.ListItems(ctx, basket.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket items")
		}
		inBasket := make(map[uuid.UUID]uuid.UUID, len(existing))
		for _, item := range existing {
			if item.ProductInfoID != nil {
				inBasket[*item.ProductInfoID] = item.ID
			}
		}

		var fresh []models.OrderItem
		for _, id := range order {
			if itemID, ok := inBasket[id]; ok {
				if err := repo.IncrementItemQuantity(ctx, itemID, quantities[id]); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update basket item")
				}
				continue
			}
			offer := byID[id]
			offerID := offer.ID
			fresh = append(fresh, models.OrderItem{
				ID:            uuid.New(),
				OrderID:       basket.ID,
				ProductInfoID: &offerID,
				ShopID:        offer.ShopID,
				ProductID:     offer.ProductID,
				ProductName:   offer.Product.Name,
				Price:         offer.Price,
				Quantity:      quantities[id],
			})
		}
		if err := repo.CreateItems(ctx, fresh); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add basket items")
		}
		touched = len(order)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return touched, nil
}

func (s *service) ViewBasket(ctx context.Context, userID uuid.UUID) (*OrderDTO, error) {
	basket, err := s.repo.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeEmptyState, "basket is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket")
	}
	items, err := s.repo.ListItems(ctx, basket.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket items")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyState, "basket is empty")
	}

	lines := make([]OrderItemDTO, 0, len(items))
	for _, item := range items {
		lines = append(lines, basketItemDTO(item))
	}
	dto := orderDTO(*basket, lines, liveTotal(items))
	return &dto, nil
}

// RemoveItems deletes the given items from the caller's basket. Ids outside it are ignored.
func (s *service) RemoveItems(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, pkgerrors.Validation("items required", map[string]string{"items": "is required"})
	}
	basket, err := s.repo.FindBasket(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket")
	}
	deleted, err := s.repo.DeleteItems(ctx, basket.ID, itemIDs)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove basket items")
	}
	return deleted, nil
}

func (s *service) UpdateItems(ctx context.Context, userID uuid.UUID, items []UpdateItemInput) (int, error) {
	if len(items) == 0 {
		return 0, pkgerrors.Validation("items required", map[string]string{"items": "is required"})
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return 0, pkgerrors.Validation("invalid item", map[string]string{fmt.Sprintf("items[%d].quantity", i): "must be greater than 0"})
		}
		if _, dup := seen[item.ID]; dup {
			return 0, pkgerrors.Validation("invalid item", map[string]string{fmt.Sprintf("items[%d].id", i): "is listed twice"})
		}
		seen[item.ID] = struct{}{}
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		basket, err := repo.FindBasket(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "basket item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket")
		}
		current, err := repo.ListItems(ctx, basket.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket items")
		}
		byID := make(map[uuid.UUID]models.OrderItem, len(current))
		for _, item := range current {
			byID[item.ID] = item
		}

		for _, in := range items {
			item, ok := byID[in.ID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("basket item %s not found", in.ID))
			}
			if item.ProductInfo == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "offer is no longer available").
					WithDetails(map[string]string{in.ID.String(): "offer removed"})
			}
			if !item.ProductInfo.Shop.State.AcceptsOrders() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "shop is not accepting orders").
					WithDetails(map[string]string{in.ID.String(): "shop is closed"})
			}
			if _, err := repo.SetItemQuantity(ctx, basket.ID, in.ID, in.Quantity); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update basket item")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Confirm places the caller's basket: prices are frozen, the contact attached and the state moved to new.
func (s *service) Confirm(ctx context.Context, input ConfirmInput) (*OrderDTO, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.Validation("order id required", map[string]string{"id": "is required"})
	}
	if input.ContactID == uuid.Nil {
		return nil, pkgerrors.Validation("contact required", map[string]string{"contact": "is required"})
	}

	var placed OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindOrder(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
		}
		if !order.State.CanTransitionTo(enums.OrderStateNew) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already placed").
				WithDetails(map[string]string{"state": order.State.String()})
		}

		items, err := repo.ListItems(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load basket items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyState, "basket is empty")
		}

		contact, err := s.contactsFactory(tx).FindForUser(ctx, input.UserID, input.ContactID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "contact does not belong to user")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact")
		}

		unavailable := map[string]string{}
		for _, item := range items {
			switch {
			case item.ProductInfo == nil:
				unavailable[item.ID.String()] = "offer removed"
			case !item.ProductInfo.Shop.State.AcceptsOrders():
				unavailable[item.ID.String()] = "shop is closed"
			}
		}
		if len(unavailable) > 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "basket holds unavailable items").WithDetails(unavailable)
		}

		shopIDs := make([]uuid.UUID, 0)
		seenShops := map[uuid.UUID]struct{}{}
		for i := range items {
			offer := items[i].ProductInfo
			if err := repo.FreezeItem(ctx, items[i].ID, offer.Product.Name, offer.Price); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "freeze item price")
			}
			items[i].Price = offer.Price
			items[i].ProductName = offer.Product.Name
			if _, ok := seenShops[items[i].ShopID]; !ok {
				seenShops[items[i].ShopID] = struct{}{}
				shopIDs = append(shopIDs, items[i].ShopID)
			}
		}

		confirmedAt := s.now()
		updated, err := repo.MarkConfirmed(ctx, order.ID, contact.ID, confirmedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm order")
		}
		if updated == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order is already placed")
		}

		total := snapshotTotal(items)
		order.State = enums.OrderStateNew
		order.ContactID = &contact.ID
		order.Contact = contact
		order.ConfirmedAt = &confirmedAt

		event := outbox.DomainEvent{
			EventType:     enums.EventOrderConfirmed,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: input.UserID, UserType: enums.UserTypeBuyer},
			Data: payloads.OrderConfirmedEvent{
				OrderID:     order.ID,
				UserID:      input.UserID,
				ContactID:   contact.ID,
				ShopIDs:     shopIDs,
				ItemCount:   len(items),
				TotalPrice:  total,
				ConfirmedAt: confirmedAt,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order event")
		}

		lines := make([]OrderItemDTO, 0, len(items))
		for _, item := range items {
			lines = append(lines, snapshotItemDTO(item))
		}
		placed = orderDTO(*order, lines, total)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &placed, nil
}

func (s *service) ListBuyerOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return snapshotOrders(list), nil
}

// ListShopOrders returns placed orders touching the caller's shop, trimmed to that shop's items.
func (s *service) ListShopOrders(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	shop, err := s.shops.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	list, err := s.repo.ListByShop(ctx, shop.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shop orders")
	}
	return snapshotOrders(list), nil
}

func snapshotOrders(list []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(list))
	for _, order := range list {
		lines := make([]OrderItemDTO, 0, len(order.Items))
		for _, item := range order.Items {
			lines = append(lines, snapshotItemDTO(item))
		}
		out = append(out, orderDTO(order, lines, snapshotTotal(order.Items)))
	}
	return out
}
