package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/internal/orders"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubOrders struct {
	viewFn    func(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error)
	addFn     func(ctx context.Context, userID uuid.UUID, items []orders.AddItemInput) (int, error)
	removeFn  func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	updateFn  func(ctx context.Context, userID uuid.UUID, items []orders.UpdateItemInput) (int, error)
	confirmFn func(ctx context.Context, input orders.ConfirmInput) (*orders.OrderDTO, error)
	buyerFn   func(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error)
	shopFn    func(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error)
}

func (s stubOrders) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: uuid.New(), UserID: userID}, nil
}

func (s stubOrders) AddItems(ctx context.Context, userID uuid.UUID, items []orders.AddItemInput) (int, error) {
	if s.addFn != nil {
		return s.addFn(ctx, userID, items)
	}
	return len(items), nil
}

func (s stubOrders) ViewBasket(ctx context.Context, userID uuid.UUID) (*orders.OrderDTO, error) {
	if s.viewFn != nil {
		return s.viewFn(ctx, userID)
	}
	return nil, pkgerrors.New(pkgerrors.CodeEmptyState, "basket is empty")
}

func (s stubOrders) RemoveItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if s.removeFn != nil {
		return s.removeFn(ctx, userID, ids)
	}
	return int64(len(ids)), nil
}

func (s stubOrders) UpdateItems(ctx context.Context, userID uuid.UUID, items []orders.UpdateItemInput) (int, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, userID, items)
	}
	return len(items), nil
}

func (s stubOrders) Confirm(ctx context.Context, input orders.ConfirmInput) (*orders.OrderDTO, error) {
	if s.confirmFn != nil {
		return s.confirmFn(ctx, input)
	}
	return &orders.OrderDTO{ID: input.OrderID}, nil
}

func (s stubOrders) ListBuyerOrders(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	if s.buyerFn != nil {
		return s.buyerFn(ctx, userID)
	}
	return []orders.OrderDTO{}, nil
}

func (s stubOrders) ListShopOrders(ctx context.Context, userID uuid.UUID) ([]orders.OrderDTO, error) {
	if s.shopFn != nil {
		return s.shopFn(ctx, userID)
	}
	return []orders.OrderDTO{}, nil
}

func TestBasketViewEmptyState(t *testing.T) {
	resp := httptest.NewRecorder()
	req := authedRequest(t, http.MethodGet, "/api/v1/basket/", nil, uuid.New())
	BasketView(stubOrders{}, testLogger()).ServeHTTP(resp, req)

	expectError(t, resp, http.StatusNotFound, "EMPTY_STATE")
}

func TestBasketViewReturnsBareOrder(t *testing.T) {
	userID := uuid.New()
	basketID := uuid.New()
	svc := stubOrders{viewFn: func(ctx context.Context, got uuid.UUID) (*orders.OrderDTO, error) {
		if got != userID {
			t.Fatalf("unexpected user %s", got)
		}
		return &orders.OrderDTO{ID: basketID, TotalPrice: 4500}, nil
	}}

	resp := httptest.NewRecorder()
	BasketView(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodGet, "/api/v1/basket/", nil, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body orders.OrderDTO
	decodeBody(t, resp, &body)
	if body.ID != basketID || body.TotalPrice != 4500 {
		t.Fatalf("unexpected payload %+v", body)
	}
}

func TestBasketRequiresIdentity(t *testing.T) {
	resp := httptest.NewRecorder()
	BasketView(stubOrders{}, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodGet, "/api/v1/basket/", nil, uuid.Nil))

	expectError(t, resp, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestBasketAdd(t *testing.T) {
	offer := uuid.New()
	var got []orders.AddItemInput
	svc := stubOrders{addFn: func(ctx context.Context, userID uuid.UUID, items []orders.AddItemInput) (int, error) {
		got = items
		return 1, nil
	}}

	body := map[string]any{"items": []map[string]any{{"product_info": offer, "quantity": 3}}}
	resp := httptest.NewRecorder()
	BasketAdd(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/basket/", body, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Status  bool
		Created int
	}
	decodeBody(t, resp, &envelope)
	if !envelope.Status || envelope.Created != 1 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
	if len(got) != 1 || got[0].ProductInfoID != offer || got[0].Quantity != 3 {
		t.Fatalf("unexpected items %+v", got)
	}
}

func TestBasketAddRejectsInvalidQuantity(t *testing.T) {
	called := false
	svc := stubOrders{addFn: func(ctx context.Context, userID uuid.UUID, items []orders.AddItemInput) (int, error) {
		called = true
		return 0, nil
	}}

	cases := []any{
		map[string]any{"items": []map[string]any{{"product_info": uuid.New(), "quantity": 0}}},
		map[string]any{"items": []map[string]any{{"product_info": uuid.New(), "quantity": -2}}},
		map[string]any{"items": []map[string]any{}},
		map[string]any{},
	}
	for i, body := range cases {
		resp := httptest.NewRecorder()
		BasketAdd(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/basket/", body, uuid.New()))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400 got %d", i, resp.Code)
		}
	}
	if called {
		t.Fatalf("service called with invalid input")
	}
}

func TestBasketRemove(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	svc := stubOrders{removeFn: func(ctx context.Context, userID uuid.UUID, got []uuid.UUID) (int64, error) {
		if len(got) != 2 {
			t.Fatalf("unexpected ids %v", got)
		}
		return 1, nil
	}}

	resp := httptest.NewRecorder()
	BasketRemove(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodDelete, "/api/v1/basket/", map[string]any{"items": ids}, uuid.New()))

	var envelope struct {
		Status  bool
		Deleted int64
	}
	decodeBody(t, resp, &envelope)
	if !envelope.Status || envelope.Deleted != 1 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestBasketUpdatePropagatesNotFound(t *testing.T) {
	svc := stubOrders{updateFn: func(ctx context.Context, userID uuid.UUID, items []orders.UpdateItemInput) (int, error) {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "basket item not found")
	}}
	body := map[string]any{"items": []map[string]any{{"id": uuid.New(), "quantity": 2}}}

	resp := httptest.NewRecorder()
	BasketUpdate(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPut, "/api/v1/basket/", body, uuid.New()))

	got := expectError(t, resp, http.StatusNotFound, "NOT_FOUND")
	if got.Error != "basket item not found" {
		t.Fatalf("unexpected message %q", got.Error)
	}
}

func TestBasketUpdate(t *testing.T) {
	body := map[string]any{"items": []map[string]any{{"id": uuid.New(), "quantity": 2}, {"id": uuid.New(), "quantity": 5}}}
	resp := httptest.NewRecorder()
	BasketUpdate(stubOrders{}, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPut, "/api/v1/basket/", body, uuid.New()))

	var envelope struct {
		Status  bool
		Updated int
	}
	decodeBody(t, resp, &envelope)
	if !envelope.Status || envelope.Updated != 2 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}
