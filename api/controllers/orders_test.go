package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/internal/orders"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
)

func TestOrderConfirm(t *testing.T) {
	userID, orderID, contactID := uuid.New(), uuid.New(), uuid.New()
	svc := stubOrders{confirmFn: func(ctx context.Context, input orders.ConfirmInput) (*orders.OrderDTO, error) {
		if input.UserID != userID || input.OrderID != orderID || input.ContactID != contactID {
			t.Fatalf("unexpected input %+v", input)
		}
		return &orders.OrderDTO{ID: orderID, State: enums.OrderStateNew, TotalPrice: 3000}, nil
	}}

	body := map[string]any{"id": orderID, "contact": contactID}
	resp := httptest.NewRecorder()
	OrderConfirm(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/order/", body, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Status bool
		Order  orders.OrderDTO
	}
	decodeBody(t, resp, &envelope)
	if !envelope.Status || envelope.Order.ID != orderID || envelope.Order.State != enums.OrderStateNew {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestOrderConfirmMapsServiceErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another user"), http.StatusForbidden, "FORBIDDEN"},
		{pkgerrors.New(pkgerrors.CodeStateConflict, "order is not a basket"), http.StatusUnprocessableEntity, "STATE_CONFLICT"},
		{pkgerrors.New(pkgerrors.CodeEmptyState, "basket is empty"), http.StatusNotFound, "EMPTY_STATE"},
	}
	for _, tc := range cases {
		svc := stubOrders{confirmFn: func(ctx context.Context, input orders.ConfirmInput) (*orders.OrderDTO, error) {
			return nil, tc.err
		}}
		body := map[string]any{"id": uuid.New(), "contact": uuid.New()}
		resp := httptest.NewRecorder()
		OrderConfirm(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/order/", body, uuid.New()))
		expectError(t, resp, tc.status, tc.code)
	}
}

func TestOrderConfirmRequiresContact(t *testing.T) {
	resp := httptest.NewRecorder()
	body := map[string]any{"id": uuid.New()}
	OrderConfirm(stubOrders{}, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/order/", body, uuid.New()))

	got := expectError(t, resp, http.StatusBadRequest, "VALIDATION_ERROR")
	if _, ok := got.Errors["contact"]; !ok {
		t.Fatalf("expected contact error, got %v", got.Errors)
	}
}

func TestOrdersList(t *testing.T) {
	userID := uuid.New()
	first, second := uuid.New(), uuid.New()
	svc := stubOrders{buyerFn: func(ctx context.Context, got uuid.UUID) ([]orders.OrderDTO, error) {
		return []orders.OrderDTO{{ID: first}, {ID: second}}, nil
	}}

	resp := httptest.NewRecorder()
	OrdersList(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodGet, "/api/v1/order/", nil, userID))

	var body []orders.OrderDTO
	decodeBody(t, resp, &body)
	if len(body) != 2 || body[0].ID != first || body[1].ID != second {
		t.Fatalf("unexpected payload %v", body)
	}
}
