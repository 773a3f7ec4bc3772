package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/internal/feeds"
	"github.com/angelmondragon/supplyhub-backend/internal/orders"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
)

type importerFunc func(ctx context.Context, input feeds.ImportInput) (*feeds.ImportResult, error)

func (f importerFunc) Import(ctx context.Context, input feeds.ImportInput) (*feeds.ImportResult, error) {
	return f(ctx, input)
}

func TestPartnerUpdate(t *testing.T) {
	userID, shopID := uuid.New(), uuid.New()
	importer := importerFunc(func(ctx context.Context, input feeds.ImportInput) (*feeds.ImportResult, error) {
		if input.UserID != userID || input.URL != "https://acme.example/price.yaml" {
			t.Fatalf("unexpected input %+v", input)
		}
		return &feeds.ImportResult{ShopID: shopID, Categories: 2, Offers: 5, Parameters: 3}, nil
	})

	body := map[string]any{"url": "https://acme.example/price.yaml"}
	resp := httptest.NewRecorder()
	PartnerUpdate(importer, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/partner/update/", body, userID))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Status     bool
		Shop       uuid.UUID
		Categories int
		Offers     int
		Parameters int
	}
	decodeBody(t, resp, &envelope)
	if !envelope.Status || envelope.Shop != shopID || envelope.Offers != 5 || envelope.Categories != 2 || envelope.Parameters != 3 {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestPartnerUpdateValidatesURL(t *testing.T) {
	importer := importerFunc(func(ctx context.Context, input feeds.ImportInput) (*feeds.ImportResult, error) {
		t.Fatalf("importer must not run")
		return nil, nil
	})
	for _, body := range []map[string]any{{}, {"url": "not a url"}} {
		resp := httptest.NewRecorder()
		PartnerUpdate(importer, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/partner/update/", body, uuid.New()))
		got := expectError(t, resp, http.StatusBadRequest, "VALIDATION_ERROR")
		if _, ok := got.Errors["url"]; !ok {
			t.Fatalf("expected url error, got %v", got.Errors)
		}
	}
}

func TestPartnerUpdateConflict(t *testing.T) {
	importer := importerFunc(func(ctx context.Context, input feeds.ImportInput) (*feeds.ImportResult, error) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "catalog import already running")
	})
	resp := httptest.NewRecorder()
	body := map[string]any{"url": "https://acme.example/price.yaml"}
	PartnerUpdate(importer, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPost, "/api/v1/partner/update/", body, uuid.New()))

	expectError(t, resp, http.StatusConflict, "CONFLICT")
}

func TestPartnerState(t *testing.T) {
	svc := &stubShops{state: enums.ShopStateClosed}
	resp := httptest.NewRecorder()
	PartnerState(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodGet, "/api/v1/partner/state/", nil, uuid.New()))

	var body struct {
		State enums.ShopState `json:"state"`
	}
	decodeBody(t, resp, &body)
	if body.State != enums.ShopStateClosed {
		t.Fatalf("unexpected state %q", body.State)
	}
}

func TestPartnerSetState(t *testing.T) {
	svc := &stubShops{}
	resp := httptest.NewRecorder()
	body := map[string]any{"state": "OPEN"}
	PartnerSetState(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPatch, "/api/v1/partner/state/", body, uuid.New()))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.setState != enums.ShopStateOpen {
		t.Fatalf("state not forwarded, got %q", svc.setState)
	}

	resp = httptest.NewRecorder()
	body = map[string]any{"state": "PAUSED"}
	PartnerSetState(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodPatch, "/api/v1/partner/state/", body, uuid.New()))
	expectError(t, resp, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestPartnerOrders(t *testing.T) {
	userID := uuid.New()
	svc := stubOrders{shopFn: func(ctx context.Context, got uuid.UUID) ([]orders.OrderDTO, error) {
		if got != userID {
			t.Fatalf("unexpected user %s", got)
		}
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}}
	resp := httptest.NewRecorder()
	PartnerOrders(svc, testLogger()).ServeHTTP(resp, authedRequest(t, http.MethodGet, "/api/v1/partner/orders/", nil, userID))

	expectError(t, resp, http.StatusNotFound, "NOT_FOUND")
}
