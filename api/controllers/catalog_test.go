package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/supplyhub-backend/internal/catalog"
	"github.com/angelmondragon/supplyhub-backend/internal/shops"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
)

type stubCatalog struct {
	categories []catalog.CategoryDTO
	products   []catalog.ProductDTO
	offersFn   func(ctx context.Context, filter catalog.OfferFilter) ([]catalog.OfferDTO, error)
}

func (s stubCatalog) Categories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return s.categories, nil
}

func (s stubCatalog) Products(ctx context.Context) ([]catalog.ProductDTO, error) {
	return s.products, nil
}

func (s stubCatalog) Offers(ctx context.Context, filter catalog.OfferFilter) ([]catalog.OfferDTO, error) {
	if s.offersFn != nil {
		return s.offersFn(ctx, filter)
	}
	return []catalog.OfferDTO{}, nil
}

type stubShops struct {
	open     []shops.ShopDTO
	state    enums.ShopState
	setErr   error
	setState enums.ShopState
}

func (s *stubShops) ListOpen(ctx context.Context) ([]shops.ShopDTO, error) {
	return s.open, nil
}

func (s *stubShops) GetState(ctx context.Context, userID uuid.UUID) (*shops.StateDTO, error) {
	return &shops.StateDTO{State: s.state}, nil
}

func (s *stubShops) SetState(ctx context.Context, userID uuid.UUID, state enums.ShopState) (*shops.StateDTO, error) {
	if s.setErr != nil {
		return nil, s.setErr
	}
	s.setState = state
	return &shops.StateDTO{State: state}, nil
}

func TestCatalogCategoriesReturnsBareArray(t *testing.T) {
	svc := stubCatalog{categories: []catalog.CategoryDTO{{ID: uuid.New(), Name: "Tools"}}}
	resp := httptest.NewRecorder()
	CatalogCategories(svc, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/categories/", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var body []catalog.CategoryDTO
	decodeBody(t, resp, &body)
	if len(body) != 1 || body[0].Name != "Tools" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestCatalogOffersParsesFilters(t *testing.T) {
	shopA, shopB, product := uuid.New(), uuid.New(), uuid.New()
	var got catalog.OfferFilter
	svc := stubCatalog{offersFn: func(ctx context.Context, filter catalog.OfferFilter) ([]catalog.OfferDTO, error) {
		got = filter
		return []catalog.OfferDTO{}, nil
	}}

	target := "/api/v1/products/?shop=" + shopA.String() + "&shop=" + shopB.String() +
		"&product=" + product.String() + "&price_from=100&price_to=900"
	resp := httptest.NewRecorder()
	CatalogOffers(svc, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(got.ShopIDs) != 2 || got.ShopIDs[0] != shopA || got.ShopIDs[1] != shopB {
		t.Fatalf("unexpected shops %v", got.ShopIDs)
	}
	if len(got.ProductIDs) != 1 || got.ProductIDs[0] != product {
		t.Fatalf("unexpected products %v", got.ProductIDs)
	}
	if len(got.CategoryIDs) != 0 {
		t.Fatalf("unexpected categories %v", got.CategoryIDs)
	}
	if got.PriceFrom == nil || *got.PriceFrom != 100 || got.PriceTo == nil || *got.PriceTo != 900 {
		t.Fatalf("unexpected price bounds %v %v", got.PriceFrom, got.PriceTo)
	}
}

func TestCatalogOffersRejectsBadQuery(t *testing.T) {
	cases := map[string]string{
		"/api/v1/products/?shop=nope":        "shop",
		"/api/v1/products/?price_from=cheap": "price_from",
		"/api/v1/products/?price_to=-1":      "price_to",
	}
	for target, field := range cases {
		resp := httptest.NewRecorder()
		CatalogOffers(stubCatalog{}, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, target, nil))
		body := expectError(t, resp, http.StatusBadRequest, "VALIDATION_ERROR")
		if _, ok := body.Errors[field]; !ok {
			t.Fatalf("%s: expected error on %s, got %v", target, field, body.Errors)
		}
	}
}

func TestCatalogOffersPropagatesServiceError(t *testing.T) {
	svc := stubCatalog{offersFn: func(ctx context.Context, filter catalog.OfferFilter) ([]catalog.OfferDTO, error) {
		return nil, pkgerrors.Validation("invalid price range", map[string]string{"price_from": "must not exceed price_to"})
	}}
	resp := httptest.NewRecorder()
	CatalogOffers(svc, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products/?price_from=9&price_to=1", nil))
	expectError(t, resp, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestShopsList(t *testing.T) {
	svc := &stubShops{open: []shops.ShopDTO{{ID: uuid.New(), Name: "Acme", State: enums.ShopStateOpen}}}
	resp := httptest.NewRecorder()
	ShopsList(svc, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/shops/", nil))

	var body []shops.ShopDTO
	decodeBody(t, resp, &body)
	if len(body) != 1 || body[0].Name != "Acme" {
		t.Fatalf("unexpected payload %v", body)
	}
}

func TestCatalogHandlersWithoutService(t *testing.T) {
	resp := httptest.NewRecorder()
	CatalogProducts(nil, testLogger()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/product/", nil))
	expectError(t, resp, http.StatusInternalServerError, "INTERNAL_ERROR")
}
