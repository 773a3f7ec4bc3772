package controllers

import (
	"net/http"

	"github.com/angelmondragon/supplyhub-backend/api/responses"
	"github.com/angelmondragon/supplyhub-backend/api/validators"
	"github.com/angelmondragon/supplyhub-backend/internal/catalog"
	"github.com/angelmondragon/supplyhub-backend/internal/shops"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
)

// CatalogCategories lists every category.
func CatalogCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("catalog"))
			return
		}
		list, err := svc.Categories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, list)
	}
}

// CatalogProducts lists every product regardless of which shops offer it.
func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("catalog"))
			return
		}
		list, err := svc.Products(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, list)
	}
}

// CatalogOffers searches offers of open shops. shop, product and category repeat; price bounds are inclusive.
func CatalogOffers(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("catalog"))
			return
		}

		filter, err := parseOfferFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.Offers(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, list)
	}
}

func parseOfferFilter(r *http.Request) (catalog.OfferFilter, error) {
	var (
		filter catalog.OfferFilter
		err    error
	)
	if filter.ShopIDs, err = validators.ParseQueryUUIDs(r, "shop"); err != nil {
		return filter, err
	}
	if filter.ProductIDs, err = validators.ParseQueryUUIDs(r, "product"); err != nil {
		return filter, err
	}
	if filter.CategoryIDs, err = validators.ParseQueryUUIDs(r, "category"); err != nil {
		return filter, err
	}
	if filter.PriceFrom, err = validators.ParseQueryInt64Ptr(r, "price_from"); err != nil {
		return filter, err
	}
	if filter.PriceTo, err = validators.ParseQueryInt64Ptr(r, "price_to"); err != nil {
		return filter, err
	}
	return filter, nil
}

// ShopsList lists shops currently accepting orders.
func ShopsList(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("shop"))
			return
		}
		list, err := svc.ListOpen(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, list)
	}
}
