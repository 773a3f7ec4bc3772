package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/supplyhub-backend/api/responses"
	"github.com/angelmondragon/supplyhub-backend/api/validators"
	"github.com/angelmondragon/supplyhub-backend/internal/feeds"
	"github.com/angelmondragon/supplyhub-backend/internal/orders"
	"github.com/angelmondragon/supplyhub-backend/internal/shops"
	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
)

// CatalogImporter rebuilds a shop catalog from a remote price list.
type CatalogImporter interface {
	Import(ctx context.Context, input feeds.ImportInput) (*feeds.ImportResult, error)
}

const maxFeedURLLen = 2048

type partnerUpdateRequest struct {
	URL string `json:"url" validate:"required,url"`
}

func PartnerState(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("shop"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.GetState(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, state)
	}
}

func PartnerSetState(svc shops.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("shop"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req shops.UpdateStateInput
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.SetState(r.Context(), userID, req.State)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatus(w, http.StatusOK, map[string]any{"State": state.State})
	}
}

// PartnerUpdate fetches the shop's price list and replaces its catalog.
func PartnerUpdate(importer CatalogImporter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if importer == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("import"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req partnerUpdateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := importer.Import(r.Context(), feeds.ImportInput{
			UserID: userID,
			URL:    validators.SanitizeString(req.URL, maxFeedURLLen),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctx := logg.WithShopID(r.Context(), result.ShopID.String())
		logg.Info(ctx, "catalog imported")
		responses.WriteStatus(w, http.StatusOK, map[string]any{
			"Shop":       result.ShopID,
			"Categories": result.Categories,
			"Offers":     result.Offers,
			"Parameters": result.Parameters,
		})
	}
}

// PartnerOrders lists placed orders containing the shop's goods, trimmed to its own lines.
func PartnerOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, serviceUnavailable("order"))
			return
		}
		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListShopOrders(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, list)
	}
}
