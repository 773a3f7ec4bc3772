package catalog

import (
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
)

type CategoryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ProductDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// OfferShopDTO is the slim shop summary embedded in an offer.
type OfferShopDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	State enums.ShopState `json:"state"`
}

// OfferDTO is a shop's priced offer of a product, with its parameters keyed by name.
type OfferDTO struct {
	ID         uuid.UUID         `json:"id"`
	Product    ProductDTO        `json:"product"`
	Shop       OfferShopDTO      `json:"shop"`
	Quantity   int               `json:"quantity"`
	Price      int64             `json:"price"`
	Parameters map[string]string `json:"parameters"`
}

// OfferFilter narrows the offer search. Empty slices and nil bounds match everything.
type OfferFilter struct {
	ShopIDs     []uuid.UUID
	ProductIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
	PriceFrom   *int64
	PriceTo     *int64
}

func CategoryFromModel(c models.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Name}
}

func ProductFromModel(p models.Product) ProductDTO {
	return ProductDTO{ID: p.ID, Name: p.Name, CategoryID: p.CategoryID}
}

// OfferFromModel expects Product, Shop and Parameters.Parameter to be preloaded.
func OfferFromModel(info models.ProductInfo) OfferDTO {
	params := make(map[string]string, len(info.Parameters))
	for _, p := range info.Parameters {
		params[p.Parameter.Name] = p.Value
	}
	return OfferDTO{
		ID:      info.ID,
		Product: ProductFromModel(info.Product),
		Shop: OfferShopDTO{
			ID:    info.Shop.ID,
			Name:  info.Shop.Name,
			State: info.Shop.State,
		},
		Quantity:   info.Quantity,
		Price:      info.Price,
		Parameters: params,
	}
}
