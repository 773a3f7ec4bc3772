package catalog

import (
	"context"
	"fmt"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
)

type catalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchOffers(ctx context.Context, filter OfferFilter) ([]models.ProductInfo, error)
}

// Service exposes catalog reads.
type Service interface {
	Categories(ctx context.Context) ([]CategoryDTO, error)
	Products(ctx context.Context) ([]ProductDTO, error)
	Offers(ctx context.Context, filter OfferFilter) ([]OfferDTO, error)
}

type service struct {
	repo catalogRepository
}

func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Categories(ctx context.Context) ([]CategoryDTO, error) {
	list, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(list))
	for _, c := range list {
		out = append(out, CategoryFromModel(c))
	}
	return out, nil
}

func (s *service) Products(ctx context.Context) ([]ProductDTO, error) {
	list, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(list))
	for _, p := range list {
		out = append(out, ProductFromModel(p))
	}
	return out, nil
}

func (s *service) Offers(ctx context.Context, filter OfferFilter) ([]OfferDTO, error) {
	if filter.PriceFrom != nil && filter.PriceTo != nil && *filter.PriceFrom > *filter.PriceTo {
		return nil, pkgerrors.Validation("price range is empty", map[string]string{"price_from": "must not exceed price_to"})
	}
	list, err := s.repo.SearchOffers(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search offers")
	}
	out := make([]OfferDTO, 0, len(list))
	for _, info := range list {
		out = append(out, OfferFromModel(info))
	}
	return out, nil
}
