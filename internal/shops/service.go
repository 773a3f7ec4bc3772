package shops

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type shopRepository interface {
	ListByState(ctx context.Context, state enums.ShopState) ([]models.Shop, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Shop, error)
	UpdateState(ctx context.Context, userID uuid.UUID, state enums.ShopState) (int64, error)
}

// Service exposes the public shop listing and the partner state switch.
type Service interface {
	ListOpen(ctx context.Context) ([]ShopDTO, error)
	GetState(ctx context.Context, userID uuid.UUID) (*StateDTO, error)
	SetState(ctx context.Context, userID uuid.UUID, state enums.ShopState) (*StateDTO, error)
}

type service struct {
	repo shopRepository
}

func NewService(repo shopRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("shop repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListOpen(ctx context.Context) ([]ShopDTO, error) {
	list, err := s.repo.ListByState(ctx, enums.ShopStateOpen)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list shops")
	}
	out := make([]ShopDTO, 0, len(list))
	for _, shop := range list {
		out = append(out, FromModel(shop))
	}
	return out, nil
}

func (s *service) GetState(ctx context.Context, userID uuid.UUID) (*StateDTO, error) {
	shop, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load shop")
	}
	return &StateDTO{State: shop.State}, nil
}

func (s *service) SetState(ctx context.Context, userID uuid.UUID, state enums.ShopState) (*StateDTO, error) {
	if !state.IsValid() {
		return nil, pkgerrors.Validation("invalid shop state", map[string]string{"state": "must be one of: OPEN CLOSED"})
	}
	affected, err := s.repo.UpdateState(ctx, userID, state)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update shop state")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
	}
	return &StateDTO{State: state}, nil
}
