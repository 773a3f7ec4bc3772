package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type contactRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Contact, error)
	FindForUser(ctx context.Context, userID, contactID uuid.UUID) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
	UpdateForUser(ctx context.Context, userID, contactID uuid.UUID, columns map[string]any) (int64, error)
	DeleteForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// Service manages a user's delivery contacts.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error)
	Create(ctx context.Context, userID uuid.UUID, input CreateContactInput) (*ContactDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input UpdateContactInput) (*ContactDTO, error)
	Delete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

type service struct {
	repo contactRepository
}

func NewService(repo contactRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error) {
	list, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contacts")
	}
	return FromModels(list), nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input CreateContactInput) (*ContactDTO, error) {
	contact := &models.Contact{
		UserID:    userID,
		Name:      strings.TrimSpace(input.Name),
		City:      strings.TrimSpace(input.City),
		Street:    strings.TrimSpace(input.Street),
		House:     strings.TrimSpace(input.House),
		Apartment: strings.TrimSpace(input.Apartment),
		Phone:     strings.TrimSpace(input.Phone),
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create contact")
	}
	dto := FromModel(*contact)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, userID uuid.UUID, input UpdateContactInput) (*ContactDTO, error) {
	cols := input.columns()
	if len(cols) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	affected, err := s.repo.UpdateForUser(ctx, userID, input.ID, cols)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update contact")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
	}

	contact, err := s.repo.FindForUser(ctx, userID, input.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load contact")
	}
	dto := FromModel(*contact)
	return &dto, nil
}

// Delete removes the caller's contacts among ids. Foreign ids are ignored.
func (s *service) Delete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, pkgerrors.Validation("items are required", map[string]string{"items": "is required"})
	}
	deleted, err := s.repo.DeleteForUser(ctx, userID, ids)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete contacts")
	}
	return deleted, nil
}
