package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/supplyhub-backend/internal/contacts"
	"github.com/angelmondragon/supplyhub-backend/pkg/config"
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/supplyhub-backend/pkg/errors"
	"github.com/angelmondragon/supplyhub-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, columns map[string]any) error
}

type contactLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Contact, error)
}

// ProfileDTO is the body of GET /user/details/.
type ProfileDTO struct {
	UserDTO
	Contacts []contacts.ContactDTO `json:"contacts"`
}

// ProfileService reads and edits the caller's own profile.
type ProfileService interface {
	Details(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	Update(ctx context.Context, userID uuid.UUID, input ProfileUpdate) error
}

type profileService struct {
	users       userRepository
	contacts    contactLister
	passwordCfg config.PasswordConfig
}

func NewProfileService(usersRepo userRepository, contactsRepo contactLister, passwordCfg config.PasswordConfig) (ProfileService, error) {
	if usersRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if contactsRepo == nil {
		return nil, fmt.Errorf("contact repository required")
	}
	return &profileService{users: usersRepo, contacts: contactsRepo, passwordCfg: passwordCfg}, nil
}

func (s *profileService) Details(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := s.contacts.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list contacts")
	}
	return &ProfileDTO{
		UserDTO:  *FromModel(user),
		Contacts: contacts.FromModels(list),
	}, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, input ProfileUpdate) error {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}

	cols := map[string]any{}
	setTrimmed(cols, "first_name", input.FirstName)
	setTrimmed(cols, "last_name", input.LastName)
	setTrimmed(cols, "company", input.Company)
	setTrimmed(cols, "position", input.Position)

	if input.Password != nil {
		if err := security.ValidatePasswordStrength(*input.Password, user.Email); err != nil {
			return pkgerrors.Validation("password rejected", map[string]string{"password": err.Error()})
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		cols["password_hash"] = hash
	}

	if len(cols) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	if err := s.users.UpdateProfile(ctx, userID, cols); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return nil
}

func (s *profileService) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}

func setTrimmed(cols map[string]any, column string, value *string) {
	if value == nil {
		return
	}
	cols[column] = strings.TrimSpace(*value)
}
