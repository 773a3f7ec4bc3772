package contacts

import (
	"time"

	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/google/uuid"
)

// ContactDTO is the wire shape of a delivery contact.
type ContactDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house"`
	Apartment string    `json:"apartment"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContactInput is the body of POST /user/contact/.
type CreateContactInput struct {
	Name      string `json:"name" validate:"required,max=100"`
	City      string `json:"city" validate:"required,max=50"`
	Street    string `json:"street" validate:"required,max=100"`
	House     string `json:"house" validate:"omitempty,max=15"`
	Apartment string `json:"apartment" validate:"omitempty,max=15"`
	Phone     string `json:"phone" validate:"required,max=20"`
}

// UpdateContactInput is the body of PUT /user/contact/. Nil fields are left untouched.
type UpdateContactInput struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	Name      *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	City      *string   `json:"city,omitempty" validate:"omitempty,min=1,max=50"`
	Street    *string   `json:"street,omitempty" validate:"omitempty,min=1,max=100"`
	House     *string   `json:"house,omitempty" validate:"omitempty,max=15"`
	Apartment *string   `json:"apartment,omitempty" validate:"omitempty,max=15"`
	Phone     *string   `json:"phone,omitempty" validate:"omitempty,min=1,max=20"`
}

// DeleteContactsInput is the body of DELETE /user/contact/.
type DeleteContactsInput struct {
	Items []uuid.UUID `json:"items" validate:"required,min=1"`
}

func FromModel(c models.Contact) ContactDTO {
	return ContactDTO{
		ID:        c.ID,
		Name:      c.Name,
		City:      c.City,
		Street:    c.Street,
		House:     c.House,
		Apartment: c.Apartment,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

func FromModels(list []models.Contact) []ContactDTO {
	out := make([]ContactDTO, 0, len(list))
	for _, c := range list {
		out = append(out, FromModel(c))
	}
	return out
}

func (in UpdateContactInput) columns() map[string]any {
	cols := map[string]any{}
	if in.Name != nil {
		cols["name"] = *in.Name
	}
	if in.City != nil {
		cols["city"] = *in.City
	}
	if in.Street != nil {
		cols["street"] = *in.Street
	}
	if in.House != nil {
		cols["house"] = *in.House
	}
	if in.Apartment != nil {
		cols["apartment"] = *in.Apartment
	}
	if in.Phone != nil {
		cols["phone"] = *in.Phone
	}
	return cols
}
