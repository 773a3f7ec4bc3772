package shops

import (
	"github.com/angelmondragon/supplyhub-backend/pkg/db/models"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/google/uuid"
)

// ShopDTO is the public listing shape of a shop.
type ShopDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	URL   *string         `json:"url,omitempty"`
	State enums.ShopState `json:"state"`
}

// StateDTO is the body of GET/PATCH /partner/state/.
type StateDTO struct {
	State enums.ShopState `json:"state"`
}

// UpdateStateInput is the body of PATCH /partner/state/.
type UpdateStateInput struct {
	State enums.ShopState `json:"state" validate:"required,oneof=OPEN CLOSED"`
}

func FromModel(s models.Shop) ShopDTO {
	return ShopDTO{
		ID:    s.ID,
		Name:  s.Name,
		URL:   s.URL,
		State: s.State,
	}
}
