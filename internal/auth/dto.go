package auth

import (
	"github.com/angelmondragon/supplyhub-backend/internal/users"
	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries the refresh token paired with the (possibly expired) bearer token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterRequest is the body of POST /user/register/.
type RegisterRequest struct {
	FirstName string         `json:"first_name" validate:"required,max=50"`
	LastName  string         `json:"last_name" validate:"required,max=50"`
	Email     string         `json:"email" validate:"required,email"`
	Password  string         `json:"password" validate:"required"`
	Company   string         `json:"company" validate:"omitempty,max=100"`
	Position  string         `json:"position" validate:"omitempty,max=100"`
	Type      enums.UserType `json:"type" validate:"omitempty,oneof=shop buyer"`
}

// LoginResponse contains the token pair and the authenticated user.
type LoginResponse struct {
	AccessToken  string
	RefreshToken string
	User         *users.UserDTO
}
