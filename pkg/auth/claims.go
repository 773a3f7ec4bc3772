package auth

import (
	"errors"
	"fmt"

	"github.com/angelmondragon/supplyhub-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload is what the login and refresh flows know about the caller.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	UserType enums.UserType
	JTI      string
}

func (p AccessTokenPayload) validate() error {
	if p.UserID == uuid.Nil {
		return errors.New("user id is required")
	}
	if !p.UserType.IsValid() {
		return fmt.Errorf("invalid user type %q", p.UserType)
	}
	return nil
}

// AccessTokenClaims is the JWT body. sub mirrors user_id for generic consumers.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	UserType enums.UserType `json:"user_type"`
	jwt.RegisteredClaims
}
