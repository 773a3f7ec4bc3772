package enums

import "fmt"

// UserType distinguishes supplier accounts from purchasing accounts.
type UserType string

const (
	UserTypeShop  UserType = "shop"
	UserTypeBuyer UserType = "buyer"
)

var validUserTypes = []UserType{
	UserTypeShop,
	UserTypeBuyer,
}

// String implements fmt.Stringer.
func (u UserType) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserType.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// CanManageShop reports whether the account may publish a catalog and read partner endpoints.
func (u UserType) CanManageShop() bool {
	return u == UserTypeShop
}

// CanPlaceOrders reports whether the account may keep a basket and confirm orders.
func (u UserType) CanPlaceOrders() bool {
	return u == UserTypeBuyer
}

// ParseUserType converts raw input into a UserType.
func ParseUserType(value string) (UserType, error) {
	for _, candidate := range validUserTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
