package enums

import "fmt"

// ShopState tracks whether a shop currently accepts orders.
type ShopState string

const (
	ShopStateOpen   ShopState = "OPEN"
	ShopStateClosed ShopState = "CLOSED"
)

var validShopStates = []ShopState{
	ShopStateOpen,
	ShopStateClosed,
}

// String implements fmt.Stringer.
func (s ShopState) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShopState.
func (s ShopState) IsValid() bool {
	for _, candidate := range validShopStates {
		if candidate == s {
			return true
		}
	}
	return false
}

// AcceptsOrders reports whether buyers may order from a shop in this state.
func (s ShopState) AcceptsOrders() bool {
	return s == ShopStateOpen
}

// ParseShopState converts raw input into a ShopState.
func ParseShopState(value string) (ShopState, error) {
	for _, candidate := range validShopStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shop state %q", value)
}
