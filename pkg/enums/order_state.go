package enums

import "fmt"

// OrderState tracks an order through the basket and fulfillment lifecycle.
type OrderState string

const (
	OrderStateBasket    OrderState = "basket"
	OrderStateNew       OrderState = "new"
	OrderStateConfirmed OrderState = "confirmed"
	OrderStateAssembled OrderState = "assembled"
	OrderStateSent      OrderState = "sent"
	OrderStateDelivered OrderState = "delivered"
	OrderStateCanceled  OrderState = "canceled"
)

var validOrderStates = []OrderState{
	OrderStateBasket,
	OrderStateNew,
	OrderStateConfirmed,
	OrderStateAssembled,
	OrderStateSent,
	OrderStateDelivered,
	OrderStateCanceled,
}

var orderTransitions = map[OrderState][]OrderState{
	OrderStateBasket:    {OrderStateNew, OrderStateCanceled},
	OrderStateNew:       {OrderStateConfirmed, OrderStateCanceled},
	OrderStateConfirmed: {OrderStateAssembled, OrderStateCanceled},
	OrderStateAssembled: {OrderStateSent, OrderStateCanceled},
	OrderStateSent:      {OrderStateDelivered, OrderStateCanceled},
}

// String implements fmt.Stringer.
func (o OrderState) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderState.
func (o OrderState) IsValid() bool {
	for _, candidate := range validOrderStates {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed.
func (o OrderState) IsTerminal() bool {
	return o == OrderStateDelivered || o == OrderStateCanceled
}

// IsMutable reports whether line items may still change. Only the basket is mutable.
func (o OrderState) IsMutable() bool {
	return o == OrderStateBasket
}

// CanTransitionTo reports whether moving from o to next is allowed.
func (o OrderState) CanTransitionTo(next OrderState) bool {
	for _, candidate := range orderTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseOrderState converts raw input into an OrderState.
func ParseOrderState(value string) (OrderState, error) {
	for _, candidate := range validOrderStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order state %q", value)
}
