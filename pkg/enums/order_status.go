package enums

import "fmt"

// OrderStatus tracks the lifecycle of a customer order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// orderStatusTransitions is the allowed forward edge set. Delivered and
// cancelled are terminal.
var orderStatusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (o OrderStatus) IsTerminal() bool {
	return len(orderStatusTransitions[o]) == 0 && o.IsValid()
}

// CanTransitionTo reports whether moving to next is a legal transition.
func (o OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range orderStatusTransitions[o] {
		if candidate == next {
			return true
		}
	}
	return false
}

// HoldsReservation reports whether an order in this status still holds
// inventory reservations. Delivered and cancelled orders have released
// theirs.
func (o OrderStatus) HoldsReservation() bool {
	switch o {
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	default:
		return o.IsValid()
	}
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
