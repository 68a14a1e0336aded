package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPickedUp       OrderStatus = "picked_up"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// DriverAssignmentStatus tracks whether an order has a driver bound to it.
type DriverAssignmentStatus string

const (
	DriverUnassigned DriverAssignmentStatus = "unassigned"
	DriverAssigned   DriverAssignmentStatus = "assigned"
)

// Order represents a delivery order.
// DriverID is non-empty iff DriverStatus is DriverAssigned.
type Order struct {
	ID             string
	ClientID       string
	PickupAddress  string
	PickupLat      float64
	PickupLng      float64
	PickupResolved bool // true once the pickup address has been geocoded
	DropoffAddress string
	DriverID       string
	DriverStatus   DriverAssignmentStatus
	Status         OrderStatus
	TotalCost      float64 // 0 means not yet priced
	CreatedAt      time.Time
}
