package repository

import (
	"context"

	"courier/internal/domain"
)

// OrderRepository defines the persistence operations for orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetAll retrieves recent orders.
	GetAll(ctx context.Context) ([]*domain.Order, error)

	// UpdateStatus updates the lifecycle status of an order.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error

	// UpdatePickupCoords stores the geocoded pickup coordinates for an order.
	UpdatePickupCoords(ctx context.Context, id string, lat, lng float64) error

	// AssignDriver binds a driver to an order only while the order is still
	// unassigned. Returns ErrConflict if another assignment won the race and
	// ErrNotFound if the order does not exist.
	AssignDriver(ctx context.Context, orderID, driverID string) error
}
