package repository

import (
	"context"

	"courier/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetAll retrieves all drivers.
	GetAll(ctx context.Context) ([]*domain.Driver, error)

	// GetAvailable retrieves drivers that are on duty and active.
	GetAvailable(ctx context.Context) ([]*domain.Driver, error)

	// SetOnDuty updates the on-duty flag of a driver.
	SetOnDuty(ctx context.Context, id string, onDuty bool) error
}

// LocationRepository defines the persistence operations for driver locations.
type LocationRepository interface {
	// Upsert stores the latest location for a driver, replacing any previous row.
	Upsert(ctx context.Context, loc *domain.DriverLocation) error

	// GetByDriverIDs retrieves the current locations for the given drivers.
	// Drivers without a recorded location are simply absent from the result.
	GetByDriverIDs(ctx context.Context, driverIDs []string) ([]*domain.DriverLocation, error)
}
