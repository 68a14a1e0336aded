package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"courier/internal/domain"
	"courier/internal/redis"
	"courier/internal/repository"
)

// DriverService handles driver registration, duty status, and locations.
type DriverService struct {
	driverRepo   repository.DriverRepository
	locationRepo repository.LocationRepository
	cacheStore   *redis.CacheStore
}

// NewDriverService creates a new DriverService.
func NewDriverService(
	driverRepo repository.DriverRepository,
	locationRepo repository.LocationRepository,
	cacheStore *redis.CacheStore,
) *DriverService {
	return &DriverService{
		driverRepo:   driverRepo,
		locationRepo: locationRepo,
		cacheStore:   cacheStore,
	}
}

// RegisterDriverRequest contains the parameters for registering a driver.
type RegisterDriverRequest struct {
	Name  string
	Phone string
	Email string
}

// Register creates a new driver. New drivers start active but off duty.
func (s *DriverService) Register(ctx context.Context, req RegisterDriverRequest) (*domain.Driver, error) {
	driver := &domain.Driver{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		IsOnDuty: false,
		IsActive: true,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// SetDuty updates a driver's on-duty flag.
func (s *DriverService) SetDuty(ctx context.Context, driverID string, onDuty bool) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}

	if err := s.driverRepo.SetOnDuty(ctx, driverID, onDuty); err != nil {
		return err
	}

	// Duty changed; stale cached copies would misreport availability.
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateDriver(ctx, driverID)
	}

	return nil
}

// UpdateLocation records a driver's current position (one row per driver,
// latest write wins).
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	if driverID == "" {
		return ErrInvalidDriverID
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidLocation
	}

	// Reject locations for unknown drivers.
	if _, err := s.driverRepo.GetByID(ctx, driverID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.ErrNotFound
		}
		return err
	}

	return s.locationRepo.Upsert(ctx, &domain.DriverLocation{
		DriverID:  driverID,
		Lat:       lat,
		Lng:       lng,
		UpdatedAt: time.Now(),
	})
}

// GetAll retrieves all drivers.
func (s *DriverService) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	return s.driverRepo.GetAll(ctx)
}
