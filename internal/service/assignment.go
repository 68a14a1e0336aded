package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier/internal/domain"
	"courier/internal/redis"
	"courier/internal/repository"
)

const (
	// locationMaxAge is the staleness window: location samples older than this
	// are unusable for assignment. A sample aged exactly locationMaxAge is
	// still usable (the cutoff is age > locationMaxAge).
	locationMaxAge = 5 * time.Minute

	orderLockTTL = 10 * time.Second
)

// Geocoder resolves a street address to coordinates.
// found is false when the provider has no result for the address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, found bool, err error)
}

// AssignmentService binds unassigned orders to the nearest eligible driver.
type AssignmentService struct {
	orderRepo    repository.OrderRepository
	driverRepo   repository.DriverRepository
	locationRepo repository.LocationRepository
	geocoder     Geocoder
	cacheStore   *redis.CacheStore
	lockStore    redis.LockStoreInterface
}

// NewAssignmentService creates a new AssignmentService.
// cacheStore and lockStore may be nil; caching and lock serialization are then skipped.
func NewAssignmentService(
	orderRepo repository.OrderRepository,
	driverRepo repository.DriverRepository,
	locationRepo repository.LocationRepository,
	geocoder Geocoder,
	cacheStore *redis.CacheStore,
	lockStore redis.LockStoreInterface,
) *AssignmentService {
	return &AssignmentService{
		orderRepo:    orderRepo,
		driverRepo:   driverRepo,
		locationRepo: locationRepo,
		geocoder:     geocoder,
		cacheStore:   cacheStore,
		lockStore:    lockStore,
	}
}

// AssignmentResult contains the outcome of a successful assignment.
type AssignmentResult struct {
	DriverID   string
	DriverName string
	DistanceKm float64
}

// Resolve finds the nearest on-duty, active driver with a fresh location and
// binds it to the order. Each precondition failure surfaces as a distinct
// sentinel error so callers can report exactly what went wrong.
func (s *AssignmentService) Resolve(ctx context.Context, orderID string) (*AssignmentResult, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	// Serialize concurrent resolutions of the same order. The conditional
	// write below is the real guard; the lock just avoids wasted work.
	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireOrderLock(ctx, orderID, orderLockTTL)
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, ErrAssignmentInProgress
		}
		defer s.lockStore.ReleaseOrderLock(ctx, orderID)
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.DriverID != "" {
		return nil, ErrAlreadyAssigned
	}

	pickupLat, pickupLng, err := s.pickupCoords(ctx, order)
	if err != nil {
		return nil, err
	}

	drivers, err := s.driverRepo.GetAvailable(ctx)
	if err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, ErrNoAvailableDrivers
	}

	byID := make(map[string]*domain.Driver, len(drivers))
	driverIDs := make([]string, len(drivers))
	for i, d := range drivers {
		byID[d.ID] = d
		driverIDs[i] = d.ID
	}

	locations, err := s.locationRepo.GetByDriverIDs(ctx, driverIDs)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return nil, ErrNoLocationData
	}

	// Keep the minimum-distance candidate with a fresh location.
	// Strict < means the first encountered wins under an exact tie.
	now := time.Now()
	var best *domain.Driver
	var bestDistance float64
	for _, loc := range locations {
		driver, ok := byID[loc.DriverID]
		if !ok {
			continue
		}
		if now.Sub(loc.UpdatedAt) > locationMaxAge {
			continue
		}
		distance := Haversine(pickupLat, pickupLng, loc.Lat, loc.Lng)
		if best == nil || distance < bestDistance {
			best = driver
			bestDistance = distance
		}
	}
	if best == nil {
		return nil, ErrNoSuitableDriver
	}

	// Conditional write: only assigns while driver_id is still NULL, so a
	// racing resolution surfaces as ErrAlreadyAssigned instead of a lost update.
	if err := s.orderRepo.AssignDriver(ctx, order.ID, best.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, ErrAlreadyAssigned
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrOrderNotFound
		default:
			return nil, err
		}
	}

	return &AssignmentResult{
		DriverID:   best.ID,
		DriverName: best.Name,
		DistanceKm: RoundKm(bestDistance),
	}, nil
}

// pickupCoords returns the pickup coordinates for an order, geocoding the
// pickup address when it has not been resolved yet. Geocode results are
// cached by address and persisted back onto the order.
func (s *AssignmentService) pickupCoords(ctx context.Context, order *domain.Order) (float64, float64, error) {
	if order.PickupResolved {
		return order.PickupLat, order.PickupLng, nil
	}
	if order.PickupAddress == "" {
		return 0, 0, ErrGeocodeFailure
	}

	if s.cacheStore != nil {
		if coords, err := s.cacheStore.GetCoords(ctx, order.PickupAddress); err == nil && coords != nil {
			return coords.Lat, coords.Lng, nil
		}
	}

	lat, lng, found, err := s.geocoder.Geocode(ctx, order.PickupAddress)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrGeocodeFailure, err)
	}
	if !found {
		return 0, 0, ErrGeocodeFailure
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetCoords(ctx, order.PickupAddress, lat, lng)
	}

	// Best effort: keep the resolved coordinates on the order so the next
	// resolution skips the geocoder entirely.
	_ = s.orderRepo.UpdatePickupCoords(ctx, order.ID, lat, lng)

	return lat, lng, nil
}
