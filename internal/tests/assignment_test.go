package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"courier/internal/domain"
	"courier/internal/provider"
	"courier/internal/repository"
	"courier/internal/service"
)

// Melbourne CBD pickup point used across these tests.
const (
	pickupLat = -37.8136
	pickupLng = 144.9631
)

func newResolvedOrder(id string) *domain.Order {
	return &domain.Order{
		ID:             id,
		ClientID:       "client-1",
		PickupAddress:  "200 Spencer St, Melbourne",
		PickupLat:      pickupLat,
		PickupLng:      pickupLng,
		PickupResolved: true,
		DropoffAddress: "1 Collins St, Melbourne",
		Status:         domain.OrderStatusPending,
		DriverStatus:   domain.DriverUnassigned,
		CreatedAt:      time.Now(),
	}
}

func newOnDutyDriver(id, name string) *domain.Driver {
	return &domain.Driver{
		ID:       id,
		Name:     name,
		Phone:    "+61400000000",
		IsOnDuty: true,
		IsActive: true,
	}
}

func TestResolve_NearestDriverWins(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()
	locationRepo := NewMockLocationRepository()
	geocoder := NewMockGeocoder(pickupLat, pickupLng)

	orderRepo.AddOrder(newResolvedOrder("order-1"))

	// D1 is about 0.94 km from the pickup, D2 several km away.
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))
	driverRepo.AddDriver(newOnDutyDriver("driver-2", "Bob"))
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-1",
		Lat:       -37.8200,
		Lng:       144.9700,
		UpdatedAt: time.Now().Add(-1 * time.Minute),
	})
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-2",
		Lat:       -37.9000,
		Lng:       145.0500,
		UpdatedAt: time.Now().Add(-1 * time.Minute),
	})

	svc := service.NewAssignmentService(orderRepo, driverRepo, locationRepo, geocoder, nil, nil)

	result, err := svc.Resolve(ctx, "order-1")
	if err != nil {
		t.Fatalf("failed to resolve assignment: %v", err)
	}
	if result.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", result.DriverID)
	}
	if result.DriverName != "Alice" {
		t.Errorf("expected driver name Alice, got %s", result.DriverName)
	}
	if result.DistanceKm < 0.9 || result.DistanceKm > 1.0 {
		t.Errorf("expected distance between 0.9 and 1.0 km, got %f", result.DistanceKm)
	}

	// The order must carry the binding.
	order := orderRepo.GetOrder("order-1")
	if order.DriverID != "driver-1" {
		t.Errorf("expected order bound to driver-1, got %q", order.DriverID)
	}
	if order.DriverStatus != domain.DriverAssigned {
		t.Errorf("expected driver status assigned, got %s", order.DriverStatus)
	}

	// Geocoding must be skipped for an already-resolved pickup.
	if geocoder.CallCount != 0 {
		t.Errorf("expected no geocoder calls, got %d", geocoder.CallCount)
	}
}

func TestResolve_StaleLocationFiltered(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()
	locationRepo := NewMockLocationRepository()

	orderRepo.AddOrder(newResolvedOrder("order-1"))

	// D1 is closer but its location is 6 minutes old; D2 is farther with a
	// 4-minute-old location. D2 must win.
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))
	driverRepo.AddDriver(newOnDutyDriver("driver-2", "Bob"))
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-1",
		Lat:       -37.8150,
		Lng:       144.9640,
		UpdatedAt: time.Now().Add(-6 * time.Minute),
	})
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-2",
		Lat:       -37.8300,
		Lng:       144.9800,
		UpdatedAt: time.Now().Add(-4 * time.Minute),
	})

	svc := service.NewAssignmentService(orderRepo, driverRepo, locationRepo, NewMockGeocoder(0, 0), nil, nil)

	result, err := svc.Resolve(ctx, "order-1")
	if err != nil {
		t.Fatalf("failed to resolve assignment: %v", err)
	}
	if result.DriverID != "driver-2" {
		t.Errorf("expected driver-2 (fresh location), got %s", result.DriverID)
	}
}

func TestResolve_StalenessBoundary(t *testing.T) {
	ctx := context.Background()

	// A sample just inside the five-minute window is usable; one just past it
	// is not.
	cases := []struct {
		name    string
		age     time.Duration
		wantErr error
	}{
		{name: "just inside window", age: 5*time.Minute - 2*time.Second, wantErr: nil},
		{name: "just past window", age: 5*time.Minute + 2*time.Second, wantErr: service.ErrNoSuitableDriver},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := NewMockOrderRepository()
			driverRepo := NewMockDriverRepository()
			locationRepo := NewMockLocationRepository()

			orderRepo.AddOrder(newResolvedOrder("order-1"))
			driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))
			locationRepo.SetLocation(&domain.DriverLocation{
				DriverID:  "driver-1",
				Lat:       -37.8200,
				Lng:       144.9700,
				UpdatedAt: time.Now().Add(-tc.age),
			})

			svc := service.NewAssignmentService(orderRepo, driverRepo, locationRepo, NewMockGeocoder(0, 0), nil, nil)

			result, err := svc.Resolve(ctx, "order-1")
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected assignment, got error: %v", err)
				}
				if result.DriverID != "driver-1" {
					t.Errorf("expected driver-1, got %s", result.DriverID)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestResolve_AlreadyAssigned(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	order := newResolvedOrder("order-1")
	order.DriverID = "driver-9"
	order.DriverStatus = domain.DriverAssigned
	orderRepo.AddOrder(order)

	svc := service.NewAssignmentService(orderRepo, NewMockDriverRepository(), NewMockLocationRepository(), NewMockGeocoder(0, 0), nil, nil)

	_, err := svc.Resolve(ctx, "order-1")
	if !errors.Is(err, service.ErrAlreadyAssigned) {
		t.Errorf("expected ErrAlreadyAssigned, got %v", err)
	}
	if orderRepo.AssignDriverCallCount != 0 {
		t.Errorf("expected no assignment write, got %d", orderRepo.AssignDriverCallCount)
	}
	if got := orderRepo.GetOrder("order-1").DriverID; got != "driver-9" {
		t.Errorf("expected binding to stay on driver-9, got %s", got)
	}
}

func TestResolve_OrderNotFound(t *testing.T) {
	ctx := context.Background()

	svc := service.NewAssignmentService(NewMockOrderRepository(), NewMockDriverRepository(), NewMockLocationRepository(), NewMockGeocoder(0, 0), nil, nil)

	_, err := svc.Resolve(ctx, "missing-order")
	if !errors.Is(err, service.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestResolve_GeocodesUnresolvedPickup(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()
	locationRepo := NewMockLocationRepository()
	geocoder := NewMockGeocoder(pickupLat, pickupLng)

	order := newResolvedOrder("order-1")
	order.PickupResolved = false
	order.PickupLat = 0
	order.PickupLng = 0
	orderRepo.AddOrder(order)

	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-1",
		Lat:       -37.8200,
		Lng:       144.9700,
		UpdatedAt: time.Now().Add(-1 * time.Minute),
	})

	svc := service.NewAssignmentService(orderRepo, driverRepo, locationRepo, geocoder, nil, nil)

	result, err := svc.Resolve(ctx, "order-1")
	if err != nil {
		t.Fatalf("failed to resolve assignment: %v", err)
	}
	if result.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", result.DriverID)
	}
	if geocoder.CallCount != 1 {
		t.Errorf("expected one geocoder call, got %d", geocoder.CallCount)
	}

	// Resolved coordinates are persisted back onto the order.
	stored := orderRepo.GetOrder("order-1")
	if !stored.PickupResolved {
		t.Error("expected pickup coordinates to be persisted")
	}
	if stored.PickupLat != pickupLat || stored.PickupLng != pickupLng {
		t.Errorf("expected persisted coords (%f, %f), got (%f, %f)",
			pickupLat, pickupLng, stored.PickupLat, stored.PickupLng)
	}
}

func TestResolve_GeocodeFailure(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name     string
		geocoder *MockGeocoder
	}{
		{
			name:     "provider error",
			geocoder: &MockGeocoder{Err: errors.New("upstream timeout")},
		},
		{
			name:     "missing credentials",
			geocoder: &MockGeocoder{Err: provider.ErrNoCredentials},
		},
		{
			name:     "address not found",
			geocoder: &MockGeocoder{Found: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			orderRepo := NewMockOrderRepository()
			order := newResolvedOrder("order-1")
			order.PickupResolved = false
			orderRepo.AddOrder(order)

			svc := service.NewAssignmentService(orderRepo, NewMockDriverRepository(), NewMockLocationRepository(), tc.geocoder, nil, nil)

			_, err := svc.Resolve(ctx, "order-1")
			if !errors.Is(err, service.ErrGeocodeFailure) {
				t.Errorf("expected ErrGeocodeFailure, got %v", err)
			}
			if orderRepo.AssignDriverCallCount != 0 {
				t.Errorf("expected no assignment write, got %d", orderRepo.AssignDriverCallCount)
			}
		})
	}
}

func TestResolve_NoAvailableDrivers(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()

	orderRepo.AddOrder(newResolvedOrder("order-1"))

	// One off-duty and one deactivated driver, neither eligible.
	offDuty := newOnDutyDriver("driver-1", "Alice")
	offDuty.IsOnDuty = false
	inactive := newOnDutyDriver("driver-2", "Bob")
	inactive.IsActive = false
	driverRepo.AddDriver(offDuty)
	driverRepo.AddDriver(inactive)

	svc := service.NewAssignmentService(orderRepo, driverRepo, NewMockLocationRepository(), NewMockGeocoder(0, 0), nil, nil)

	_, err := svc.Resolve(ctx, "order-1")
	if !errors.Is(err, service.ErrNoAvailableDrivers) {
		t.Errorf("expected ErrNoAvailableDrivers, got %v", err)
	}
	if orderRepo.AssignDriverCallCount != 0 {
		t.Errorf("expected no assignment write, got %d", orderRepo.AssignDriverCallCount)
	}
	if orderRepo.GetOrder("order-1").DriverID != "" {
		t.Error("expected order to remain unassigned")
	}
}

func TestResolve_NoLocationData(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()

	orderRepo.AddOrder(newResolvedOrder("order-1"))
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))

	// No location rows at all for the eligible driver.
	svc := service.NewAssignmentService(orderRepo, driverRepo, NewMockLocationRepository(), NewMockGeocoder(0, 0), nil, nil)

	_, err := svc.Resolve(ctx, "order-1")
	if !errors.Is(err, service.ErrNoLocationData) {
		t.Errorf("expected ErrNoLocationData, got %v", err)
	}
}

func TestResolve_NoSuitableDriver(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()
	locationRepo := NewMockLocationRepository()

	orderRepo.AddOrder(newResolvedOrder("order-1"))

	// Locations exist but all of them are stale.
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))
	driverRepo.AddDriver(newOnDutyDriver("driver-2", "Bob"))
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-1",
		Lat:       -37.8200,
		Lng:       144.9700,
		UpdatedAt: time.Now().Add(-10 * time.Minute),
	})
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-2",
		Lat:       -37.8300,
		Lng:       144.9800,
		UpdatedAt: time.Now().Add(-20 * time.Minute),
	})

	svc := service.NewAssignmentService(orderRepo, driverRepo, locationRepo, NewMockGeocoder(0, 0), nil, nil)

	_, err := svc.Resolve(ctx, "order-1")
	if !errors.Is(err, service.ErrNoSuitableDriver) {
		t.Errorf("expected ErrNoSuitableDriver, got %v", err)
	}
	if orderRepo.GetOrder("order-1").DriverID != "" {
		t.Error("expected order to remain unassigned")
	}
}

func TestResolve_ConditionalWriteConflict(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	driverRepo := NewMockDriverRepository()
	locationRepo := NewMockLocationRepository()

	orderRepo.AddOrder(newResolvedOrder("order-1"))
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))
	locationRepo.SetLocation(&domain.DriverLocation{
		DriverID:  "driver-1",
		Lat:       -37.8200,
		Lng:       144.9700,
		UpdatedAt: time.Now().Add(-1 * time.Minute),
	})

	// Simulate a racing resolution winning the conditional write first.
	orderRepo.AssignDriverError = repository.ErrConflict

	svc := service.NewAssignmentService(orderRepo, driverRepo, locationRepo, NewMockGeocoder(0, 0), nil, nil)

	_, err := svc.Resolve(ctx, "order-1")
	if !errors.Is(err, service.ErrAlreadyAssigned) {
		t.Errorf("expected ErrAlreadyAssigned on write conflict, got %v", err)
	}
}

func TestResolve_LockHeld(t *testing.T) {
	ctx := context.Background()

	orderRepo := NewMockOrderRepository()
	orderRepo.AddOrder(newResolvedOrder("order-1"))

	lockStore := NewMockLockStore()
	if _, err := lockStore.AcquireOrderLock(ctx, "order-1", time.Minute); err != nil {
		t.Fatalf("failed to pre-acquire lock: %v", err)
	}

	svc := service.NewAssignmentService(orderRepo, NewMockDriverRepository(), NewMockLocationRepository(), NewMockGeocoder(0, 0), nil, lockStore)

	_, err := svc.Resolve(ctx, "order-1")
	if !errors.Is(err, service.ErrAssignmentInProgress) {
		t.Errorf("expected ErrAssignmentInProgress, got %v", err)
	}
}
