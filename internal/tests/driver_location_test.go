package tests

import (
	"context"
	"errors"
	"testing"

	"courier/internal/repository"
	"courier/internal/service"
)

func TestRegisterDriver_StartsOffDuty(t *testing.T) {
	ctx := context.Background()

	driverRepo := NewMockDriverRepository()
	svc := service.NewDriverService(driverRepo, NewMockLocationRepository(), nil)

	driver, err := svc.Register(ctx, service.RegisterDriverRequest{
		Name:  "Alice",
		Phone: "+61422222222",
		Email: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("failed to register driver: %v", err)
	}
	if driver.ID == "" {
		t.Error("expected a generated driver ID")
	}
	if driver.IsOnDuty {
		t.Error("expected a new driver to start off duty")
	}
	if !driver.IsActive {
		t.Error("expected a new driver to start active")
	}
}

func TestSetDuty(t *testing.T) {
	ctx := context.Background()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))

	svc := service.NewDriverService(driverRepo, NewMockLocationRepository(), nil)

	if err := svc.SetDuty(ctx, "driver-1", false); err != nil {
		t.Fatalf("failed to set duty: %v", err)
	}

	driver, err := driverRepo.GetByID(ctx, "driver-1")
	if err != nil {
		t.Fatalf("failed to load driver: %v", err)
	}
	if driver.IsOnDuty {
		t.Error("expected the driver to be off duty")
	}

	if err := svc.SetDuty(ctx, "missing-driver", true); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for an unknown driver, got %v", err)
	}
}

func TestUpdateLocation(t *testing.T) {
	ctx := context.Background()

	driverRepo := NewMockDriverRepository()
	locationRepo := NewMockLocationRepository()
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))

	svc := service.NewDriverService(driverRepo, locationRepo, nil)

	if err := svc.UpdateLocation(ctx, "driver-1", -37.8200, 144.9700); err != nil {
		t.Fatalf("failed to update location: %v", err)
	}

	locations, err := locationRepo.GetByDriverIDs(ctx, []string{"driver-1"})
	if err != nil {
		t.Fatalf("failed to load locations: %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("expected one location row, got %d", len(locations))
	}
	if locations[0].Lat != -37.8200 || locations[0].Lng != 144.9700 {
		t.Errorf("unexpected stored coordinates: (%f, %f)", locations[0].Lat, locations[0].Lng)
	}
	if locations[0].UpdatedAt.IsZero() {
		t.Error("expected a non-zero update timestamp")
	}

	// Latest write wins: a second update replaces the row.
	if err := svc.UpdateLocation(ctx, "driver-1", -37.8300, 144.9800); err != nil {
		t.Fatalf("failed to update location: %v", err)
	}
	locations, _ = locationRepo.GetByDriverIDs(ctx, []string{"driver-1"})
	if len(locations) != 1 || locations[0].Lat != -37.8300 {
		t.Errorf("expected the latest location to replace the previous one, got %+v", locations)
	}
}

func TestUpdateLocation_Validation(t *testing.T) {
	ctx := context.Background()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(newOnDutyDriver("driver-1", "Alice"))

	svc := service.NewDriverService(driverRepo, NewMockLocationRepository(), nil)

	cases := []struct {
		name     string
		driverID string
		lat, lng float64
		wantErr  error
	}{
		{name: "missing driver id", driverID: "", lat: 0, lng: 0, wantErr: service.ErrInvalidDriverID},
		{name: "latitude out of range", driverID: "driver-1", lat: 91, lng: 0, wantErr: service.ErrInvalidLocation},
		{name: "longitude out of range", driverID: "driver-1", lat: 0, lng: -181, wantErr: service.ErrInvalidLocation},
		{name: "unknown driver", driverID: "missing-driver", lat: 0, lng: 0, wantErr: repository.ErrNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.UpdateLocation(ctx, tc.driverID, tc.lat, tc.lng)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}
