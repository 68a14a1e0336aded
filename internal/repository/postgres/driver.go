package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"courier/internal/domain"
	"courier/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `INSERT INTO drivers (id, name, phone, email, is_on_duty, is_active) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.ExecContext(ctx, query,
		driver.ID, driver.Name, driver.Phone, driver.Email, driver.IsOnDuty, driver.IsActive)
	return err
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(email, ''), is_on_duty, is_active FROM drivers WHERE id = $1`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&driver.Email,
		&driver.IsOnDuty,
		&driver.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// GetAll retrieves all drivers.
func (r *DriverRepository) GetAll(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(email, ''), is_on_duty, is_active FROM drivers ORDER BY id`
	return r.queryDrivers(ctx, query)
}

// GetAvailable retrieves drivers that are on duty and active.
func (r *DriverRepository) GetAvailable(ctx context.Context) ([]*domain.Driver, error) {
	query := `SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(email, ''), is_on_duty, is_active FROM drivers WHERE is_on_duty AND is_active ORDER BY id`
	return r.queryDrivers(ctx, query)
}

func (r *DriverRepository) queryDrivers(ctx context.Context, query string) ([]*domain.Driver, error) {
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		var driver domain.Driver
		if err := rows.Scan(&driver.ID, &driver.Name, &driver.Phone, &driver.Email, &driver.IsOnDuty, &driver.IsActive); err != nil {
			return nil, err
		}
		drivers = append(drivers, &driver)
	}
	return drivers, rows.Err()
}

// SetOnDuty updates the on-duty flag of a driver.
func (r *DriverRepository) SetOnDuty(ctx context.Context, id string, onDuty bool) error {
	query := `UPDATE drivers SET is_on_duty = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, onDuty, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// LocationRepository is a PostgreSQL implementation of repository.LocationRepository.
type LocationRepository struct {
	q Querier
}

// NewLocationRepository creates a new PostgreSQL location repository.
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{q: db}
}

// Upsert stores the latest location for a driver (one row per driver).
func (r *LocationRepository) Upsert(ctx context.Context, loc *domain.DriverLocation) error {
	query := `
		INSERT INTO driver_locations (driver_id, lat, lng, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (driver_id) DO UPDATE
		SET lat = EXCLUDED.lat, lng = EXCLUDED.lng, updated_at = EXCLUDED.updated_at
	`
	_, err := r.q.ExecContext(ctx, query, loc.DriverID, loc.Lat, loc.Lng, loc.UpdatedAt)
	return err
}

// GetByDriverIDs retrieves current locations for the given drivers.
func (r *LocationRepository) GetByDriverIDs(ctx context.Context, driverIDs []string) ([]*domain.DriverLocation, error) {
	if len(driverIDs) == 0 {
		return nil, nil
	}

	query := `SELECT driver_id, lat, lng, updated_at FROM driver_locations WHERE driver_id = ANY($1)`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(driverIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*domain.DriverLocation
	for rows.Next() {
		var loc domain.DriverLocation
		if err := rows.Scan(&loc.DriverID, &loc.Lat, &loc.Lng, &loc.UpdatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, &loc)
	}
	return locations, rows.Err()
}
