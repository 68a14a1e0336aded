package postgres

import (
	"context"
	"database/sql"
	"errors"

	"courier/internal/domain"
	"courier/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

const orderColumns = `id, client_id, pickup_address, pickup_lat, pickup_lng, dropoff_address, driver_id, driver_status, status, total_cost, created_at`

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var pickupLat, pickupLng sql.NullFloat64
	if order.PickupResolved {
		pickupLat = sql.NullFloat64{Float64: order.PickupLat, Valid: true}
		pickupLng = sql.NullFloat64{Float64: order.PickupLng, Valid: true}
	}

	var driverID sql.NullString
	if order.DriverID != "" {
		driverID = sql.NullString{String: order.DriverID, Valid: true}
	}

	var totalCost sql.NullFloat64
	if order.TotalCost > 0 {
		totalCost = sql.NullFloat64{Float64: order.TotalCost, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		order.ID,
		order.ClientID,
		order.PickupAddress,
		pickupLat,
		pickupLng,
		order.DropoffAddress,
		driverID,
		order.DriverStatus,
		order.Status,
		totalCost,
		order.CreatedAt,
	)

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetAll retrieves recent orders, newest first.
func (r *OrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// UpdateStatus updates the lifecycle status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

// UpdatePickupCoords stores the geocoded pickup coordinates for an order.
func (r *OrderRepository) UpdatePickupCoords(ctx context.Context, id string, lat, lng float64) error {
	query := `UPDATE orders SET pickup_lat = $1, pickup_lng = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, lat, lng, id)
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

// AssignDriver binds a driver to an order with a conditional write: the update
// only applies while driver_id is still NULL, so a racing assignment cannot be
// silently overwritten.
func (r *OrderRepository) AssignDriver(ctx context.Context, orderID, driverID string) error {
	query := `
		UPDATE orders
		SET driver_id = $1, driver_status = $2, status = $3
		WHERE id = $4 AND driver_id IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, driverID, domain.DriverAssigned, domain.OrderStatusPending, orderID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	// Zero rows: either the order is gone or someone else assigned it first.
	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var pickupLat, pickupLng, totalCost sql.NullFloat64
	var driverID sql.NullString

	err := row.Scan(
		&order.ID,
		&order.ClientID,
		&order.PickupAddress,
		&pickupLat,
		&pickupLng,
		&order.DropoffAddress,
		&driverID,
		&order.DriverStatus,
		&order.Status,
		&totalCost,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pickupLat.Valid && pickupLng.Valid {
		order.PickupLat = pickupLat.Float64
		order.PickupLng = pickupLng.Float64
		order.PickupResolved = true
	}
	if driverID.Valid {
		order.DriverID = driverID.String
	}
	if totalCost.Valid {
		order.TotalCost = totalCost.Float64
	}

	return &order, nil
}
