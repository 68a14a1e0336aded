package postgres

import (
	"context"
	"database/sql"
	"errors"

	"courier/internal/domain"
	"courier/internal/repository"
)

// ClientRepository is a PostgreSQL implementation of repository.ClientRepository.
type ClientRepository struct {
	q Querier
}

// NewClientRepository creates a new PostgreSQL client repository.
func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{q: db}
}

// Create adds a new client.
func (r *ClientRepository) Create(ctx context.Context, client *domain.Client) error {
	query := `INSERT INTO clients (id, name, phone, email, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.ExecContext(ctx, query,
		client.ID, client.Name, client.Phone, client.Email, client.CreatedAt)
	return err
}

// GetByID retrieves a client by ID.
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	query := `SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(email, ''), created_at FROM clients WHERE id = $1`

	var client domain.Client
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&client.ID,
		&client.Name,
		&client.Phone,
		&client.Email,
		&client.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &client, nil
}

// GetAll retrieves all clients.
func (r *ClientRepository) GetAll(ctx context.Context) ([]*domain.Client, error) {
	query := `SELECT id, COALESCE(name, ''), COALESCE(phone, ''), COALESCE(email, ''), created_at FROM clients ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Phone, &client.Email, &client.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, &client)
	}
	return clients, rows.Err()
}
