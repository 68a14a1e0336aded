package domain

import "time"

// Client represents a customer placing delivery orders.
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}
