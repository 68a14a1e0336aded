package domain

import "time"

// Driver represents a delivery driver.
// A driver is eligible for assignment iff IsOnDuty and IsActive are both true.
type Driver struct {
	ID       string
	Name     string
	Phone    string
	Email    string
	IsOnDuty bool // driver-set availability flag
	IsActive bool // approved and enabled by an admin
}

// DriverLocation is the last reported position of a driver.
// At most one row per driver; writes are upserts (latest wins).
type DriverLocation struct {
	DriverID  string
	Lat       float64
	Lng       float64
	UpdatedAt time.Time
}
