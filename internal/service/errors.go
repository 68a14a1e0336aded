package service

import "errors"

var (
	// ErrOrderNotFound is returned when the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrAlreadyAssigned is returned when the order already has a driver.
	ErrAlreadyAssigned = errors.New("order already has a driver assigned")

	// ErrAssignmentInProgress is returned when another resolution holds the order lock.
	ErrAssignmentInProgress = errors.New("assignment already in progress for this order")

	// ErrGeocodeFailure is returned when the pickup address cannot be resolved to coordinates.
	ErrGeocodeFailure = errors.New("pickup address could not be geocoded")

	// ErrNoAvailableDrivers is returned when no driver is currently on duty and active.
	ErrNoAvailableDrivers = errors.New("no drivers currently available")

	// ErrNoLocationData is returned when no eligible driver has a recorded location.
	ErrNoLocationData = errors.New("no location data for any available driver")

	// ErrNoSuitableDriver is returned when every candidate location is stale.
	ErrNoSuitableDriver = errors.New("no driver with a recent enough location")

	// ErrInvalidOrderID is returned when the order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrInvalidClientID is returned when the client ID is empty.
	ErrInvalidClientID = errors.New("invalid client id")

	// ErrInvalidDriverID is returned when the driver ID is empty.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidEventType is returned when the notification event type is unknown.
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrInvalidPickupAddress is returned when the pickup address is empty.
	ErrInvalidPickupAddress = errors.New("invalid pickup address")

	// ErrInvalidDropoffAddress is returned when the dropoff address is empty.
	ErrInvalidDropoffAddress = errors.New("invalid dropoff address")

	// ErrInvalidLocation is returned when location coordinates are out of range.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrOrderNotAssigned is returned when a pickup is reported for an order without a driver.
	ErrOrderNotAssigned = errors.New("order has no driver assigned")

	// ErrOrderNotPending is returned when a pickup is reported for an order not in the pending state.
	ErrOrderNotPending = errors.New("order is not pending")

	// ErrOrderNotPickedUp is returned when a delivery is reported before pickup.
	ErrOrderNotPickedUp = errors.New("order has not been picked up")

	// ErrOrderAlreadyCancelled is returned when cancelling an already cancelled order.
	ErrOrderAlreadyCancelled = errors.New("order already cancelled")

	// ErrOrderCannotBeCancelled is returned when the order is in a state that cannot be cancelled.
	ErrOrderCannotBeCancelled = errors.New("order cannot be cancelled in current state")
)
