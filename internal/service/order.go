package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"courier/internal/domain"
	"courier/internal/repository"
)

// AssignmentResolverInterface defines the assignment resolver contract.
// This interface allows for testing with mock implementations.
type AssignmentResolverInterface interface {
	Resolve(ctx context.Context, orderID string) (*AssignmentResult, error)
}

// NotifierInterface defines the notification dispatcher contract.
type NotifierInterface interface {
	Dispatch(ctx context.Context, event EventType, orderID string) (*DispatchResult, error)
}

// Ensure concrete services implement the contracts.
var (
	_ AssignmentResolverInterface = (*AssignmentService)(nil)
	_ NotifierInterface           = (*NotificationService)(nil)
)

// OrderService handles the order lifecycle and drives assignment and
// notifications off its transitions.
type OrderService struct {
	orderRepo     repository.OrderRepository
	assignment    AssignmentResolverInterface
	notifications NotifierInterface
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repository.OrderRepository,
	assignment AssignmentResolverInterface,
	notifications NotifierInterface,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		assignment:    assignment,
		notifications: notifications,
	}
}

// CreateOrderRequest contains the parameters for creating an order.
type CreateOrderRequest struct {
	ClientID        string
	PickupAddress   string
	DropoffAddress  string
	TotalCost       float64 // optional, 0 means not yet priced
	AwaitingPayment bool    // true puts the order in pending_payment instead of pending
}

// CreateOrderResponse contains the result of creating an order.
type CreateOrderResponse struct {
	Order          *domain.Order
	DriverAssigned bool
	Assignment     *AssignmentResult
}

// CreateOrder creates a new order, notifies the client, and attempts an
// immediate driver assignment. Assignment failure is not fatal: the order is
// simply left unassigned for a later manual or automatic retry.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if req.ClientID == "" {
		return nil, ErrInvalidClientID
	}
	if req.PickupAddress == "" {
		return nil, ErrInvalidPickupAddress
	}
	if req.DropoffAddress == "" {
		return nil, ErrInvalidDropoffAddress
	}

	status := domain.OrderStatusPending
	if req.AwaitingPayment {
		status = domain.OrderStatusPendingPayment
	}

	order := &domain.Order{
		ID:             uuid.New().String(),
		ClientID:       req.ClientID,
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		DriverStatus:   domain.DriverUnassigned,
		Status:         status,
		TotalCost:      req.TotalCost,
		CreatedAt:      time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	s.dispatch(ctx, EventOrderCreated, order.ID)

	// Trigger assignment synchronously. Any resolver precondition failure
	// leaves the order unassigned rather than failing the creation.
	assignment, err := s.assignment.Resolve(ctx, order.ID)
	if err != nil {
		if isAssignmentPrecondition(err) {
			return &CreateOrderResponse{Order: order, DriverAssigned: false}, nil
		}
		return nil, err
	}

	order.DriverID = assignment.DriverID
	order.DriverStatus = domain.DriverAssigned
	order.Status = domain.OrderStatusPending

	s.dispatch(ctx, EventDriverAssigned, order.ID)

	return &CreateOrderResponse{
		Order:          order,
		DriverAssigned: true,
		Assignment:     assignment,
	}, nil
}

// AssignmentOutcome pairs the resolver result with the driver notification outcome.
type AssignmentOutcome struct {
	Assignment   *AssignmentResult
	Notification *DispatchResult
}

// AssignDriver resolves an assignment on demand (the manual admin trigger)
// and notifies the chosen driver.
func (s *OrderService) AssignDriver(ctx context.Context, orderID string) (*AssignmentOutcome, error) {
	assignment, err := s.assignment.Resolve(ctx, orderID)
	if err != nil {
		return nil, err
	}

	outcome := &AssignmentOutcome{Assignment: assignment}
	if s.notifications != nil {
		notification, err := s.notifications.Dispatch(ctx, EventDriverAssigned, orderID)
		if err != nil {
			log.Printf("driver_assigned notification failed for order %s: %v", orderID, err)
		} else {
			outcome.Notification = notification
		}
	}
	return outcome, nil
}

// MarkPickedUp transitions a pending, assigned order to picked_up and
// notifies the client.
func (s *OrderService) MarkPickedUp(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.DriverID == "" {
		return nil, ErrOrderNotAssigned
	}
	if order.Status != domain.OrderStatusPending {
		return nil, ErrOrderNotPending
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusPickedUp); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusPickedUp

	s.dispatch(ctx, EventOrderPickedUp, order.ID)

	return order, nil
}

// MarkDelivered transitions a picked_up order to delivered and notifies the client.
func (s *OrderService) MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusPickedUp {
		return nil, ErrOrderNotPickedUp
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusDelivered); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusDelivered

	s.dispatch(ctx, EventOrderDelivered, order.ID)

	return order, nil
}

// CancelOrder cancels an order that has not been delivered yet.
func (s *OrderService) CancelOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderStatusCancelled {
		return nil, ErrOrderAlreadyCancelled
	}
	if order.Status == domain.OrderStatusDelivered {
		return nil, ErrOrderCannotBeCancelled
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusCancelled

	return order, nil
}

// Notify re-dispatches a lifecycle event for an order (admin action).
func (s *OrderService) Notify(ctx context.Context, event EventType, orderID string) (*DispatchResult, error) {
	if s.notifications == nil {
		return nil, ErrInvalidEventType
	}
	return s.notifications.Dispatch(ctx, event, orderID)
}

// GetOrder retrieves an order by ID.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.getOrder(ctx, orderID)
}

// GetAll retrieves recent orders.
func (s *OrderService) GetAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.GetAll(ctx)
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// dispatch fires a notification without letting delivery problems affect the
// lifecycle transition that triggered it.
func (s *OrderService) dispatch(ctx context.Context, event EventType, orderID string) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Dispatch(ctx, event, orderID); err != nil {
		log.Printf("%s notification failed for order %s: %v", event, orderID, err)
	}
}

// isAssignmentPrecondition reports whether an assignment error is one of the
// resolver's expected precondition outcomes (as opposed to an infrastructure
// failure).
func isAssignmentPrecondition(err error) bool {
	return errors.Is(err, ErrAlreadyAssigned) ||
		errors.Is(err, ErrAssignmentInProgress) ||
		errors.Is(err, ErrGeocodeFailure) ||
		errors.Is(err, ErrNoAvailableDrivers) ||
		errors.Is(err, ErrNoLocationData) ||
		errors.Is(err, ErrNoSuitableDriver)
}
