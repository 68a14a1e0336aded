package service

import (
	"context"
	"errors"

	"courier/internal/domain"
	"courier/internal/redis"
	"courier/internal/repository"
)

// EventType identifies an order lifecycle event worth notifying about.
type EventType string

const (
	EventOrderCreated   EventType = "order_created"
	EventDriverAssigned EventType = "driver_assigned"
	EventOrderPickedUp  EventType = "order_picked_up"
	EventOrderDelivered EventType = "order_delivered"
)

// ParseEventType validates an event type string.
func ParseEventType(s string) (EventType, error) {
	switch EventType(s) {
	case EventOrderCreated, EventDriverAssigned, EventOrderPickedUp, EventOrderDelivered:
		return EventType(s), nil
	default:
		return "", ErrInvalidEventType
	}
}

// SMSProvider sends a text message and returns the provider message ID.
type SMSProvider interface {
	Send(ctx context.Context, to, body string) (string, error)
}

// EmailProvider sends an HTML email and returns the provider message ID.
type EmailProvider interface {
	Send(ctx context.Context, to, subject, html string) (string, error)
}

// ChannelStatus is the outcome of one delivery channel attempt.
type ChannelStatus string

const (
	ChannelSent    ChannelStatus = "sent"
	ChannelFailed  ChannelStatus = "failed"
	ChannelSkipped ChannelStatus = "skipped"
)

// ChannelResult captures the per-channel outcome of a dispatch.
// A failed channel never fails the dispatch as a whole.
type ChannelResult struct {
	Status     ChannelStatus
	ProviderID string // set when Status is sent
	Error      string // set when Status is failed
	Reason     string // set when Status is skipped
}

// DispatchResult holds both channel outcomes for one dispatch call.
type DispatchResult struct {
	SMS   ChannelResult
	Email ChannelResult
}

// recipient is the resolved notification target for an event.
type recipient struct {
	name  string
	phone string
	email string
}

// NotificationService renders and delivers order lifecycle notifications
// over SMS and email, independently per channel.
type NotificationService struct {
	orderRepo  repository.OrderRepository
	clientRepo repository.ClientRepository
	driverRepo repository.DriverRepository
	sms        SMSProvider
	email      EmailProvider
	cacheStore *redis.CacheStore
}

// NewNotificationService creates a new NotificationService.
// cacheStore may be nil; recipient lookups then always hit the repositories.
func NewNotificationService(
	orderRepo repository.OrderRepository,
	clientRepo repository.ClientRepository,
	driverRepo repository.DriverRepository,
	sms SMSProvider,
	email EmailProvider,
	cacheStore *redis.CacheStore,
) *NotificationService {
	return &NotificationService{
		orderRepo:  orderRepo,
		clientRepo: clientRepo,
		driverRepo: driverRepo,
		sms:        sms,
		email:      email,
		cacheStore: cacheStore,
	}
}

// Dispatch renders the message for the event and attempts delivery over SMS
// and email. The only fatal failure is a missing order; everything downstream
// is captured in the per-channel results. Each channel is attempted at most
// once per invocation.
func (s *NotificationService) Dispatch(ctx context.Context, event EventType, orderID string) (*DispatchResult, error) {
	if _, err := ParseEventType(string(event)); err != nil {
		return nil, err
	}
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

	driver := s.lookupDriver(ctx, order.DriverID)

	var to recipient
	if event == EventDriverAssigned {
		if driver != nil {
			to = recipient{name: driver.Name, phone: driver.Phone, email: driver.Email}
		}
	} else {
		if client := s.lookupClient(ctx, order.ClientID); client != nil {
			to = recipient{name: client.Name, phone: client.Phone, email: client.Email}
		}
	}

	smsBody := SMSBody(event, order, driver)
	subject, html := EmailContent(event, order, driver)

	result := &DispatchResult{}
	result.SMS = s.attemptSMS(ctx, to, smsBody)
	result.Email = s.attemptEmail(ctx, to, subject, html)
	return result, nil
}

func (s *NotificationService) attemptSMS(ctx context.Context, to recipient, body string) ChannelResult {
	if to.phone == "" {
		return ChannelResult{Status: ChannelSkipped, Reason: "no phone number on file"}
	}
	id, err := s.sms.Send(ctx, to.phone, body)
	if err != nil {
		return ChannelResult{Status: ChannelFailed, Error: err.Error()}
	}
	return ChannelResult{Status: ChannelSent, ProviderID: id}
}

func (s *NotificationService) attemptEmail(ctx context.Context, to recipient, subject, html string) ChannelResult {
	if to.email == "" {
		return ChannelResult{Status: ChannelSkipped, Reason: "no email address on file"}
	}
	id, err := s.email.Send(ctx, to.email, subject, html)
	if err != nil {
		return ChannelResult{Status: ChannelFailed, Error: err.Error()}
	}
	return ChannelResult{Status: ChannelSent, ProviderID: id}
}

// lookupClient loads a client with cache-aside semantics. A missing client is
// not an error: it returns nil and the dependent channels are skipped.
func (s *NotificationService) lookupClient(ctx context.Context, clientID string) *domain.Client {
	if clientID == "" {
		return nil
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetClient(ctx, clientID); err == nil && cached != nil {
			return &domain.Client{ID: cached.ID, Name: cached.Name, Phone: cached.Phone, Email: cached.Email}
		}
	}

	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetClient(ctx, &redis.CachedClient{
			ID:    client.ID,
			Name:  client.Name,
			Phone: client.Phone,
			Email: client.Email,
		})
	}
	return client
}

// lookupDriver mirrors lookupClient for drivers.
func (s *NotificationService) lookupDriver(ctx context.Context, driverID string) *domain.Driver {
	if driverID == "" {
		return nil
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetDriver(ctx, driverID); err == nil && cached != nil {
			return &domain.Driver{
				ID:       cached.ID,
				Name:     cached.Name,
				Phone:    cached.Phone,
				Email:    cached.Email,
				IsOnDuty: cached.IsOnDuty,
				IsActive: cached.IsActive,
			}
		}
	}

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetDriver(ctx, &redis.CachedDriver{
			ID:       driver.ID,
			Name:     driver.Name,
			Phone:    driver.Phone,
			Email:    driver.Email,
			IsOnDuty: driver.IsOnDuty,
			IsActive: driver.IsActive,
		})
	}
	return driver
}
