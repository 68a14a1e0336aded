package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"courier/internal/domain"
	"courier/internal/service"
)

func notificationFixture() (*MockOrderRepository, *MockClientRepository, *MockDriverRepository, *MockSMSProvider, *MockEmailProvider, *service.NotificationService) {
	orderRepo := NewMockOrderRepository()
	clientRepo := NewMockClientRepository()
	driverRepo := NewMockDriverRepository()
	sms := NewMockSMSProvider()
	email := NewMockEmailProvider()
	svc := service.NewNotificationService(orderRepo, clientRepo, driverRepo, sms, email, nil)
	return orderRepo, clientRepo, driverRepo, sms, email, svc
}

func notifiableOrder(id, clientID string) *domain.Order {
	return &domain.Order{
		ID:             id,
		ClientID:       clientID,
		PickupAddress:  "200 Spencer St, Melbourne",
		DropoffAddress: "1 Collins St, Melbourne",
		Status:         domain.OrderStatusPending,
		TotalCost:      42.50,
		CreatedAt:      time.Now(),
	}
}

func TestDispatch_PhoneOnlyClient(t *testing.T) {
	ctx := context.Background()

	orderRepo, clientRepo, _, sms, email, svc := notificationFixture()

	orderRepo.AddOrder(notifiableOrder("order-1", "client-1"))
	clientRepo.AddClient(&domain.Client{
		ID:    "client-1",
		Name:  "Carol",
		Phone: "+61411111111",
		// No email on file.
	})

	result, err := svc.Dispatch(ctx, service.EventOrderCreated, "order-1")
	if err != nil {
		t.Fatalf("failed to dispatch notification: %v", err)
	}

	if result.SMS.Status != service.ChannelSent {
		t.Errorf("expected SMS sent, got %s (%s)", result.SMS.Status, result.SMS.Error)
	}
	if result.SMS.ProviderID == "" {
		t.Error("expected a provider message ID on the sent SMS")
	}
	if sms.LastTo != "+61411111111" {
		t.Errorf("expected SMS to +61411111111, got %s", sms.LastTo)
	}

	if result.Email.Status != service.ChannelSkipped {
		t.Errorf("expected email skipped, got %s", result.Email.Status)
	}
	if result.Email.Reason == "" {
		t.Error("expected a skip reason on the email channel")
	}
	if email.CallCount != 0 {
		t.Errorf("expected no email provider calls, got %d", email.CallCount)
	}
}

func TestDispatch_MissingOrder(t *testing.T) {
	ctx := context.Background()

	_, _, _, sms, email, svc := notificationFixture()

	_, err := svc.Dispatch(ctx, service.EventOrderCreated, "missing-order")
	if !errors.Is(err, service.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
	if sms.CallCount != 0 || email.CallCount != 0 {
		t.Errorf("expected no provider calls, got sms=%d email=%d", sms.CallCount, email.CallCount)
	}
}

func TestDispatch_ChannelsFailIndependently(t *testing.T) {
	ctx := context.Background()

	t.Run("sms failure does not block email", func(t *testing.T) {
		orderRepo, clientRepo, _, sms, email, svc := notificationFixture()
		orderRepo.AddOrder(notifiableOrder("order-1", "client-1"))
		clientRepo.AddClient(&domain.Client{
			ID:    "client-1",
			Name:  "Carol",
			Phone: "+61411111111",
			Email: "carol@example.com",
		})
		sms.Err = errors.New("gateway rejected message")

		result, err := svc.Dispatch(ctx, service.EventOrderCreated, "order-1")
		if err != nil {
			t.Fatalf("expected dispatch to succeed despite SMS failure: %v", err)
		}
		if result.SMS.Status != service.ChannelFailed {
			t.Errorf("expected SMS failed, got %s", result.SMS.Status)
		}
		if result.SMS.Error == "" {
			t.Error("expected a captured error on the failed SMS channel")
		}
		if result.Email.Status != service.ChannelSent {
			t.Errorf("expected email sent, got %s", result.Email.Status)
		}
		if email.CallCount != 1 {
			t.Errorf("expected one email attempt, got %d", email.CallCount)
		}
	})

	t.Run("email failure does not block sms", func(t *testing.T) {
		orderRepo, clientRepo, _, sms, email, svc := notificationFixture()
		orderRepo.AddOrder(notifiableOrder("order-1", "client-1"))
		clientRepo.AddClient(&domain.Client{
			ID:    "client-1",
			Name:  "Carol",
			Phone: "+61411111111",
			Email: "carol@example.com",
		})
		email.Err = errors.New("mail provider unavailable")

		result, err := svc.Dispatch(ctx, service.EventOrderCreated, "order-1")
		if err != nil {
			t.Fatalf("expected dispatch to succeed despite email failure: %v", err)
		}
		if result.SMS.Status != service.ChannelSent {
			t.Errorf("expected SMS sent, got %s", result.SMS.Status)
		}
		if result.Email.Status != service.ChannelFailed {
			t.Errorf("expected email failed, got %s", result.Email.Status)
		}
		if sms.CallCount != 1 {
			t.Errorf("expected one SMS attempt, got %d", sms.CallCount)
		}
	})
}

func TestDispatch_DriverAssignedTargetsDriver(t *testing.T) {
	ctx := context.Background()

	orderRepo, clientRepo, driverRepo, sms, email, svc := notificationFixture()

	order := notifiableOrder("order-1", "client-1")
	order.DriverID = "driver-1"
	order.DriverStatus = domain.DriverAssigned
	orderRepo.AddOrder(order)

	clientRepo.AddClient(&domain.Client{
		ID:    "client-1",
		Name:  "Carol",
		Phone: "+61411111111",
		Email: "carol@example.com",
	})
	driverRepo.AddDriver(&domain.Driver{
		ID:       "driver-1",
		Name:     "Alice",
		Phone:    "+61422222222",
		Email:    "alice@example.com",
		IsOnDuty: true,
		IsActive: true,
	})

	result, err := svc.Dispatch(ctx, service.EventDriverAssigned, "order-1")
	if err != nil {
		t.Fatalf("failed to dispatch notification: %v", err)
	}
	if result.SMS.Status != service.ChannelSent {
		t.Errorf("expected SMS sent, got %s", result.SMS.Status)
	}
	if sms.LastTo != "+61422222222" {
		t.Errorf("expected SMS to the driver, got %s", sms.LastTo)
	}
	if email.LastTo != "alice@example.com" {
		t.Errorf("expected email to the driver, got %s", email.LastTo)
	}
	if !strings.Contains(sms.LastBody, "pickup at 200 Spencer St, Melbourne") {
		t.Errorf("expected pickup address in the driver SMS, got %q", sms.LastBody)
	}
}

func TestDispatch_UnknownRecipientSkipsBothChannels(t *testing.T) {
	ctx := context.Background()

	orderRepo, _, _, sms, email, svc := notificationFixture()

	// Order references a client that no longer exists.
	orderRepo.AddOrder(notifiableOrder("order-1", "client-gone"))

	result, err := svc.Dispatch(ctx, service.EventOrderCreated, "order-1")
	if err != nil {
		t.Fatalf("failed to dispatch notification: %v", err)
	}
	if result.SMS.Status != service.ChannelSkipped {
		t.Errorf("expected SMS skipped, got %s", result.SMS.Status)
	}
	if result.Email.Status != service.ChannelSkipped {
		t.Errorf("expected email skipped, got %s", result.Email.Status)
	}
	if sms.CallCount != 0 || email.CallCount != 0 {
		t.Errorf("expected no provider calls, got sms=%d email=%d", sms.CallCount, email.CallCount)
	}
}

func TestDispatch_InvalidEventType(t *testing.T) {
	ctx := context.Background()

	orderRepo, _, _, sms, _, svc := notificationFixture()
	orderRepo.AddOrder(notifiableOrder("order-1", "client-1"))

	_, err := svc.Dispatch(ctx, service.EventType("order_exploded"), "order-1")
	if !errors.Is(err, service.ErrInvalidEventType) {
		t.Errorf("expected ErrInvalidEventType, got %v", err)
	}
	if sms.CallCount != 0 {
		t.Errorf("expected no provider calls, got %d", sms.CallCount)
	}
}
