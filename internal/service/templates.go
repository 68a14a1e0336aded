package service

import (
	"fmt"

	"courier/internal/domain"
)

// SMSBody returns the short text message for an order lifecycle event.
// Template functions are pure and never fail: missing optional fields render
// a default text instead.
func SMSBody(event EventType, order *domain.Order, driver *domain.Driver) string {
	switch event {
	case EventOrderCreated:
		return fmt.Sprintf("Your order %s has been received. Delivery to %s. Total: %s.",
			shortID(order.ID), dropoffText(order), costText(order))
	case EventDriverAssigned:
		return fmt.Sprintf("New delivery assigned to you: order %s, pickup at %s, dropoff at %s.",
			shortID(order.ID), pickupText(order), dropoffText(order))
	case EventOrderPickedUp:
		return fmt.Sprintf("Your order %s is on its way with %s.",
			shortID(order.ID), driverText(driver))
	case EventOrderDelivered:
		return fmt.Sprintf("Your order %s has been delivered. Total: %s. Thank you!",
			shortID(order.ID), costText(order))
	default:
		return ""
	}
}

// EmailContent returns the subject and HTML body for an order lifecycle event.
func EmailContent(event EventType, order *domain.Order, driver *domain.Driver) (subject, html string) {
	switch event {
	case EventOrderCreated:
		subject = fmt.Sprintf("Order %s received", shortID(order.ID))
		html = fmt.Sprintf(
			"<p>Thanks for your order!</p><p>Order <strong>%s</strong> will be delivered to %s.</p><p>Total: %s</p>",
			shortID(order.ID), dropoffText(order), costText(order))
	case EventDriverAssigned:
		subject = fmt.Sprintf("New delivery: order %s", shortID(order.ID))
		html = fmt.Sprintf(
			"<p>You have a new delivery.</p><p>Order <strong>%s</strong>: pickup at %s, dropoff at %s.</p>",
			shortID(order.ID), pickupText(order), dropoffText(order))
	case EventOrderPickedUp:
		subject = fmt.Sprintf("Order %s picked up", shortID(order.ID))
		html = fmt.Sprintf(
			"<p>Your order <strong>%s</strong> is on its way with %s.</p>",
			shortID(order.ID), driverText(driver))
	case EventOrderDelivered:
		subject = fmt.Sprintf("Order %s delivered", shortID(order.ID))
		html = fmt.Sprintf(
			"<p>Your order <strong>%s</strong> has been delivered.</p><p>Total: %s</p><p>Thank you!</p>",
			shortID(order.ID), costText(order))
	}
	return subject, html
}

// shortID returns a display-friendly order reference.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func costText(order *domain.Order) string {
	if order.TotalCost <= 0 {
		return "to be confirmed"
	}
	return fmt.Sprintf("$%.2f", order.TotalCost)
}

func driverText(driver *domain.Driver) string {
	if driver == nil || driver.Name == "" {
		return "your courier"
	}
	return driver.Name
}

func pickupText(order *domain.Order) string {
	if order.PickupAddress == "" {
		return "the pickup point"
	}
	return order.PickupAddress
}

func dropoffText(order *domain.Order) string {
	if order.DropoffAddress == "" {
		return "the delivery address"
	}
	return order.DropoffAddress
}
