package notifications

import (
	"context"
	"fmt"
	"log"

	"roomly/internal/bookings"
	"roomly/internal/refunds"
)

// Publisher turns booking and refund lifecycle events into queued email
// notifications. Publishing is best-effort: a Kafka outage must never
// fail the transaction that triggered the event.
type Publisher struct {
	producer Producer
	bookings bookings.Service
}

func NewPublisher(producer Producer) *Publisher {
	return &Publisher{producer: producer}
}

// SetBookingService wires the booking lookup used to resolve refund
// recipients. Set after construction to break the dependency cycle at
// startup.
func (p *Publisher) SetBookingService(service bookings.Service) {
	p.bookings = service
}

func (p *Publisher) BookingConfirmed(ctx context.Context, booking *bookings.Booking) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingConfirmed).
		WithRecipient(booking.UserID, booking.GuestEmail, booking.GuestName).
		WithBookingContext(booking.ID).
		WithSubject(fmt.Sprintf("✅ Booking %s confirmed", booking.BookingRef)).
		WithTemplateData(map[string]interface{}{
			"booking_ref": booking.BookingRef,
			"checkin":     booking.CheckinDate.Format("2006-01-02"),
			"checkout":    booking.CheckoutDate.Format("2006-01-02"),
			"total":       formatMinor(booking.GrandTotalMinor),
			"currency":    booking.Currency,
		}).
		Build()

	p.publish(ctx, notification)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *bookings.Booking) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypeBookingCancelled).
		WithRecipient(booking.UserID, booking.GuestEmail, booking.GuestName).
		WithBookingContext(booking.ID).
		WithSubject(fmt.Sprintf("❌ Booking %s cancelled", booking.BookingRef)).
		WithTemplateData(map[string]interface{}{
			"booking_ref": booking.BookingRef,
		}).
		Build()

	p.publish(ctx, notification)
}

func (p *Publisher) PaymentRecorded(ctx context.Context, booking *bookings.Booking, amountMinor int64) {
	notification := NewNotificationBuilder().
		WithType(NotificationTypePaymentRecorded).
		WithRecipient(booking.UserID, booking.GuestEmail, booking.GuestName).
		WithBookingContext(booking.ID).
		WithSubject("💳 Payment received").
		WithTemplateData(map[string]interface{}{
			"booking_ref": booking.BookingRef,
			"amount":      formatMinor(amountMinor),
			"currency":    booking.Currency,
		}).
		Build()

	p.publish(ctx, notification)
}

func (p *Publisher) RefundDecided(ctx context.Context, refund *refunds.RefundRequest) {
	if p.bookings == nil {
		return
	}
	booking, err := p.bookings.GetBookingRecord(ctx, refund.BookingID)
	if err != nil {
		log.Printf("Failed to resolve booking %s for refund notification: %v", refund.BookingID, err)
		return
	}

	notType := NotificationTypeRefundRejected
	subject := "Refund request update"
	amount := int64(0)
	if refund.Status == refunds.StatusApproved {
		notType = NotificationTypeRefundApproved
		subject = "✅ Your refund was approved"
		if refund.ApprovedAmountMinor != nil {
			amount = *refund.ApprovedAmountMinor
		}
	}

	notification := NewNotificationBuilder().
		WithType(notType).
		WithRecipient(booking.UserID, booking.GuestEmail, booking.GuestName).
		WithBookingContext(booking.ID).
		WithRefundContext(refund.ID).
		WithSubject(subject).
		WithTemplateData(map[string]interface{}{
			"booking_ref": booking.BookingRef,
			"amount":      formatMinor(amount),
			"currency":    refund.Currency,
			"notes":       refund.ReviewNotes,
		}).
		Build()

	p.publish(ctx, notification)
}

func (p *Publisher) publish(ctx context.Context, notification *EmailNotification) {
	if p.producer == nil {
		return
	}
	if err := p.producer.Publish(ctx, notification); err != nil {
		log.Printf("Failed to publish %s notification: %v", notification.Type, err)
	}
}

func formatMinor(minor int64) string {
	return fmt.Sprintf("%.2f", float64(minor)/100)
}
