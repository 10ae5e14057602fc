package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"roomly/internal/shared/config"
)

// EmailService renders and delivers notification emails
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

func NewSMTPConfig(cfg *config.Config) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.Email.SMTPHost,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.SMTPUsername,
		Password:  cfg.Email.SMTPPassword,
		FromEmail: cfg.Email.FromEmail,
		FromName:  "Roomly",
		UseTLS:    true,
	}
}

type smtpEmailService struct {
	config *SMTPConfig
}

func NewSMTPEmailService(config *SMTPConfig) (EmailService, error) {
	if config == nil || config.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}
	return &smtpEmailService{config: config}, nil
}

func (s *smtpEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody := renderContent(notification)
	return s.SendHTML(ctx, notification.RecipientEmail, notification.Subject, htmlBody, textBody)
}

func (s *smtpEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	message := s.buildMessage(to, subject, htmlBody, textBody)

	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	var err error
	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, to, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("📧 [SMTP] Email sent to %s", to)
	return nil
}

func (s *smtpEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{ServerName: s.config.Host}
	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

func (s *smtpEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(textBody + "\r\n")
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(htmlBody + "\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// renderContent generates email bodies per notification type. Amounts
// arrive as minor units and are rendered with two decimal places.
func renderContent(notification *EmailNotification) (string, string) {
	data := notification.TemplateData
	name := notification.RecipientName

	switch notification.Type {
	case NotificationTypeBookingConfirmed:
		htmlBody := fmt.Sprintf(`
			<h2>✅ Booking Confirmed</h2>
			<p>Hi %s,</p>
			<p>Your stay is booked! Reference: <strong>%v</strong></p>
			<p>Check-in: %v<br>Check-out: %v</p>
			<p>Total: %v %v</p>
			<p>Best regards,<br>The Roomly Team</p>
		`, name, data["booking_ref"], data["checkin"], data["checkout"], data["total"], data["currency"])
		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour stay is booked! Reference: %v\nCheck-in: %v\nCheck-out: %v\nTotal: %v %v\n\nBest regards,\nThe Roomly Team",
			name, data["booking_ref"], data["checkin"], data["checkout"], data["total"], data["currency"])
		return htmlBody, textBody

	case NotificationTypeBookingCancelled:
		htmlBody := fmt.Sprintf(`
			<h2>❌ Booking Cancelled</h2>
			<p>Hi %s,</p>
			<p>Your booking <strong>%v</strong> has been cancelled.</p>
			<p>If a refund applies you can request it from your bookings page.</p>
			<p>Best regards,<br>The Roomly Team</p>
		`, name, data["booking_ref"])
		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour booking %v has been cancelled.\nIf a refund applies you can request it from your bookings page.\n\nBest regards,\nThe Roomly Team",
			name, data["booking_ref"])
		return htmlBody, textBody

	case NotificationTypePaymentRecorded:
		htmlBody := fmt.Sprintf(`
			<h2>💳 Payment Received</h2>
			<p>Hi %s,</p>
			<p>We received your payment of %v %v for booking <strong>%v</strong>.</p>
			<p>Best regards,<br>The Roomly Team</p>
		`, name, data["amount"], data["currency"], data["booking_ref"])
		textBody := fmt.Sprintf(
			"Hi %s,\n\nWe received your payment of %v %v for booking %v.\n\nBest regards,\nThe Roomly Team",
			name, data["amount"], data["currency"], data["booking_ref"])
		return htmlBody, textBody

	case NotificationTypeRefundApproved:
		htmlBody := fmt.Sprintf(`
			<h2>✅ Refund Approved</h2>
			<p>Hi %s,</p>
			<p>Your refund of %v %v has been approved and will be processed shortly.</p>
			<p>Best regards,<br>The Roomly Team</p>
		`, name, data["amount"], data["currency"])
		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour refund of %v %v has been approved and will be processed shortly.\n\nBest regards,\nThe Roomly Team",
			name, data["amount"], data["currency"])
		return htmlBody, textBody

	case NotificationTypeRefundRejected:
		htmlBody := fmt.Sprintf(`
			<h2>Refund Request Update</h2>
			<p>Hi %s,</p>
			<p>Your refund request was not approved. Notes: %v</p>
			<p>Best regards,<br>The Roomly Team</p>
		`, name, data["notes"])
		textBody := fmt.Sprintf(
			"Hi %s,\n\nYour refund request was not approved. Notes: %v\n\nBest regards,\nThe Roomly Team",
			name, data["notes"])
		return htmlBody, textBody

	default:
		htmlBody := fmt.Sprintf(`
			<h2>%s</h2>
			<p>Hi %s,</p>
			<p>This is a notification from Roomly.</p>
			<p>Best regards,<br>The Roomly Team</p>
		`, notification.Subject, name)
		textBody := fmt.Sprintf(
			"Hi %s,\n\nThis is a notification from Roomly.\n\nBest regards,\nThe Roomly Team", name)
		return htmlBody, textBody
	}
}

// MockEmailService logs instead of sending, for local development
type MockEmailService struct{}

func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

func (s *MockEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	log.Printf("📧 [MOCK] Sending %s notification to %s (%s)",
		notification.Type, notification.RecipientEmail, notification.RecipientName)
	return nil
}

func (s *MockEmailService) SendHTML(ctx context.Context, to, subject, htmlBody, textBody string) error {
	log.Printf("📧 [MOCK] To: %s, Subject: %s", to, subject)
	return nil
}
