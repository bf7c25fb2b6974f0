package services

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/freshpress/laundry-orders-api/config"
	"github.com/freshpress/laundry-orders-api/models"
)

// NotificationResult reports the outcome of a dispatch. Failures degrade to
// false flags; dispatch never returns an error to its caller.
type NotificationResult struct {
	EmailSent bool `json:"email_sent"`
	SMSSent   bool `json:"sms_sent"`
}

// NotificationService dispatches customer notifications when an order
// becomes ready for pickup.
type NotificationService interface {
	// NotifyOrderReady sends the ready-for-pickup notifications for the
	// given order snapshot. Email is always attempted; SMS only when the
	// order carries a phone number.
	NotifyOrderReady(order *models.Order) NotificationResult
}

// SMTPNotificationService sends email over SMTP and logs SMS sends through a
// stub gateway. When SMTP credentials are absent it self-reports false
// instead of failing.
type SMTPNotificationService struct {
	cfg *config.Config
}

var notificationServiceInstance NotificationService

// InitNotificationService initializes the notification service
func InitNotificationService(cfg *config.Config) NotificationService {
	notificationServiceInstance = &SMTPNotificationService{cfg: cfg}
	return notificationServiceInstance
}

// GetNotificationService returns the initialized notification service instance
func GetNotificationService() NotificationService {
	return notificationServiceInstance
}

// SetNotificationService sets the notification service instance (primarily for testing)
func SetNotificationService(service NotificationService) {
	notificationServiceInstance = service
}

// NotifyOrderReady sends the ready-for-pickup email and, when a phone number
// is present, the SMS.
func (s *SMTPNotificationService) NotifyOrderReady(order *models.Order) NotificationResult {
	result := NotificationResult{}

	log.Printf("Sending order ready notifications for order #%d", order.ID)

	result.EmailSent = s.sendReadyEmail(order)
	if order.CustomerPhone != nil && *order.CustomerPhone != "" {
		result.SMSSent = s.sendReadySMS(order)
	}

	return result
}

func (s *SMTPNotificationService) sendReadyEmail(order *models.Order) bool {
	if s.cfg.SMTPUsername == "" || s.cfg.SMTPPassword == "" {
		log.Printf("SMTP credentials not configured. Would have emailed %s about order #%d", order.CustomerEmail, order.ID)
		return false
	}

	subject := fmt.Sprintf("Order #%d is Ready for Pickup", order.ID)
	body := strings.Join([]string{
		fmt.Sprintf("Dear %s,", order.CustomerName),
		"",
		"Great news! Your order is now ready for pickup.",
		"",
		fmt.Sprintf("Order ID: #%d", order.ID),
		fmt.Sprintf("Items: %s", order.ItemDescription),
		fmt.Sprintf("Quantity: %d", order.Quantity),
		fmt.Sprintf("Total Price: $%.2f", order.TotalPrice),
		"",
		"Please come pick up your order at your earliest convenience.",
		"Thank you for your business!",
	}, "\r\n")

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.cfg.SMTPFrom, order.CustomerEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPServer, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPServer)
	if err := smtp.SendMail(addr, auth, s.cfg.SMTPFrom, []string{order.CustomerEmail}, []byte(msg)); err != nil {
		log.Printf("Failed to send email for order #%d: %v", order.ID, err)
		return false
	}

	log.Printf("Email sent successfully to %s", order.CustomerEmail)
	return true
}

// sendReadySMS is a stub gateway. A production install would integrate an
// SMS provider behind this method.
func (s *SMTPNotificationService) sendReadySMS(order *models.Order) bool {
	message := fmt.Sprintf("Your order #%d is ready for pickup! Items: %s, Total: $%.2f",
		order.ID, order.ItemDescription, order.TotalPrice)

	if !s.cfg.SMSEnabled {
		log.Printf("SMS notifications not enabled. Would have sent to %s: %s", *order.CustomerPhone, message)
		return false
	}

	log.Printf("SMS stub: sending to %s: %s", *order.CustomerPhone, message)
	return true
}
