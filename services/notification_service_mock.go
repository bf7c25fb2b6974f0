package services

import (
	"sync"

	"github.com/freshpress/laundry-orders-api/models"
)

// MockNotificationService is a mock implementation of NotificationService
// for testing. It records every order snapshot it is asked to notify about.
type MockNotificationService struct {
	Result   NotificationResult
	notified []models.Order
	mu       sync.Mutex
}

// NewMockNotificationService creates a new mock notification service
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{
		Result: NotificationResult{EmailSent: true, SMSSent: true},
	}
}

// SetAsMockForTesting sets this mock as the global notification service instance for testing
func (m *MockNotificationService) SetAsMockForTesting() {
	SetNotificationService(m)
}

// NotifyOrderReady records the order snapshot and returns the configured result
func (m *MockNotificationService) NotifyOrderReady(order *models.Order) NotificationResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, *order)
	return m.Result
}

// Notified returns a copy of the order snapshots passed to NotifyOrderReady
func (m *MockNotificationService) Notified() []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, len(m.notified))
	copy(out, m.notified)
	return out
}
