package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshpress/laundry-orders-api/models"
)

// CustomerService handles customer dedupe and lookup. Email is the sole
// uniqueness key.
type CustomerService struct {
	db *gorm.DB
}

var customerServiceInstance *CustomerService

// InitCustomerService initializes the customer service with a database handle
func InitCustomerService(db *gorm.DB) *CustomerService {
	customerServiceInstance = &CustomerService{db: db}
	return customerServiceInstance
}

// GetCustomerService returns the initialized customer service instance
func GetCustomerService() *CustomerService {
	return customerServiceInstance
}

// ResolveCustomer returns the id of the customer with the given email,
// creating the record if it does not exist. On a repeat email the mutable
// fields (name/phone/address) are overwritten with the new values,
// last-write-wins; no history is kept.
func (s *CustomerService) ResolveCustomer(name, email string, phone, address *string) (uint, error) {
	var existing models.Customer
	err := s.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"name":    name,
			"phone":   phone,
			"address": address,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return 0, fmt.Errorf("failed to update customer %d: %w", existing.ID, err)
		}
		return existing.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, fmt.Errorf("failed to look up customer by email: %w", err)
	}

	customer := models.Customer{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedAt: time.Now(),
	}
	if err := s.db.Create(&customer).Error; err != nil {
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer.ID, nil
}

// GetCustomer fetches a customer by id. Missing ids report found=false.
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, bool, error) {
	var customer models.Customer
	err := s.db.First(&customer, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch customer %d: %w", id, err)
	}
	return &customer, true, nil
}

// ListCustomers returns all customers, most recently created first.
func (s *CustomerService) ListCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}
