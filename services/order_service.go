package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshpress/laundry-orders-api/models"
)

// OrderService is the order record store and lifecycle. It recomputes
// derived pricing fields on create and update, resolves customers by email,
// and dispatches notifications after a ready transition commits.
type OrderService struct {
	db        *gorm.DB
	pricing   *PricingService
	customers *CustomerService
	catalog   CatalogService
}

var orderServiceInstance *OrderService

// InitOrderService initializes the order service and its collaborators
func InitOrderService(db *gorm.DB, catalog CatalogService, pricing *PricingService, customers *CustomerService) *OrderService {
	orderServiceInstance = &OrderService{
		db:        db,
		pricing:   pricing,
		customers: customers,
		catalog:   catalog,
	}
	return orderServiceInstance
}

// GetOrderService returns the initialized order service instance
func GetOrderService() *OrderService {
	return orderServiceInstance
}

// CreateOrderInput carries the fields for a new order. Legacy callers supply
// ItemDescription/Quantity/Price; itemized callers supply ServiceType and
// LineItems, from which the description, quantity, unit price, and total are
// derived (any legacy values are then only fallbacks).
type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	Address       *string
	CustomerID    *uint

	ItemDescription string
	Quantity        int
	Price           float64

	ServiceType       *string
	LineItems         []models.LineItem
	Instructions      *string
	ScheduledPickup   *time.Time
	ScheduledDelivery *time.Time
}

// CreateOrder persists a new pending order and returns its id. The customer
// is resolved by email unless an explicit customer id is supplied.
func (s *OrderService) CreateOrder(input CreateOrderInput) (uint, error) {
	now := time.Now()

	items := NormalizeLineItems(input.LineItems)
	description := input.ItemDescription
	quantity := input.Quantity
	price := input.Price
	var totalPrice float64

	// The itemized path is chosen on the raw input, not the normalized items:
	// a request whose items all normalize away still prices as itemized (total
	// 0, rate snapshot) rather than falling back to the legacy fields.
	if len(input.LineItems) > 0 && input.ServiceType != nil && *input.ServiceType != "" {
		var err error
		totalPrice, err = s.pricing.ComputeTotal(*input.ServiceType, items)
		if err != nil {
			return 0, err
		}
		summary, err := s.pricing.Summarize(items)
		if err != nil {
			return 0, err
		}
		if summary != "" {
			description = summary
		}
		if qty := TotalQuantity(items); qty > 0 {
			quantity = qty
		}
		// Snapshot the base service rate as the order's unit price
		rate, found, err := s.catalog.ServiceRate(*input.ServiceType)
		if err != nil {
			return 0, err
		}
		if found {
			price = rate
		}
	} else {
		totalPrice = legacyTotal(quantity, price)
	}

	customerID := input.CustomerID
	if customerID == nil || *customerID == 0 {
		id, err := s.customers.ResolveCustomer(input.CustomerName, input.CustomerEmail, input.CustomerPhone, input.Address)
		if err != nil {
			return 0, err
		}
		customerID = &id
	}

	order := models.Order{
		CustomerName:      input.CustomerName,
		CustomerEmail:     input.CustomerEmail,
		CustomerPhone:     input.CustomerPhone,
		ItemDescription:   description,
		Quantity:          quantity,
		Price:             price,
		TotalPrice:        totalPrice,
		Status:            models.StatusPending,
		ServiceType:       input.ServiceType,
		LineItems:         items,
		Instructions:      input.Instructions,
		ScheduledPickup:   input.ScheduledPickup,
		ScheduledDelivery: input.ScheduledDelivery,
		CustomerID:        customerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return order.ID, nil
}

// GetOrder fetches an order by id. Missing ids report found=false.
func (s *OrderService) GetOrder(id uint) (*models.Order, bool, error) {
	var order models.Order
	err := s.db.First(&order, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return &order, true, nil
}

// Date fields a list query may filter on.
const (
	DateFieldCreatedAt         = "created_at"
	DateFieldScheduledPickup   = "scheduled_pickup"
	DateFieldScheduledDelivery = "scheduled_delivery"
)

// OrderFilter narrows a ListOrders query. Date bounds are inclusive and
// compared at date granularity on the chosen DateField (created_at when
// unset). Status filters by equality when non-empty.
type OrderFilter struct {
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	DateField string
}

// ValidDateField reports whether f names a filterable date column.
func ValidDateField(f string) bool {
	return f == DateFieldCreatedAt || f == DateFieldScheduledPickup || f == DateFieldScheduledDelivery
}

// ListOrders returns orders matching the filter, most recently created first.
func (s *OrderService) ListOrders(filter OrderFilter) ([]models.Order, error) {
	dateField := filter.DateField
	if dateField == "" {
		dateField = DateFieldCreatedAt
	}
	if !ValidDateField(dateField) {
		return nil, fmt.Errorf("invalid date field %q", dateField)
	}

	query := s.db.Model(&models.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		from := startOfDay(*filter.DateFrom)
		query = query.Where(dateField+" >= ?", from)
	}
	if filter.DateTo != nil {
		// Inclusive date-only upper bound: anything before the next midnight
		to := startOfDay(*filter.DateTo).AddDate(0, 0, 1)
		query = query.Where(dateField+" < ?", to)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// UpdateOrderInput is a sparse update: nil fields keep their stored value.
// A non-nil LineItems takes precedence over any Quantity/Price supplied in
// the same call; those are recomputed from the items instead.
type UpdateOrderInput struct {
	CustomerName      *string
	CustomerEmail     *string
	CustomerPhone     *string
	ItemDescription   *string
	Quantity          *int
	Price             *float64
	ServiceType       *string
	LineItems         []models.LineItem
	Instructions      *string
	ScheduledPickup   *time.Time
	ScheduledDelivery *time.Time
	Status            *string
}

// UpdateOrder applies the supplied fields to an existing order, recomputing
// derived pricing as needed, and reports whether the order existed.
func (s *OrderService) UpdateOrder(id uint, input UpdateOrderInput) (bool, error) {
	order, found, err := s.GetOrder(id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	updates := map[string]interface{}{}
	if input.CustomerName != nil {
		updates["customer_name"] = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		updates["customer_email"] = *input.CustomerEmail
	}
	if input.CustomerPhone != nil {
		updates["customer_phone"] = *input.CustomerPhone
	}
	if input.ItemDescription != nil {
		updates["item_description"] = *input.ItemDescription
	}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.ServiceType != nil {
		updates["service_type"] = *input.ServiceType
	}
	if input.Instructions != nil {
		updates["instructions"] = *input.Instructions
	}
	if input.ScheduledPickup != nil {
		updates["scheduled_pickup"] = *input.ScheduledPickup
	}
	if input.ScheduledDelivery != nil {
		updates["scheduled_delivery"] = *input.ScheduledDelivery
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}

	if input.LineItems != nil {
		items := NormalizeLineItems(input.LineItems)
		updates["items_json"] = items

		serviceType := input.ServiceType
		if serviceType == nil {
			serviceType = order.ServiceType
		}
		if serviceType != nil && *serviceType != "" {
			total, err := s.pricing.ComputeTotal(*serviceType, items)
			if err != nil {
				return false, err
			}
			updates["total_price"] = total
			updates["quantity"] = TotalQuantity(items)
			// Unless the caller set a price explicitly, snapshot the base rate
			if input.Price == nil {
				rate, found, err := s.catalog.ServiceRate(*serviceType)
				if err != nil {
					return false, err
				}
				if found {
					updates["price"] = rate
				}
			}
		} else {
			quantity := order.Quantity
			if q, ok := updates["quantity"].(int); ok {
				quantity = q
			}
			price := order.Price
			if p, ok := updates["price"].(float64); ok {
				price = p
			}
			updates["total_price"] = legacyTotal(quantity, price)
		}
	}

	// Items unchanged but quantity or price edited: recompute the legacy total
	if _, itemsChanged := updates["items_json"]; !itemsChanged {
		_, quantityChanged := updates["quantity"]
		_, priceChanged := updates["price"]
		if quantityChanged || priceChanged {
			quantity := order.Quantity
			if q, ok := updates["quantity"].(int); ok {
				quantity = q
			}
			price := order.Price
			if p, ok := updates["price"].(float64); ok {
				price = p
			}
			updates["total_price"] = legacyTotal(quantity, price)
		}
	}

	updates["updated_at"] = time.Now()

	if err := s.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return false, fmt.Errorf("failed to update order %d: %w", id, err)
	}
	return true, nil
}

// UpdateOrderStatus sets the order's status. The store is permissive: any
// status may be set at any time, including redundant transitions. Entering
// "ready" stamps ReadyAt with the current time (every time, so a re-ready
// re-notifies) and dispatches the customer notification after the update has
// committed; notification failures surface as false flags, never as errors.
func (s *OrderService) UpdateOrderStatus(id uint, status string) (bool, *NotificationResult, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if status == models.StatusReady {
		updates["ready_at"] = now
	}

	result := s.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return false, nil, fmt.Errorf("failed to update status of order %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil, nil
	}

	if status != models.StatusReady {
		return true, nil, nil
	}

	order, found, err := s.GetOrder(id)
	if err != nil || !found {
		// Status already committed; notification is best effort
		return true, &NotificationResult{}, nil
	}
	notifier := GetNotificationService()
	if notifier == nil {
		return true, &NotificationResult{}, nil
	}
	nr := notifier.NotifyOrderReady(order)
	return true, &nr, nil
}

// DeleteOrder removes an order and reports whether it existed. Hard delete;
// nothing cascades.
func (s *OrderService) DeleteOrder(id uint) (bool, error) {
	result := s.db.Delete(&models.Order{}, id)
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete order %d: %w", id, result.Error)
	}
	return result.RowsAffected > 0, nil
}
