package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshpress/laundry-orders-api/config"
	"github.com/freshpress/laundry-orders-api/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }
func floatPtr(f float64) *float64 { return &f }

// setupOrderTest builds an in-memory store with the seeded catalog and wires
// the service singletons against it. Returns the order service and the
// notification mock.
func setupOrderTest(t *testing.T) (*OrderService, *MockNotificationService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := SeedReferenceData(db); err != nil {
		t.Fatalf("Failed to seed reference data: %v", err)
	}

	catalog := InitCatalogService(db)
	pricing := InitPricingService(catalog)
	customers := InitCustomerService(db)
	orders := InitOrderService(db, catalog, pricing, customers)

	mock := NewMockNotificationService()
	mock.SetAsMockForTesting()

	return orders, mock
}

func TestCreateOrderItemizedRoundTrip(t *testing.T) {
	orders, _ := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		CustomerPhone: strPtr("555-1111"),
		ServiceType:   strPtr("wash_fold"),
		LineItems: []models.LineItem{
			{GarmentType: "pants", Quantity: 4, Instructions: "light starch"},
		},
	})
	assert.NoError(t, err)
	assert.NotZero(t, id)

	order, found, err := orders.GetOrder(id)
	assert.NoError(t, err)
	assert.True(t, found)

	// Derived fields match what the pricing engine would produce
	assert.Equal(t, 14.40, order.TotalPrice) // 4 * 3.0 * 1.2
	assert.Equal(t, 4, order.Quantity)
	assert.Equal(t, "4x Pants", order.ItemDescription)
	assert.Equal(t, 3.0, order.Price) // base rate snapshot
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Nil(t, order.ReadyAt)
	assert.NotNil(t, order.CustomerID)
	assert.Len(t, order.LineItems, 1)
	assert.Equal(t, "light starch", order.LineItems[0].Instructions)

	// Reads are idempotent
	again, found, err := orders.GetOrder(id)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, order.TotalPrice, again.TotalPrice)
	assert.Equal(t, order.Quantity, again.Quantity)
	assert.Equal(t, order.ItemDescription, again.ItemDescription)
	assert.Equal(t, order.UpdatedAt, again.UpdatedAt)
}

func TestCreateOrderLegacy(t *testing.T) {
	orders, _ := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Bob Smith",
		CustomerEmail:   "bob@example.com",
		ItemDescription: "Winter coat",
		Quantity:        3,
		Price:           2.5,
	})
	assert.NoError(t, err)

	order, found, err := orders.GetOrder(id)
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Winter coat", order.ItemDescription)
	assert.Equal(t, 3, order.Quantity)
	assert.Equal(t, 7.5, order.TotalPrice)
	assert.Nil(t, order.LineItems)
	assert.Nil(t, order.ServiceType)
}

func TestCreateOrderItemsDropBadQuantities(t *testing.T) {
	orders, _ := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		ServiceType:   strPtr("wash_fold"),
		LineItems: []models.LineItem{
			{GarmentType: "shirt", Quantity: 2},
			{GarmentType: "pants", Quantity: 0},
			{GarmentType: "dress", Quantity: -1},
		},
	})
	assert.NoError(t, err)

	order, _, err := orders.GetOrder(id)
	assert.NoError(t, err)
	assert.Equal(t, "2x Shirt", order.ItemDescription)
	assert.Equal(t, 2, order.Quantity)
	assert.Equal(t, 6.0, order.TotalPrice)
	assert.Len(t, order.LineItems, 1)
}

func TestCreateOrderAllItemsDroppedStaysItemized(t *testing.T) {
	orders, _ := setupOrderTest(t)

	// Every line item normalizes away, but the request still chose the
	// itemized path: total is 0 and price is the rate snapshot, not the
	// legacy quantity*price fallback
	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Winter coat",
		Quantity:        5,
		Price:           10.0,
		ServiceType:     strPtr("wash_fold"),
		LineItems: []models.LineItem{
			{GarmentType: "shirt", Quantity: 0},
		},
	})
	assert.NoError(t, err)

	order, _, err := orders.GetOrder(id)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, order.TotalPrice)
	assert.Equal(t, 3.0, order.Price) // wash_fold rate snapshot
	assert.Equal(t, 5, order.Quantity)
	assert.Equal(t, "Winter coat", order.ItemDescription)
	assert.Nil(t, order.LineItems)
}

func TestCreateOrderResolvesCustomerByEmail(t *testing.T) {
	orders, _ := setupOrderTest(t)

	first, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Blouse",
		Quantity:        1,
		Price:           4.0,
	})
	assert.NoError(t, err)

	second, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane D.",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Skirt",
		Quantity:        1,
		Price:           4.0,
	})
	assert.NoError(t, err)

	a, _, _ := orders.GetOrder(first)
	b, _, _ := orders.GetOrder(second)
	assert.NotNil(t, a.CustomerID)
	assert.NotNil(t, b.CustomerID)
	assert.Equal(t, *a.CustomerID, *b.CustomerID)
}

func TestSparseUpdateLeavesOtherFieldsAlone(t *testing.T) {
	orders, _ := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Blouse",
		Quantity:        2,
		Price:           4.0,
	})
	assert.NoError(t, err)
	before, _, _ := orders.GetOrder(id)

	updated, err := orders.UpdateOrder(id, UpdateOrderInput{
		CustomerPhone: strPtr("999"),
	})
	assert.NoError(t, err)
	assert.True(t, updated)

	after, _, _ := orders.GetOrder(id)
	assert.Equal(t, "999", *after.CustomerPhone)
	assert.Equal(t, before.Quantity, after.Quantity)
	assert.Equal(t, before.TotalPrice, after.TotalPrice)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.ItemDescription, after.ItemDescription)
}

func TestUpdateOrderLineItemsTakePrecedence(t *testing.T) {
	orders, _ := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		ServiceType:   strPtr("wash_fold"),
		LineItems:     []models.LineItem{{GarmentType: "shirt", Quantity: 1}},
	})
	assert.NoError(t, err)

	// Explicit quantity/price lose to the recomputation from line items
	updated, err := orders.UpdateOrder(id, UpdateOrderInput{
		Quantity:  intPtr(99),
		LineItems: []models.LineItem{{GarmentType: "pants", Quantity: 4}},
	})
	assert.NoError(t, err)
	assert.True(t, updated)

	after, _, _ := orders.GetOrder(id)
	assert.Equal(t, 4, after.Quantity)
	assert.Equal(t, 14.40, after.TotalPrice)
	assert.Equal(t, 3.0, after.Price)
}

func TestUpdateOrderQuantityPriceRecomputesLegacyTotal(t *testing.T) {
	orders, _ := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Bob Smith",
		CustomerEmail:   "bob@example.com",
		ItemDescription: "Winter coat",
		Quantity:        3,
		Price:           2.5,
	})
	assert.NoError(t, err)

	updated, err := orders.UpdateOrder(id, UpdateOrderInput{Quantity: intPtr(5)})
	assert.NoError(t, err)
	assert.True(t, updated)

	after, _, _ := orders.GetOrder(id)
	assert.Equal(t, 5, after.Quantity)
	assert.Equal(t, 12.5, after.TotalPrice)

	updated, err = orders.UpdateOrder(id, UpdateOrderInput{Price: floatPtr(3.0)})
	assert.NoError(t, err)
	assert.True(t, updated)

	after, _, _ = orders.GetOrder(id)
	assert.Equal(t, 15.0, after.TotalPrice)
}

func TestUpdateOrderMissingID(t *testing.T) {
	orders, _ := setupOrderTest(t)

	updated, err := orders.UpdateOrder(9999, UpdateOrderInput{CustomerPhone: strPtr("123")})
	assert.NoError(t, err)
	assert.False(t, updated)
}

func TestUpdateOrderStatusReadySetsReadyAtAndNotifies(t *testing.T) {
	orders, mock := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		CustomerPhone:   strPtr("555-1111"),
		ItemDescription: "Blouse",
		Quantity:        1,
		Price:           4.0,
	})
	assert.NoError(t, err)

	updated, notification, err := orders.UpdateOrderStatus(id, models.StatusReady)
	assert.NoError(t, err)
	assert.True(t, updated)
	assert.NotNil(t, notification)
	assert.True(t, notification.EmailSent)

	order, _, _ := orders.GetOrder(id)
	assert.Equal(t, models.StatusReady, order.Status)
	assert.NotNil(t, order.ReadyAt)

	// The collaborator received the fully updated snapshot
	notified := mock.Notified()
	assert.Len(t, notified, 1)
	assert.Equal(t, models.StatusReady, notified[0].Status)
	assert.Equal(t, "jane@example.com", notified[0].CustomerEmail)
}

func TestUpdateOrderStatusReadyAlwaysResetsReadyAt(t *testing.T) {
	orders, mock := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Blouse",
		Quantity:        1,
		Price:           4.0,
	})
	assert.NoError(t, err)

	_, _, err = orders.UpdateOrderStatus(id, models.StatusReady)
	assert.NoError(t, err)
	first, _, _ := orders.GetOrder(id)
	assert.NotNil(t, first.ReadyAt)

	time.Sleep(10 * time.Millisecond)

	// Re-entering ready rewrites ready_at and re-notifies
	_, _, err = orders.UpdateOrderStatus(id, models.StatusReady)
	assert.NoError(t, err)
	second, _, _ := orders.GetOrder(id)
	assert.NotNil(t, second.ReadyAt)
	assert.True(t, second.ReadyAt.After(*first.ReadyAt))
	assert.Len(t, mock.Notified(), 2)
}

func TestUpdateOrderStatusNonReady(t *testing.T) {
	orders, mock := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Blouse",
		Quantity:        1,
		Price:           4.0,
	})
	assert.NoError(t, err)

	updated, notification, err := orders.UpdateOrderStatus(id, models.StatusCompleted)
	assert.NoError(t, err)
	assert.True(t, updated)
	assert.Nil(t, notification)

	order, _, _ := orders.GetOrder(id)
	assert.Equal(t, models.StatusCompleted, order.Status)
	assert.Nil(t, order.ReadyAt)
	assert.Empty(t, mock.Notified())
}

func TestUpdateOrderStatusMissingID(t *testing.T) {
	orders, _ := setupOrderTest(t)

	updated, notification, err := orders.UpdateOrderStatus(9999, models.StatusReady)
	assert.NoError(t, err)
	assert.False(t, updated)
	assert.Nil(t, notification)
}

func TestDeleteOrder(t *testing.T) {
	orders, _ := setupOrderTest(t)

	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Blouse",
		Quantity:        1,
		Price:           4.0,
	})
	assert.NoError(t, err)

	deleted, err := orders.DeleteOrder(id)
	assert.NoError(t, err)
	assert.True(t, deleted)

	_, found, err := orders.GetOrder(id)
	assert.NoError(t, err)
	assert.False(t, found)

	// Deleting a missing order reports failure, not an error
	deleted, err = orders.DeleteOrder(id)
	assert.NoError(t, err)
	assert.False(t, deleted)
}

func TestListOrdersFilters(t *testing.T) {
	orders, _ := setupOrderTest(t)

	pending, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Blouse",
		Quantity:        1,
		Price:           4.0,
	})
	assert.NoError(t, err)
	completed, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Bob Smith",
		CustomerEmail:   "bob@example.com",
		ItemDescription: "Coat",
		Quantity:        1,
		Price:           6.0,
	})
	assert.NoError(t, err)
	_, _, err = orders.UpdateOrderStatus(completed, models.StatusCompleted)
	assert.NoError(t, err)

	all, err := orders.ListOrders(OrderFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	onlyPending, err := orders.ListOrders(OrderFilter{Status: models.StatusPending})
	assert.NoError(t, err)
	assert.Len(t, onlyPending, 1)
	assert.Equal(t, pending, onlyPending[0].ID)

	// Inclusive date range on created_at covers today
	today := time.Now()
	inRange, err := orders.ListOrders(OrderFilter{DateFrom: &today, DateTo: &today})
	assert.NoError(t, err)
	assert.Len(t, inRange, 2)

	// Tomorrow onward excludes everything
	tomorrow := today.AddDate(0, 0, 1)
	empty, err := orders.ListOrders(OrderFilter{DateFrom: &tomorrow})
	assert.NoError(t, err)
	assert.Empty(t, empty)

	_, err = orders.ListOrders(OrderFilter{DateField: "updated_at"})
	assert.Error(t, err)
}

func TestListOrdersScheduledPickupFilter(t *testing.T) {
	orders, _ := setupOrderTest(t)

	pickup := time.Now().AddDate(0, 0, 3)
	id, err := orders.CreateOrder(CreateOrderInput{
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ItemDescription: "Blouse",
		Quantity:        1,
		Price:           4.0,
		ScheduledPickup: &pickup,
	})
	assert.NoError(t, err)

	matched, err := orders.ListOrders(OrderFilter{
		DateFrom:  &pickup,
		DateTo:    &pickup,
		DateField: DateFieldScheduledPickup,
	})
	assert.NoError(t, err)
	assert.Len(t, matched, 1)
	assert.Equal(t, id, matched[0].ID)

	today := time.Now()
	none, err := orders.ListOrders(OrderFilter{
		DateTo:    &today,
		DateField: DateFieldScheduledPickup,
	})
	assert.NoError(t, err)
	assert.Empty(t, none)
}
