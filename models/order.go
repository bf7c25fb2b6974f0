package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order statuses. The lifecycle is permissive: the store accepts any status
// at any time. Entry into "ready" is the only special-cased transition (it
// stamps ReadyAt and triggers customer notification).
const (
	StatusPending    = "pending"
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusReady      = "ready"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// OrderStatuses lists every status value accepted by the API.
var OrderStatuses = []string{
	StatusPending,
	StatusScheduled,
	StatusInProgress,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

// LineItem is one (garment type, quantity, instructions) entry within an
// order. Line items are owned by their parent order and serialized as a JSON
// blob alongside the order row; they are not a standalone table.
type LineItem struct {
	GarmentType  string `json:"garment_type"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
}

// LineItems is the JSON-serialized line item list stored in the orders
// table. Legacy orders carry no line items and read back as nil.
type LineItems []LineItem

// Value implements driver.Valuer so GORM stores the list as a JSON string.
func (li LineItems) Value() (driver.Value, error) {
	if li == nil {
		return nil, nil
	}
	data, err := json.Marshal(li)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal line items: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for reading the JSON column back.
func (li *LineItems) Scan(value interface{}) error {
	if value == nil {
		*li = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for line items column: %T", value)
	}
	if len(data) == 0 {
		*li = nil
		return nil
	}
	return json.Unmarshal(data, li)
}

// Order represents a laundry service order. It carries both the legacy
// scalar pricing fields (item_description/quantity/price) and the newer
// itemized and scheduling fields, so legacy and itemized orders coexist in
// one table. The customer_* columns are a point-in-time snapshot and may
// drift from the linked Customer row after edits.
type Order struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	CustomerName      string     `gorm:"not null" json:"customer_name"`
	CustomerEmail     string     `gorm:"not null" json:"customer_email"`
	CustomerPhone     *string    `json:"customer_phone"`
	ItemDescription   string     `gorm:"not null" json:"item_description"`
	Quantity          int        `gorm:"not null" json:"quantity"`
	Price             float64    `gorm:"not null" json:"price"` // base rate snapshot per unit
	TotalPrice        float64    `gorm:"not null" json:"total_price"`
	Status            string     `gorm:"not null;default:'pending'" json:"status"`
	ServiceType       *string    `json:"service_type"`
	LineItems         LineItems  `gorm:"column:items_json;type:text" json:"line_items,omitempty"`
	Instructions      *string    `json:"instructions"`
	ScheduledPickup   *time.Time `json:"scheduled_pickup"`
	ScheduledDelivery *time.Time `json:"scheduled_delivery"`
	CustomerID        *uint      `gorm:"index" json:"customer_id"`
	Customer          *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	ReadyAt           *time.Time `json:"ready_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsTerminal reports whether the order is in a terminal status.
func (o *Order) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}
