package models

// ServiceType is a category of work performed (e.g. dry cleaning) with an
// associated base rate per unit. Reference data, seeded once.
type ServiceType struct {
	ID   string  `gorm:"primaryKey" json:"id"`
	Name string  `gorm:"not null" json:"name"`
	Rate float64 `gorm:"not null" json:"rate"`
}

// TableName specifies the table name for the ServiceType model
func (ServiceType) TableName() string {
	return "service_types"
}

// GarmentType is a category of item being serviced, with a price multiplier
// relative to the service rate. Reference data, seeded once.
type GarmentType struct {
	ID         string  `gorm:"primaryKey" json:"id"`
	Name       string  `gorm:"not null" json:"name"`
	Multiplier float64 `gorm:"not null" json:"multiplier"`
}

// TableName specifies the table name for the GarmentType model
func (GarmentType) TableName() string {
	return "garment_types"
}
