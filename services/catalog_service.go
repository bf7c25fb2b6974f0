package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/freshpress/laundry-orders-api/models"
)

// CatalogService is the read-only reference-data provider for service and
// garment types. Pricing depends on this interface rather than on the
// database directly so it can be tested against a fixed snapshot.
type CatalogService interface {
	// ListServiceTypes returns all service types ordered by name
	ListServiceTypes() ([]models.ServiceType, error)

	// ListGarmentTypes returns all garment types ordered by name
	ListGarmentTypes() ([]models.GarmentType, error)

	// ServiceRate returns the base rate for a service type id.
	// A missing service type is not an error; it reports found=false and
	// callers degrade to a zero rate.
	ServiceRate(serviceTypeID string) (rate float64, found bool, err error)

	// GarmentMultipliers returns the multiplier for every garment type id
	GarmentMultipliers() (map[string]float64, error)

	// GarmentNames returns the display name for every garment type id
	GarmentNames() (map[string]string, error)
}

// GormCatalogService implements CatalogService against the relational store
type GormCatalogService struct {
	db *gorm.DB
}

var catalogServiceInstance CatalogService

// InitCatalogService initializes the catalog service with a database handle
func InitCatalogService(db *gorm.DB) CatalogService {
	catalogServiceInstance = &GormCatalogService{db: db}
	return catalogServiceInstance
}

// GetCatalogService returns the initialized catalog service instance
func GetCatalogService() CatalogService {
	return catalogServiceInstance
}

// SetCatalogService sets the catalog service instance (primarily for testing)
func SetCatalogService(service CatalogService) {
	catalogServiceInstance = service
}

// ListServiceTypes returns all service types ordered by name
func (s *GormCatalogService) ListServiceTypes() ([]models.ServiceType, error) {
	var types []models.ServiceType
	if err := s.db.Order("name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list service types: %w", err)
	}
	return types, nil
}

// ListGarmentTypes returns all garment types ordered by name
func (s *GormCatalogService) ListGarmentTypes() ([]models.GarmentType, error) {
	var types []models.GarmentType
	if err := s.db.Order("name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list garment types: %w", err)
	}
	return types, nil
}

// ServiceRate returns the base rate for a service type id
func (s *GormCatalogService) ServiceRate(serviceTypeID string) (float64, bool, error) {
	var svc models.ServiceType
	err := s.db.Where("id = ?", serviceTypeID).First(&svc).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up service type %q: %w", serviceTypeID, err)
	}
	return svc.Rate, true, nil
}

// GarmentMultipliers returns the multiplier for every garment type id
func (s *GormCatalogService) GarmentMultipliers() (map[string]float64, error) {
	var types []models.GarmentType
	if err := s.db.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to load garment multipliers: %w", err)
	}
	multipliers := make(map[string]float64, len(types))
	for _, g := range types {
		multipliers[g.ID] = g.Multiplier
	}
	return multipliers, nil
}

// GarmentNames returns the display name for every garment type id
func (s *GormCatalogService) GarmentNames() (map[string]string, error) {
	var types []models.GarmentType
	if err := s.db.Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to load garment names: %w", err)
	}
	names := make(map[string]string, len(types))
	for _, g := range types {
		names[g.ID] = g.Name
	}
	return names, nil
}

// SeedReferenceData inserts the built-in starter catalog when the reference
// tables are empty. Re-running against a populated database is a no-op.
func SeedReferenceData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ServiceType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count service types: %w", err)
	}
	if count == 0 {
		serviceTypes := []models.ServiceType{
			{ID: "dry_cleaning", Name: "Dry Cleaning", Rate: 5.0},
			{ID: "wash_fold", Name: "Wash & Fold", Rate: 3.0},
			{ID: "alterations", Name: "Alterations", Rate: 8.0},
		}
		if err := db.Create(&serviceTypes).Error; err != nil {
			return fmt.Errorf("failed to seed service types: %w", err)
		}
	}

	if err := db.Model(&models.GarmentType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count garment types: %w", err)
	}
	if count == 0 {
		garmentTypes := []models.GarmentType{
			{ID: "shirt", Name: "Shirt", Multiplier: 1.0},
			{ID: "pants", Name: "Pants", Multiplier: 1.2},
			{ID: "dress", Name: "Dress", Multiplier: 1.5},
			{ID: "jacket", Name: "Jacket", Multiplier: 1.8},
		}
		if err := db.Create(&garmentTypes).Error; err != nil {
			return fmt.Errorf("failed to seed garment types: %w", err)
		}
	}

	return nil
}
