package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/freshpress/laundry-orders-api/models"
)

// stubCatalog is a fixed catalog snapshot so pricing tests run without a
// database.
type stubCatalog struct {
	rates       map[string]float64
	multipliers map[string]float64
	names       map[string]string
}

func (s *stubCatalog) ListServiceTypes() ([]models.ServiceType, error) { return nil, nil }
func (s *stubCatalog) ListGarmentTypes() ([]models.GarmentType, error) { return nil, nil }

func (s *stubCatalog) ServiceRate(id string) (float64, bool, error) {
	rate, ok := s.rates[id]
	return rate, ok, nil
}

func (s *stubCatalog) GarmentMultipliers() (map[string]float64, error) {
	return s.multipliers, nil
}

func (s *stubCatalog) GarmentNames() (map[string]string, error) {
	return s.names, nil
}

func newTestPricing() *PricingService {
	return &PricingService{catalog: &stubCatalog{
		rates: map[string]float64{
			"wash_fold":    3.0,
			"dry_cleaning": 5.0,
		},
		multipliers: map[string]float64{
			"shirt": 1.0,
			"pants": 1.2,
		},
		names: map[string]string{
			"shirt": "Shirt",
			"pants": "Pants",
		},
	}}
}

func TestComputeTotal(t *testing.T) {
	pricing := newTestPricing()

	tests := []struct {
		name        string
		serviceType string
		items       models.LineItems
		expected    float64
	}{
		{
			name:        "single item quantity times rate times multiplier",
			serviceType: "wash_fold",
			items:       models.LineItems{{GarmentType: "pants", Quantity: 4}},
			expected:    14.40, // 4 * 3.0 * 1.2
		},
		{
			name:        "multiple items sum",
			serviceType: "dry_cleaning",
			items: models.LineItems{
				{GarmentType: "shirt", Quantity: 2},
				{GarmentType: "pants", Quantity: 1},
			},
			expected: 16.00, // 2*5.0*1.0 + 1*5.0*1.2
		},
		{
			name:        "empty items always zero",
			serviceType: "wash_fold",
			items:       models.LineItems{},
			expected:    0,
		},
		{
			name:        "missing service type degrades to zero rate",
			serviceType: "ironing",
			items:       models.LineItems{{GarmentType: "shirt", Quantity: 3}},
			expected:    0,
		},
		{
			name:        "unknown garment defaults to multiplier 1.0",
			serviceType: "wash_fold",
			items:       models.LineItems{{GarmentType: "cape", Quantity: 2}},
			expected:    6.00, // 2 * 3.0 * 1.0
		},
		{
			name:        "zero quantity item contributes nothing",
			serviceType: "wash_fold",
			items: models.LineItems{
				{GarmentType: "shirt", Quantity: 2},
				{GarmentType: "pants", Quantity: 0},
			},
			expected: 6.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, err := pricing.ComputeTotal(tt.serviceType, tt.items)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, total)
		})
	}
}

func TestComputeTotalRoundsHalfAwayFromZero(t *testing.T) {
	pricing := &PricingService{catalog: &stubCatalog{
		rates:       map[string]float64{"svc": 0.335},
		multipliers: map[string]float64{"shirt": 1.0},
		names:       map[string]string{"shirt": "Shirt"},
	}}

	// 1 * 0.335 rounds up to 0.34, pinning the half-away-from-zero rule
	total, err := pricing.ComputeTotal("svc", models.LineItems{{GarmentType: "shirt", Quantity: 1}})
	assert.NoError(t, err)
	assert.Equal(t, 0.34, total)
}

func TestSummarize(t *testing.T) {
	pricing := newTestPricing()

	tests := []struct {
		name     string
		items    models.LineItems
		expected string
	}{
		{
			name: "joins items with semicolons",
			items: models.LineItems{
				{GarmentType: "shirt", Quantity: 2},
				{GarmentType: "pants", Quantity: 1},
			},
			expected: "2x Shirt; 1x Pants",
		},
		{
			name: "drops zero quantity items",
			items: models.LineItems{
				{GarmentType: "shirt", Quantity: 2},
				{GarmentType: "pants", Quantity: 0},
			},
			expected: "2x Shirt",
		},
		{
			name:     "unknown garment falls back to raw id",
			items:    models.LineItems{{GarmentType: "cape", Quantity: 1}},
			expected: "1x cape",
		},
		{
			name:     "empty list yields empty string",
			items:    models.LineItems{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := pricing.Summarize(tt.items)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, summary)
		})
	}
}

func TestNormalizeLineItems(t *testing.T) {
	items := NormalizeLineItems([]models.LineItem{
		{GarmentType: "shirt", Quantity: 2, Instructions: "no starch"},
		{GarmentType: "pants", Quantity: 0},
		{GarmentType: "dress", Quantity: -3},
	})
	assert.Equal(t, models.LineItems{{GarmentType: "shirt", Quantity: 2, Instructions: "no starch"}}, items)

	// All-dropped and empty input both normalize to nil
	assert.Nil(t, NormalizeLineItems([]models.LineItem{{GarmentType: "pants", Quantity: 0}}))
	assert.Nil(t, NormalizeLineItems(nil))
}

func TestTotalQuantity(t *testing.T) {
	items := models.LineItems{
		{GarmentType: "shirt", Quantity: 2},
		{GarmentType: "pants", Quantity: 3},
	}
	assert.Equal(t, 5, TotalQuantity(items))
	assert.Equal(t, 0, TotalQuantity(nil))
}

func TestLegacyTotal(t *testing.T) {
	assert.Equal(t, 7.5, legacyTotal(3, 2.5))
	assert.Equal(t, 0.0, legacyTotal(0, 9.99))
}
