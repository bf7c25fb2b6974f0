package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/freshpress/laundry-orders-api/models"
)

// PricingService computes order totals and summaries from the reference
// catalog. It is pure given a catalog snapshot: missing reference data never
// produces an error, it degrades instead (missing service type prices items
// at a zero rate, unknown garment ids fall back to a 1.0 multiplier). That
// forgiving behavior is deliberate and covered by tests.
type PricingService struct {
	catalog CatalogService
}

var pricingServiceInstance *PricingService

// InitPricingService initializes the pricing service with a catalog provider
func InitPricingService(catalog CatalogService) *PricingService {
	pricingServiceInstance = &PricingService{catalog: catalog}
	return pricingServiceInstance
}

// GetPricingService returns the initialized pricing service instance
func GetPricingService() *PricingService {
	return pricingServiceInstance
}

// NormalizeLineItems is the single coercion seam for raw line item input:
// entries with a quantity <= 0 are silently dropped, not rejected. Empty
// input normalizes to nil.
func NormalizeLineItems(items []models.LineItem) models.LineItems {
	if len(items) == 0 {
		return nil
	}
	normalized := make(models.LineItems, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		normalized = append(normalized, models.LineItem{
			GarmentType:  it.GarmentType,
			Quantity:     it.Quantity,
			Instructions: it.Instructions,
		})
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}

// TotalQuantity sums the quantities of the given line items.
func TotalQuantity(items models.LineItems) int {
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// ComputeTotal calculates the total price for the given service type and
// line items: sum of quantity * service rate * garment multiplier over all
// items, rounded half away from zero to 2 decimal places. An empty item
// list totals 0.
func (p *PricingService) ComputeTotal(serviceTypeID string, items models.LineItems) (float64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	rate, _, err := p.catalog.ServiceRate(serviceTypeID)
	if err != nil {
		return 0, err
	}
	multipliers, err := p.catalog.GarmentMultipliers()
	if err != nil {
		return 0, err
	}

	total := decimal.Zero
	rateDec := decimal.NewFromFloat(rate)
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		mult, ok := multipliers[it.GarmentType]
		if !ok {
			mult = 1.0
		}
		line := decimal.NewFromInt(int64(it.Quantity)).Mul(rateDec).Mul(decimal.NewFromFloat(mult))
		total = total.Add(line)
	}

	return total.Round(2).InexactFloat64(), nil
}

// Summarize builds the human-readable item description, e.g.
// "2x Shirt; 1x Pants". Items with quantity <= 0 are skipped; an unknown
// garment id falls back to the raw id as its display name. An empty list
// yields an empty string.
func (p *PricingService) Summarize(items models.LineItems) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	names, err := p.catalog.GarmentNames()
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		name, ok := names[it.GarmentType]
		if !ok {
			name = it.GarmentType
		}
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, name))
	}

	return strings.Join(parts, "; "), nil
}

// BaseRate returns the service rate snapshot stored on orders as their unit
// price. Missing service types degrade to 0.
func (p *PricingService) BaseRate(serviceTypeID string) (float64, error) {
	rate, _, err := p.catalog.ServiceRate(serviceTypeID)
	if err != nil {
		return 0, err
	}
	return rate, nil
}

// legacyTotal is the fallback pricing for orders without line items.
func legacyTotal(quantity int, price float64) float64 {
	return decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(price)).Round(2).InexactFloat64()
}
