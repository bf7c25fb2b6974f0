package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/freshpress/laundry-orders-api/models"
)

// Statistics is the dashboard summary of the order book.
type Statistics struct {
	TotalOrders     int64   `json:"total_orders"`
	PendingOrders   int64   `json:"pending_orders"`
	ReadyOrders     int64   `json:"ready_orders"`
	CompletedOrders int64   `json:"completed_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
}

// PopularItem is one entry of the popular-items report, grouped by the
// order's item description.
type PopularItem struct {
	Item   string `json:"item"`
	Orders int64  `json:"orders"`
}

// SalesReport aggregates orders created within a date range.
type SalesReport struct {
	TotalOrders     int64   `json:"total_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	CompletedOrders int64   `json:"completed_orders"`
	PendingOrders   int64   `json:"pending_orders"`
}

// ReportService provides the aggregate queries behind the dashboard and
// reporting screens.
type ReportService struct {
	db *gorm.DB
}

var reportServiceInstance *ReportService

// InitReportService initializes the report service with a database handle
func InitReportService(db *gorm.DB) *ReportService {
	reportServiceInstance = &ReportService{db: db}
	return reportServiceInstance
}

// GetReportService returns the initialized report service instance
func GetReportService() *ReportService {
	return reportServiceInstance
}

// GetStatistics returns overall order counts and revenue.
func (s *ReportService) GetStatistics() (*Statistics, error) {
	stats := &Statistics{}

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	counts := map[string]*int64{
		models.StatusPending:   &stats.PendingOrders,
		models.StatusReady:     &stats.ReadyOrders,
		models.StatusCompleted: &stats.CompletedOrders,
	}
	for status, dest := range counts {
		if err := s.db.Model(&models.Order{}).Where("status = ?", status).Count(dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s orders: %w", status, err)
		}
	}
	if err := s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").Scan(&stats.TotalRevenue).Error; err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return stats, nil
}

// GetDailyRevenue returns the total revenue from orders created today.
func (s *ReportService) GetDailyRevenue() (float64, error) {
	today := startOfDay(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	var total float64
	err := s.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute daily revenue: %w", err)
	}
	return total, nil
}

// GetPendingOrdersCount returns the number of pending orders.
func (s *ReportService) GetPendingOrdersCount() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Order{}).Where("status = ?", models.StatusPending).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count pending orders: %w", err)
	}
	return count, nil
}

// GetNewCustomersCount returns the number of customers created in the last
// 24 hours.
func (s *ReportService) GetNewCustomersCount() (int64, error) {
	since := time.Now().AddDate(0, 0, -1)
	var count int64
	if err := s.db.Model(&models.Customer{}).Where("created_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count new customers: %w", err)
	}
	return count, nil
}

// GetPopularItems returns the most ordered item descriptions.
func (s *ReportService) GetPopularItems(limit int) ([]PopularItem, error) {
	if limit <= 0 {
		limit = 5
	}
	var items []PopularItem
	err := s.db.Model(&models.Order{}).
		Select("item_description AS item, COUNT(*) AS orders").
		Group("item_description").
		Order("orders DESC").
		Limit(limit).
		Scan(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load popular items: %w", err)
	}
	return items, nil
}

// GetSalesReport aggregates orders created within the inclusive date range.
func (s *ReportService) GetSalesReport(start, end time.Time) (*SalesReport, error) {
	from := startOfDay(start)
	to := startOfDay(end).AddDate(0, 0, 1)

	var orders []models.Order
	if err := s.db.Where("created_at >= ? AND created_at < ?", from, to).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales report orders: %w", err)
	}

	report := &SalesReport{TotalOrders: int64(len(orders))}
	for _, o := range orders {
		report.TotalRevenue += o.TotalPrice
		switch o.Status {
		case models.StatusCompleted:
			report.CompletedOrders++
		case models.StatusPending:
			report.PendingOrders++
		}
	}
	return report, nil
}
