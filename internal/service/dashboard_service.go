package service

import (
	"sort"
	"time"

	"go-stockdesk/internal/repository"
	"go-stockdesk/internal/stock"
)

type DashboardService interface {
	GetStockMovement(days int) ([]repository.StockMovementData, error)
	GetDashboardStats() (*repository.DashboardStats, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
}

func NewDashboardService(txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{txRepo: txRepo}
}

func (s *dashboardService) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	return s.txRepo.GetStockMovement(startDate, endDate)
}

func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	return s.txRepo.GetDashboardStats()
}

// fallbackDashboard computes the same overview over the file store, using
// the pure helpers instead of SQL aggregates.
type fallbackDashboard struct {
	inv InventoryService
}

func NewFallbackDashboard(inv InventoryService) DashboardService {
	return &fallbackDashboard{inv: inv}
}

func (s *fallbackDashboard) GetDashboardStats() (*repository.DashboardStats, error) {
	products, err := s.inv.ListProducts()
	if err != nil {
		return nil, err
	}
	return &repository.DashboardStats{
		TotalProducts:  int64(len(products)),
		LowStockCount:  int64(stock.LowStockCount(products)),
		TotalValuation: stock.TotalValue(products),
	}, nil
}

func (s *fallbackDashboard) GetStockMovement(days int) ([]repository.StockMovementData, error) {
	transactions, err := s.inv.ListTransactions()
	if err != nil {
		return nil, err
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -days)

	byDay := map[string]*repository.StockMovementData{}
	for _, tx := range transactions {
		if tx.CreatedAt.Before(startDate) || tx.CreatedAt.After(endDate) {
			continue
		}
		day := tx.CreatedAt.Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &repository.StockMovementData{Date: day}
			byDay[day] = entry
		}
		for _, it := range tx.Items {
			if tx.Type.Multiplier() > 0 {
				entry.Inbound += it.Qty
			} else {
				entry.Outbound += it.Qty
			}
		}
	}

	results := make([]repository.StockMovementData, 0, len(byDay))
	for _, entry := range byDay {
		results = append(results, *entry)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Date < results[j].Date })
	return results, nil
}
