package repository

import (
	"errors"
	"time"

	"go-stockdesk/internal/model"

	"gorm.io/gorm"
)

// RecentLimit bounds transaction listings to the most recent entries.
const RecentLimit = 200

type TransactionRepository interface {
	FindRecent() ([]model.Transaction, error)
	FindByID(id uint) (*model.Transaction, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
	GetDashboardStats() (*DashboardStats, error)
}

// StockMovementData untuk chart data
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

// DashboardStats untuk overview stats
type DashboardStats struct {
	TotalProducts  int64   `json:"total_products"`
	LowStockCount  int64   `json:"low_stock_count"`
	TotalValuation float64 `json:"total_valuation"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) FindRecent() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items").Preload("Items.Product").
		Order("id DESC").
		Limit(RecentLimit).
		Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uint) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := r.db.Preload("Items").Preload("Items.Product").First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	// Aggregate line-item quantities per day, split by direction.
	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(transactions.created_at) as date,
			COALESCE(SUM(CASE WHEN transactions.type = 'purchase' THEN tx_items.qty ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN transactions.type = 'sale' THEN tx_items.qty ELSE 0 END), 0) as outbound
		`).
		Joins("JOIN tx_items ON tx_items.tx_id = transactions.id").
		Where("transactions.created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(transactions.created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, rows.Err()
}

func (r *transactionRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}

	// Low stock: at or below the per-product reorder level.
	if err := r.db.Model(&model.Product{}).
		Where("stock <= reorder_level").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	// Total valuation: SUM(stock * price)
	if err := r.db.Model(&model.Product{}).
		Select("COALESCE(SUM(stock * price), 0)").
		Scan(&stats.TotalValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
