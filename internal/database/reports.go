package database

import (
	"time"

	"github.com/shopspring/decimal"

	"go-pos-terminal/internal/models"
)

// SalesReportResult summarizes completed sales in a date range.
type SalesReportResult struct {
	TotalRevenue decimal.Decimal
	TotalCount   int64
}

// GetSalesReport calculates revenue and sale count within a date range.
// COALESCE keeps the revenue at 0 instead of NULL when no sales exist.
func GetSalesReport(start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	err := DB.Model(&models.Transaction{}).
		Where("created_at BETWEEN ? AND ? AND status = ?", start, end, models.StatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&result.TotalRevenue).Error
	if err != nil {
		return nil, err
	}

	err = DB.Model(&models.Transaction{}).
		Where("created_at BETWEEN ? AND ? AND status = ?", start, end, models.StatusCompleted).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}
