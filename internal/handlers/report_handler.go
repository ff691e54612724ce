package handlers

import (
	"net/http"
	"time"

	"go-pos-terminal/internal/database"
	"go-pos-terminal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

// ReportData defines the shape of the admin dashboard analytics response
type ReportData struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int64           `json:"total_orders"`
	TopSelling   []struct {
		ProductName string          `json:"product_name"`
		Sold        int             `json:"sold"`
		Revenue     decimal.Decimal `json:"revenue"`
	} `json:"top_selling"`
	RecentSales []models.Transaction `json:"recent_sales"`
}

// --- GET: /api/reports ---
func GetSalesReport(c *gin.Context) {
	var data ReportData

	// 1. Total revenue (all time, completed sales only)
	err := database.DB.Model(&models.Transaction{}).
		Where("status = ?", models.StatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	// 2. Count total orders
	err = database.DB.Model(&models.Transaction{}).
		Where("status = ?", models.StatusCompleted).
		Count(&data.TotalOrders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}

	// 3. Top 5 best sellers
	err = database.DB.Table("transaction_items").
		Select("transaction_items.product_name as product_name, SUM(transaction_items.quantity) as sold, SUM(transaction_items.quantity * transaction_items.price_at_sale) as revenue").
		Group("transaction_items.product_name").
		Order("sold desc").
		Limit(5).
		Scan(&data.TopSelling).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	// 4. Last 10 transactions, newest first
	err = database.DB.Preload("Items").
		Order("created_at desc").Limit(10).
		Find(&data.RecentSales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// --- GET: /api/reports/range?start=2026-01-01&end=2026-01-31 ---
func GetSalesReportRange(c *gin.Context) {
	start, err1 := time.Parse("2006-01-02", c.Query("start"))
	end, err2 := time.Parse("2006-01-02", c.Query("end"))
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be YYYY-MM-DD"})
		return
	}
	end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	report, err := database.GetSalesReport(start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate sales"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_revenue": report.TotalRevenue,
		"total_orders":  report.TotalCount,
	})
}

// --- GET: /api/reports/export ---
// Streams every transaction with its line items as an Excel workbook.
func ExportTransactionsExcel(c *gin.Context) {
	var transactions []models.Transaction
	if err := database.DB.Preload("Items").Order("created_at desc").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transactions")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
		return
	}

	headers := []string{
		"ReceiptNo", "Date", "CashierID", "PaymentMethod", "Status",
		"Product", "Quantity", "UnitPrice", "LineTotal", "TransactionTotal",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().SetValue(h)
	}

	for _, tx := range transactions {
		for _, item := range tx.Items {
			row := sheet.AddRow()
			row.AddCell().SetValue(tx.ReceiptNo)
			row.AddCell().SetValue(tx.CreatedAt.Format("2006-01-02 15:04:05"))
			row.AddCell().SetValue(int(tx.CashierID))
			row.AddCell().SetValue(tx.PaymentMethod)
			row.AddCell().SetValue(tx.Status)
			row.AddCell().SetValue(item.ProductName)
			row.AddCell().SetValue(item.Quantity)
			row.AddCell().SetValue(item.PriceAtSale.StringFixed(2))
			lineTotal := item.PriceAtSale.Mul(decimal.NewFromInt(int64(item.Quantity)))
			row.AddCell().SetValue(lineTotal.StringFixed(2))
			row.AddCell().SetValue(tx.TotalAmount.StringFixed(2))
		}
	}

	c.Header("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
	}
}
