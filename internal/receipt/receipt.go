package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"go-pos-terminal/internal/models"
)

// Line is one printed row on the receipt.
type Line struct {
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// StockWarning reports a line whose stock decrement lost the race at
// settlement. The sale itself still completed.
type StockWarning struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// Receipt is the view-model handed to the terminal after settlement.
// Tendered and Change are only present for cash payments.
type Receipt struct {
	ReceiptNo     string           `json:"receipt_no"`
	TransactionID uint             `json:"transaction_id"`
	Timestamp     time.Time        `json:"timestamp"`
	StoreName     string           `json:"store_name,omitempty"`
	Cashier       string           `json:"cashier"`
	Lines         []Line           `json:"lines"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Tax           decimal.Decimal  `json:"tax"`
	Total         decimal.Decimal  `json:"total"`
	PaymentMethod string           `json:"payment_method"`
	Tendered      *decimal.Decimal `json:"tendered,omitempty"`
	Change        *decimal.Decimal `json:"change,omitempty"`
	StockWarnings []StockWarning   `json:"stock_warnings,omitempty"`
}

// Build assembles the receipt view-model from a persisted transaction.
// Line data comes from the transaction's snapshot items, so the receipt
// reproduces exactly what was sold at the price it was sold for.
func Build(tx *models.Transaction, cashier string, subtotal, tax decimal.Decimal, tendered *decimal.Decimal) *Receipt {
	r := &Receipt{
		ReceiptNo:     tx.ReceiptNo,
		TransactionID: tx.ID,
		Timestamp:     tx.CreatedAt,
		Cashier:       cashier,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         tx.TotalAmount,
		PaymentMethod: tx.PaymentMethod,
	}

	for _, item := range tx.Items {
		r.Lines = append(r.Lines, Line{
			Name:      item.ProductName,
			UnitPrice: item.PriceAtSale,
			Quantity:  item.Quantity,
			LineTotal: item.PriceAtSale.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	if tx.PaymentMethod == models.PaymentCash && tendered != nil {
		change := tendered.Sub(tx.TotalAmount)
		if change.IsNegative() {
			change = decimal.Zero
		}
		r.Tendered = tendered
		r.Change = &change
	}

	return r
}

// Render formats the receipt as plain text for an 80mm thermal printer.
func (r *Receipt) Render() string {
	var b strings.Builder

	if r.StoreName != "" {
		fmt.Fprintf(&b, "%s\n", r.StoreName)
	}
	fmt.Fprintf(&b, "Receipt %s\n", r.ReceiptNo)
	fmt.Fprintf(&b, "%s  Cashier: %s\n", r.Timestamp.Format("2006-01-02 15:04"), r.Cashier)
	b.WriteString(strings.Repeat("-", 32) + "\n")

	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%-20s x%-3d %8s\n", l.Name, l.Quantity, l.LineTotal.StringFixed(2))
	}

	b.WriteString(strings.Repeat("-", 32) + "\n")
	fmt.Fprintf(&b, "%-25s %8s\n", "Subtotal", r.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%-25s %8s\n", "Tax", r.Tax.StringFixed(2))
	fmt.Fprintf(&b, "%-25s %8s\n", "TOTAL", r.Total.StringFixed(2))
	fmt.Fprintf(&b, "Paid by %s\n", r.PaymentMethod)
	if r.Tendered != nil && r.Change != nil {
		fmt.Fprintf(&b, "%-25s %8s\n", "Tendered", r.Tendered.StringFixed(2))
		fmt.Fprintf(&b, "%-25s %8s\n", "Change", r.Change.StringFixed(2))
	}

	return b.String()
}
