package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment methods accepted at the terminal.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMobile = "mobile"
)

// Transaction statuses.
const (
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusPending   = "pending"
)

// Cashier - The person operating the terminal.
// Soft-deleted cashiers keep their rows (past sales reference them) but can never log in.
type Cashier struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string         `json:"-"` // Never return this in JSON
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role"` // 'admin' or 'cashier'
	Active       bool           `gorm:"default:true" json:"active"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Product - The Inventory
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	Barcode       string          `gorm:"size:13;index" json:"barcode,omitempty"` // EAN-13 / UPC-A
	ImageURL      string          `json:"image_url"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Transaction - The Sale Header
// Written once at settlement, never updated.
type Transaction struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	ReceiptNo     string            `gorm:"uniqueIndex;size:36" json:"receipt_no"`
	CashierID     uint              `json:"cashier_id"` // Who processed it
	TotalAmount   decimal.Decimal   `gorm:"type:decimal(10,2)" json:"total_amount"`
	PaymentMethod string            `json:"payment_method"` // 'cash', 'card', 'mobile'
	Status        string            `json:"status"`         // 'completed', 'cancelled', 'pending'
	CreatedAt     time.Time         `json:"created_at"`
	Items         []TransactionItem `gorm:"foreignKey:TransactionID" json:"items"`
}

// TransactionItem - One cart line frozen at the moment of sale.
// Name and price are snapshots so later catalog edits never rewrite old receipts.
type TransactionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TransactionID uint            `json:"transaction_id"`
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	PriceAtSale   decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_at_sale"`
}

// CashierIdentity is what a successful login hands back: just enough to bind
// a terminal session to a cashier. Checkout takes it explicitly, never from
// ambient session state.
type CashierIdentity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}
