package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"go-pos-terminal/internal/cart"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/receipt"
)

var (
	// ErrEmptyCart means there is nothing to settle.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrCashierInactive means the session's cashier was deactivated or
	// deleted since login.
	ErrCashierInactive = errors.New("cashier is inactive or unknown")
	// ErrInvalidPayment means the payment method is not cash, card or mobile.
	ErrInvalidPayment = errors.New("invalid payment method")
	// ErrInsufficientTender means a cash payment did not cover the total.
	ErrInsufficientTender = errors.New("tendered amount is less than the total")
	// ErrPersistence wraps any backing-store failure. The cart is left
	// intact so the cashier can retry without re-ringing items.
	ErrPersistence = errors.New("persistence failure")
)

// CashierDirectory looks up cashiers for the settlement identity re-check.
// Implementations return (nil, nil) when no active, non-deleted row matches.
type CashierDirectory interface {
	FindActiveByID(ctx context.Context, id uint) (*models.Cashier, error)
}

// Store is the slice of the backing store the settlement writes through.
// DecrementStock must be an atomic conditional decrement: it reports false,
// without error, when the remaining stock no longer covers qty.
type Store interface {
	InsertTransaction(ctx context.Context, tx *models.Transaction) error
	DecrementStock(ctx context.Context, productID uint, qty int) (bool, error)
}

// TransactionalStore runs a function against a Store such that every write
// inside commits or rolls back as one unit.
type TransactionalStore interface {
	RunInTransaction(ctx context.Context, fn func(Store) error) error
}

// Service turns a rung-up cart into a durable transaction plus a receipt.
type Service struct {
	cashiers  CashierDirectory
	store     TransactionalStore
	taxRate   func() decimal.Decimal
	storeName string
}

func NewService(cashiers CashierDirectory, store TransactionalStore, taxRate func() decimal.Decimal, storeName string) *Service {
	return &Service{
		cashiers:  cashiers,
		store:     store,
		taxRate:   taxRate,
		storeName: storeName,
	}
}

// Checkout settles the cart for the given cashier.
//
// The settlement order is fixed: re-check the cashier, then persist the
// transaction header, its line items and the stock decrements inside a
// single store transaction, then assemble the receipt and clear the cart.
// An insert failure rolls everything back and keeps the cart; a lost stock
// decrement (another terminal sold the last units first) does NOT abort the
// sale - it is logged and surfaced as a warning on the receipt, because a
// cashier mid-sale cannot be blocked by inventory drift.
//
// tendered is only meaningful for cash payments and is re-validated here
// rather than trusting the terminal's own gate.
func (s *Service) Checkout(ctx context.Context, c *cart.Cart, identity models.CashierIdentity, paymentMethod string, tendered *decimal.Decimal) (*receipt.Receipt, error) {
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	switch paymentMethod {
	case models.PaymentCash, models.PaymentCard, models.PaymentMobile:
	default:
		return nil, ErrInvalidPayment
	}

	// Step 1: identity re-check. An admin may have deactivated this cashier
	// mid-session; the login token alone is not enough.
	cashier, err := s.cashiers.FindActiveByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: cashier lookup: %v", ErrPersistence, err)
	}
	if cashier == nil || !cashier.Active {
		return nil, ErrCashierInactive
	}

	// Tax uses the rate configured right now, not the rate at add-to-cart time.
	rate := s.taxRate()
	subtotal := c.Subtotal()
	tax := c.TaxAmount(rate)
	total := c.Total(rate)

	if paymentMethod == models.PaymentCash {
		if tendered == nil || tendered.LessThan(total) {
			return nil, ErrInsufficientTender
		}
	}

	lines := c.Lines()
	record := &models.Transaction{
		ReceiptNo:     uuid.NewString(),
		CashierID:     cashier.ID,
		TotalAmount:   total,
		PaymentMethod: paymentMethod,
		Status:        models.StatusCompleted,
		CreatedAt:     time.Now(),
	}
	for _, l := range lines {
		record.Items = append(record.Items, models.TransactionItem{
			ProductID:   l.ProductID,
			ProductName: l.Name,
			Quantity:    l.Quantity,
			PriceAtSale: l.UnitPrice, // snapshot, never a live re-read
		})
	}

	// Steps 2-4: header, items and decrements commit or roll back together.
	var warnings []receipt.StockWarning
	err = s.store.RunInTransaction(ctx, func(store Store) error {
		if err := store.InsertTransaction(ctx, record); err != nil {
			return err
		}
		for _, l := range lines {
			ok, err := store.DecrementStock(ctx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				// A concurrent sale took the stock first. The decrement is
				// conditional at the store, so it cannot go negative; record
				// the drift and keep going.
				log.Printf("Stock decrement lost for product %d (%s, qty %d) on receipt %s",
					l.ProductID, l.Name, l.Quantity, record.ReceiptNo)
				warnings = append(warnings, receipt.StockWarning{
					ProductID: l.ProductID,
					Name:      l.Name,
					Quantity:  l.Quantity,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Step 5: receipt assembly from the persisted snapshots.
	rcpt := receipt.Build(record, cashier.Username, subtotal, tax, tendered)
	rcpt.StoreName = s.storeName
	rcpt.StockWarnings = warnings

	// Step 6: the sale is durable; the terminal starts fresh.
	c.Clear()

	return rcpt, nil
}
