package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-pos-terminal/internal/checkout"
	"go-pos-terminal/internal/models"
)

// Store is the gorm-backed implementation of the checkout store interfaces
// plus the cashier directory lookups used by auth and admin handlers.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// RunInTransaction wraps fn in a database transaction. Every write made
// through the Store handed to fn commits or rolls back as one unit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(checkout.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// InsertTransaction persists the sale header; gorm inserts the associated
// items in the same statement batch.
func (s *Store) InsertTransaction(ctx context.Context, tx *models.Transaction) error {
	return s.db.WithContext(ctx).Create(tx).Error
}

// DecrementStock is the atomic conditional decrement:
// UPDATE products SET stock_quantity = stock_quantity - qty
// WHERE id = ? AND stock_quantity >= qty.
// It reports false when the guard fails, so stock can never go negative
// even under concurrent checkouts of the same product.
func (s *Store) DecrementStock(ctx context.Context, productID uint, qty int) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindActiveByID returns the cashier only when active and not soft-deleted;
// (nil, nil) otherwise. Gorm's soft-delete scope excludes deleted rows.
func (s *Store) FindActiveByID(ctx context.Context, id uint) (*models.Cashier, error) {
	var cashier models.Cashier
	err := s.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&cashier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cashier, nil
}

// FindActiveByUsername is the login lookup: exact username, active flag set,
// soft-deleted rows excluded. (nil, nil) when nothing matches.
func (s *Store) FindActiveByUsername(ctx context.Context, username string) (*models.Cashier, error) {
	var cashier models.Cashier
	err := s.db.WithContext(ctx).
		Where("username = ? AND active = ?", username, true).
		First(&cashier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cashier, nil
}
