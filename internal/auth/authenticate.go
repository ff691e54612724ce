package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"go-pos-terminal/internal/models"
)

// ErrInvalidCredentials is returned for every login failure: unknown
// username, wrong password, inactive or soft-deleted cashier. One error for
// all cases so a caller cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CashierDirectory is the lookup the login path needs. Implementations must
// filter to active, non-deleted cashiers and return (nil, nil) when no row
// matches.
type CashierDirectory interface {
	FindActiveByUsername(ctx context.Context, username string) (*models.Cashier, error)
}

// Authenticate verifies a username/password pair against the directory.
// The bcrypt comparison is constant-time. On success it returns the identity
// the terminal binds its session to.
func Authenticate(ctx context.Context, dir CashierDirectory, username, password string) (*models.CashierIdentity, error) {
	cashier, err := dir.FindActiveByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("cashier lookup: %w", err)
	}
	if cashier == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cashier.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &models.CashierIdentity{
		ID:       cashier.ID,
		Username: cashier.Username,
		Role:     cashier.Role,
	}, nil
}

// HashPassword hashes a plaintext password for storage. Cashier creation
// always goes through this; plaintext never reaches the database.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
