package auth

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"go-pos-terminal/internal/models"
)

// fakeDirectory mimics the store contract: only active, non-deleted rows
// come back, everything else is (nil, nil).
type fakeDirectory struct {
	cashiers map[string]*models.Cashier
}

func (d *fakeDirectory) FindActiveByUsername(_ context.Context, username string) (*models.Cashier, error) {
	c, ok := d.cashiers[username]
	if !ok || !c.Active || c.DeletedAt.Valid {
		return nil, nil
	}
	return c, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(h)
}

func TestAuthenticate_Success(t *testing.T) {
	dir := &fakeDirectory{cashiers: map[string]*models.Cashier{
		"dana": {ID: 7, Username: "dana", Role: "cashier", Active: true, PasswordHash: hash(t, "hunter2")},
	}}

	identity, err := Authenticate(context.Background(), dir, "dana", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if identity.ID != 7 || identity.Username != "dana" {
		t.Errorf("wrong identity: %+v", identity)
	}
}

func TestAuthenticate_UnknownUsername(t *testing.T) {
	dir := &fakeDirectory{cashiers: map[string]*models.Cashier{}}

	_, err := Authenticate(context.Background(), dir, "nobody", "hunter2")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_WrongPassword(t *testing.T) {
	dir := &fakeDirectory{cashiers: map[string]*models.Cashier{
		"dana": {ID: 7, Username: "dana", Active: true, PasswordHash: hash(t, "hunter2")},
	}}

	_, err := Authenticate(context.Background(), dir, "dana", "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_InactiveCashier(t *testing.T) {
	dir := &fakeDirectory{cashiers: map[string]*models.Cashier{
		"dana": {ID: 7, Username: "dana", Active: false, PasswordHash: hash(t, "hunter2")},
	}}

	// Correct password, deactivated account: same uniform error.
	_, err := Authenticate(context.Background(), dir, "dana", "hunter2")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticate_SoftDeletedCashier(t *testing.T) {
	deleted := &models.Cashier{ID: 7, Username: "dana", Active: true, PasswordHash: hash(t, "hunter2")}
	deleted.DeletedAt.Valid = true

	dir := &fakeDirectory{cashiers: map[string]*models.Cashier{"dana": deleted}}

	_, err := Authenticate(context.Background(), dir, "dana", "hunter2")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	h, err := HashPassword("hunter2")
	if err != nil {
		t.Fatal(err)
	}
	if h == "hunter2" {
		t.Fatal("plaintext must never come back as its own hash")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("hunter2")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}
