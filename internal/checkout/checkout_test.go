package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"go-pos-terminal/internal/cart"
	"go-pos-terminal/internal/models"
)

type fakeDirectory struct {
	cashiers map[uint]*models.Cashier
	err      error
}

func (d *fakeDirectory) FindActiveByID(_ context.Context, id uint) (*models.Cashier, error) {
	if d.err != nil {
		return nil, d.err
	}
	c, ok := d.cashiers[id]
	if !ok || !c.Active {
		return nil, nil
	}
	return c, nil
}

// fakeStore implements Store and TransactionalStore in memory. A failed fn
// inside RunInTransaction restores the pre-transaction state, mirroring a
// database rollback.
type fakeStore struct {
	stock        map[uint]int
	transactions []*models.Transaction
	insertErr    error
	decrementErr error
	nextID       uint
}

func newFakeStore(stock map[uint]int) *fakeStore {
	return &fakeStore{stock: stock, nextID: 1}
}

func (s *fakeStore) InsertTransaction(_ context.Context, tx *models.Transaction) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	tx.ID = s.nextID
	s.nextID++
	s.transactions = append(s.transactions, tx)
	return nil
}

func (s *fakeStore) DecrementStock(_ context.Context, productID uint, qty int) (bool, error) {
	if s.decrementErr != nil {
		return false, s.decrementErr
	}
	if s.stock[productID] < qty {
		return false, nil
	}
	s.stock[productID] -= qty
	return true, nil
}

func (s *fakeStore) RunInTransaction(ctx context.Context, fn func(Store) error) error {
	stockBefore := make(map[uint]int, len(s.stock))
	for k, v := range s.stock {
		stockBefore[k] = v
	}
	txBefore := len(s.transactions)

	if err := fn(s); err != nil {
		s.stock = stockBefore
		s.transactions = s.transactions[:txBefore]
		return err
	}
	return nil
}

func activeCashier(id uint, username string) map[uint]*models.Cashier {
	return map[uint]*models.Cashier{
		id: {ID: id, Username: username, Role: "cashier", Active: true},
	}
}

func taxRate(pct string) func() decimal.Decimal {
	return func() decimal.Decimal { return decimal.RequireFromString(pct) }
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cartWith(t *testing.T, products ...models.Product) *cart.Cart {
	t.Helper()
	c := cart.New()
	for _, p := range products {
		if err := c.Add(p, 1); err != nil {
			t.Fatalf("building cart: %v", err)
		}
	}
	return c
}

func TestCheckout_CashWithChange(t *testing.T) {
	// One line: Wireless Headphones 99.99 x1, 0% tax, tendered 100.00.
	store := newFakeStore(map[uint]int{1: 5})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cartWith(t, models.Product{ID: 1, Name: "Wireless Headphones", Price: dec("99.99"), StockQuantity: 5})
	tendered := dec("100.00")

	rcpt, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCash, &tendered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rcpt.Total.Equal(dec("99.99")) {
		t.Errorf("expected total 99.99, got %s", rcpt.Total)
	}
	if rcpt.Change == nil || !rcpt.Change.Equal(dec("0.01")) {
		t.Errorf("expected change 0.01, got %v", rcpt.Change)
	}
	if !c.IsEmpty() {
		t.Error("cart should be empty after a successful checkout")
	}
	if len(store.transactions) != 1 {
		t.Fatalf("expected 1 persisted transaction, got %d", len(store.transactions))
	}
	if store.stock[1] != 4 {
		t.Errorf("expected stock 4 after decrement, got %d", store.stock[1])
	}
}

func TestCheckout_TotalAndItemCountMatchCart(t *testing.T) {
	store := newFakeStore(map[uint]int{1: 10, 2: 10})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("10"), "Test Store")

	c := cart.New()
	c.Add(models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 10}, 2)
	c.Add(models.Product{ID: 2, Name: "Juice", Price: dec("4.25"), StockQuantity: 10}, 1)
	wantTotal := c.Total(dec("10")) // subtotal 11.25, tax 1.13 (rounded), total 12.38

	rcpt, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCard, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tx := store.transactions[0]
	if !tx.TotalAmount.Equal(wantTotal) {
		t.Errorf("transaction total %s != pre-checkout cart total %s", tx.TotalAmount, wantTotal)
	}
	if len(tx.Items) != 2 {
		t.Errorf("expected 2 transaction items (one per distinct line), got %d", len(tx.Items))
	}
	if !rcpt.Total.Equal(wantTotal) {
		t.Errorf("receipt total %s != cart total %s", rcpt.Total, wantTotal)
	}
	if tx.Status != models.StatusCompleted {
		t.Errorf("expected status completed, got %q", tx.Status)
	}
}

func TestCheckout_ReceiptRoundTrip(t *testing.T) {
	// Per line, quantity x captured price must sum back to the recorded total.
	store := newFakeStore(map[uint]int{1: 10, 2: 10})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cart.New()
	c.Add(models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 10}, 3)
	c.Add(models.Product{ID: 2, Name: "Juice", Price: dec("4.25"), StockQuantity: 10}, 2)

	rcpt, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCard, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := decimal.Zero
	for _, l := range rcpt.Lines {
		sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	if !sum.Equal(rcpt.Total) {
		t.Errorf("receipt lines sum to %s, recorded total is %s", sum, rcpt.Total)
	}
}

func TestCheckout_CardHasNoTenderFields(t *testing.T) {
	store := newFakeStore(map[uint]int{1: 5})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cartWith(t, models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 5})

	rcpt, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCard, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rcpt.Tendered != nil || rcpt.Change != nil {
		t.Error("card receipts must not carry tendered/change fields")
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	store := newFakeStore(map[uint]int{})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	_, err := svc.Checkout(context.Background(), cart.New(), models.CashierIdentity{ID: 7}, models.PaymentCash, nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	store := newFakeStore(map[uint]int{1: 5})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cartWith(t, models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 5})

	_, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, "cheque", nil)
	if !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected ErrInvalidPayment, got %v", err)
	}
}

func TestCheckout_CashierInactiveOrMissing(t *testing.T) {
	inactive := map[uint]*models.Cashier{
		7: {ID: 7, Username: "dana", Active: false},
	}
	store := newFakeStore(map[uint]int{1: 5})
	svc := NewService(&fakeDirectory{cashiers: inactive}, store, taxRate("0"), "Test Store")

	c := cartWith(t, models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 5})
	tendered := dec("10.00")

	_, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCash, &tendered)
	if !errors.Is(err, ErrCashierInactive) {
		t.Fatalf("expected ErrCashierInactive for inactive cashier, got %v", err)
	}

	_, err = svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 42}, models.PaymentCash, &tendered)
	if !errors.Is(err, ErrCashierInactive) {
		t.Fatalf("expected ErrCashierInactive for unknown cashier, got %v", err)
	}

	if c.IsEmpty() {
		t.Error("cart must survive an aborted checkout")
	}
	if len(store.transactions) != 0 {
		t.Error("identity failures must abort before any persistence")
	}
}

func TestCheckout_InsufficientTender(t *testing.T) {
	store := newFakeStore(map[uint]int{1: 5})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cartWith(t, models.Product{ID: 1, Name: "Headphones", Price: dec("99.99"), StockQuantity: 5})

	short := dec("50.00")
	_, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCash, &short)
	if !errors.Is(err, ErrInsufficientTender) {
		t.Fatalf("expected ErrInsufficientTender, got %v", err)
	}

	_, err = svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCash, nil)
	if !errors.Is(err, ErrInsufficientTender) {
		t.Fatalf("expected ErrInsufficientTender for missing tender, got %v", err)
	}

	if c.IsEmpty() {
		t.Error("cart must survive a rejected cash payment")
	}
}

func TestCheckout_InsertFailureRollsBackAndKeepsCart(t *testing.T) {
	store := newFakeStore(map[uint]int{1: 5})
	store.insertErr = errors.New("connection reset")
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cartWith(t, models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 5})

	_, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCard, nil)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if c.IsEmpty() {
		t.Error("cart must be left intact for retry")
	}
	if len(store.transactions) != 0 {
		t.Error("nothing may be persisted after a rollback")
	}
	if store.stock[1] != 5 {
		t.Errorf("stock must be untouched after rollback, got %d", store.stock[1])
	}
}

func TestCheckout_DecrementErrorRollsBackWholeSettlement(t *testing.T) {
	store := newFakeStore(map[uint]int{1: 5})
	store.decrementErr = errors.New("connection reset")
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cartWith(t, models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 5})

	_, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCard, nil)
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if len(store.transactions) != 0 {
		t.Error("header insert must roll back with the failed decrement")
	}
}

func TestCheckout_LostDecrementCompletesSaleWithWarning(t *testing.T) {
	// Another terminal sold the stock first: the conditional decrement
	// reports false, the sale still completes, the drift is surfaced.
	store := newFakeStore(map[uint]int{1: 0})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	// Cart was built against a stale cache that still showed stock.
	c := cartWith(t, models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 5})

	rcpt, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCard, nil)
	if err != nil {
		t.Fatalf("lost decrement must not fail the sale: %v", err)
	}
	if len(rcpt.StockWarnings) != 1 {
		t.Fatalf("expected 1 stock warning, got %d", len(rcpt.StockWarnings))
	}
	if rcpt.StockWarnings[0].ProductID != 1 {
		t.Errorf("warning names the wrong product: %d", rcpt.StockWarnings[0].ProductID)
	}
	if len(store.transactions) != 1 {
		t.Error("sale must still be persisted")
	}
	if store.stock[1] != 0 {
		t.Errorf("stock must never go negative, got %d", store.stock[1])
	}
}

func TestCheckout_PriceSnapshotNotLiveReread(t *testing.T) {
	store := newFakeStore(map[uint]int{1: 5})
	svc := NewService(&fakeDirectory{cashiers: activeCashier(7, "dana")}, store, taxRate("0"), "Test Store")

	c := cart.New()
	c.Add(models.Product{ID: 1, Name: "Coffee", Price: dec("3.50"), StockQuantity: 5}, 1)

	// The catalog price changes after the item was rung up; the sale must
	// settle at the captured price.
	rcpt, err := svc.Checkout(context.Background(), c, models.CashierIdentity{ID: 7}, models.PaymentCard, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.transactions[0].Items[0].PriceAtSale.Equal(dec("3.50")) {
		t.Errorf("expected snapshot price 3.50, got %s", store.transactions[0].Items[0].PriceAtSale)
	}
	if !rcpt.Lines[0].UnitPrice.Equal(dec("3.50")) {
		t.Errorf("receipt must show the captured price, got %s", rcpt.Lines[0].UnitPrice)
	}
}
