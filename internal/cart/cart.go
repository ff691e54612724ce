package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"go-pos-terminal/internal/models"
)

var (
	// ErrOutOfStock means the cached stock for the product is already zero.
	ErrOutOfStock = errors.New("product is out of stock")
	// ErrInsufficientStock means the requested quantity exceeds the cached stock.
	ErrInsufficientStock = errors.New("insufficient stock for requested quantity")
)

// Line is one product rung up on the terminal. UnitPrice and cached stock are
// snapshots taken when the product was added; the authoritative stock check
// happens again at settlement.
type Line struct {
	ProductID   uint            `json:"product_id"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	CachedStock int             `json:"-"`
}

// LineTotal is UnitPrice * Quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the in-progress sale for exactly one terminal session.
// Lines keep insertion order and there is at most one line per product.
// Not safe for concurrent use; a session is single-threaded.
type Cart struct {
	lines []*Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID uint) *Line {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l
		}
	}
	return nil
}

// Add puts qty units of the product in the cart, merging into an existing
// line if the product is already rung up. qty below 1 counts as 1.
// The stock checks here are advisory, against the cached snapshot.
func (c *Cart) Add(p models.Product, qty int) error {
	if qty < 1 {
		qty = 1
	}
	if p.StockQuantity <= 0 {
		return ErrOutOfStock
	}

	line := c.find(p.ID)
	existing := 0
	if line != nil {
		existing = line.Quantity
	}
	if existing+qty > p.StockQuantity {
		return ErrInsufficientStock
	}

	if line != nil {
		line.Quantity += qty
		line.CachedStock = p.StockQuantity
		return nil
	}

	c.lines = append(c.lines, &Line{
		ProductID:   p.ID,
		Name:        p.Name,
		UnitPrice:   p.Price,
		Quantity:    qty,
		CachedStock: p.StockQuantity,
	})
	return nil
}

// SetQuantity overwrites the line's quantity. Anything below 1 removes the
// line entirely. Unknown product ids are a silent no-op, same as Remove.
func (c *Cart) SetQuantity(productID uint, qty int) error {
	if qty < 1 {
		c.Remove(productID)
		return nil
	}

	line := c.find(productID)
	if line == nil {
		return nil
	}
	if qty > line.CachedStock {
		return ErrInsufficientStock
	}
	line.Quantity = qty
	return nil
}

// Remove drops the product's line. Removing something that was never added
// is not an error.
func (c *Cart) Remove(productID uint) {
	for i, l := range c.lines {
		if l.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// RefreshStock updates the cached stock snapshot for a product, if present.
// The realtime catalog feed calls this so advisory checks stay close to
// reality between checkouts.
func (c *Cart) RefreshStock(productID uint, stock int) {
	if line := c.find(productID); line != nil {
		line.CachedStock = stock
	}
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, l := range c.lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// TaxAmount is subtotal * ratePercent/100, rounded to cents.
func (c *Cart) TaxAmount(ratePercent decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Mul(ratePercent).Div(decimal.NewFromInt(100)).Round(2)
}

// Total is subtotal plus tax.
func (c *Cart) Total(ratePercent decimal.Decimal) decimal.Decimal {
	return c.Subtotal().Add(c.TaxAmount(ratePercent))
}
