package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"go-pos-terminal/internal/cart"
	"go-pos-terminal/internal/checkout"
	"go-pos-terminal/internal/database"
	"go-pos-terminal/internal/metrics"
	"go-pos-terminal/internal/middleware"
	"go-pos-terminal/internal/models"
	"go-pos-terminal/internal/realtime"
)

// CheckoutRequest is what the terminal sends at settlement: the rung-up
// lines, the payment method, and for cash the amount tendered.
type CheckoutRequest struct {
	Items []struct {
		ProductID uint `json:"product_id" binding:"required"`
		Quantity  int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required"`
	PaymentMethod  string           `json:"payment_method" binding:"required"`
	AmountTendered *decimal.Decimal `json:"amount_tendered"`
}

// ProcessCheckout rebuilds the cart from the request against live catalog
// rows, settles it through the checkout service, and answers with the
// receipt. The cashier identity comes from the session token, passed into
// the workflow explicitly.
func ProcessCheckout(svc *checkout.Service, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}

		identity := middleware.CurrentIdentity(c)

		basket := cart.New()
		for _, item := range req.Items {
			var product models.Product
			if err := database.DB.First(&product, item.ProductID).Error; err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			if err := basket.Add(product, item.Quantity); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "product": product.Name})
				return
			}
		}

		rcpt, err := svc.Checkout(c.Request.Context(), basket, identity, req.PaymentMethod, req.AmountTendered)
		if err != nil {
			m.Checkouts.WithLabelValues(req.PaymentMethod, "failed").Inc()
			switch {
			case errors.Is(err, checkout.ErrCashierInactive):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Cashier account is no longer active"})
			case errors.Is(err, checkout.ErrEmptyCart),
				errors.Is(err, checkout.ErrInvalidPayment),
				errors.Is(err, checkout.ErrInsufficientTender):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				// Cart state is untouched on the terminal; the cashier just retries.
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed, please retry"})
			}
			return
		}

		m.Checkouts.WithLabelValues(req.PaymentMethod, "completed").Inc()
		m.StockWarnings.Add(float64(len(rcpt.StockWarnings)))

		// Reconcile terminal caches: push the post-sale stock for every
		// product this sale touched.
		for _, item := range req.Items {
			var product models.Product
			if err := database.DB.First(&product, item.ProductID).Error; err == nil {
				broadcastProduct(realtime.EventUpdate, product)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Sale completed",
			"receipt": rcpt,
			"printed": rcpt.Render(),
		})
	}
}
