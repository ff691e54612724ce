package handlers

import (
	"net/http"

	"go-pos-terminal/internal/config"

	"github.com/gin-gonic/gin"
)

// GetStoreStatus feeds the terminal the store identity and the tax rate it
// should display. The rate shown here is advisory; settlement re-reads the
// configured rate server-side.
func GetStoreStatus(c *gin.Context) {
	store := config.AppConfig.Store
	c.JSON(http.StatusOK, gin.H{
		"store_name":       store.Name,
		"store_address":    store.Address,
		"currency":         store.Currency,
		"tax_rate_percent": store.TaxRatePercent,
	})
}
