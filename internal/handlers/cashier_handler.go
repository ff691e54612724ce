package handlers

import (
	"net/http"
	"strconv"

	"go-pos-terminal/internal/auth"
	"go-pos-terminal/internal/database"
	"go-pos-terminal/internal/models"

	"github.com/gin-gonic/gin"
)

type CreateCashierRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// --- POST: Create a cashier (password hashed server-side, always) ---
func CreateCashier(c *gin.Context) {
	var input CreateCashierRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	role := input.Role
	if role == "" {
		role = "cashier"
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	cashier := models.Cashier{
		Username:     input.Username,
		PasswordHash: hashed,
		Email:        input.Email,
		Role:         role,
		Active:       true,
	}

	if err := database.DB.Create(&cashier).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already taken"})
		return
	}

	c.JSON(http.StatusCreated, cashier)
}

// --- GET: List active cashiers (soft-deleted rows excluded by gorm) ---
func ListCashiers(c *gin.Context) {
	var cashiers []models.Cashier
	if err := database.DB.Where("active = ?", true).Find(&cashiers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cashiers"})
		return
	}
	c.JSON(http.StatusOK, cashiers)
}

func cashierID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Cashier ID"})
		return 0, false
	}
	return uint(id), true
}

// --- DELETE: Soft-delete (flag flip + deleted_at timestamp) ---
// The row survives so historical transactions keep their cashier reference,
// but login is impossible from this moment on.
func SoftDeleteCashier(c *gin.Context) {
	id, ok := cashierID(c)
	if !ok {
		return
	}

	var cashier models.Cashier
	if err := database.DB.First(&cashier, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cashier not found"})
		return
	}

	if err := database.DB.Model(&cashier).Update("active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate cashier"})
		return
	}
	if err := database.DB.Delete(&cashier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cashier"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cashier deactivated"})
}

// --- POST: Restore a soft-deleted cashier ---
func RestoreCashier(c *gin.Context) {
	id, ok := cashierID(c)
	if !ok {
		return
	}

	result := database.DB.Unscoped().
		Model(&models.Cashier{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"deleted_at": nil, "active": true})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore cashier"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cashier not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cashier restored"})
}

// --- DELETE: Hard delete, permanent ---
func HardDeleteCashier(c *gin.Context) {
	id, ok := cashierID(c)
	if !ok {
		return
	}

	result := database.DB.Unscoped().Delete(&models.Cashier{}, id)
	if result.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete cashier. They may be linked to past sales."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cashier not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cashier permanently deleted"})
}
