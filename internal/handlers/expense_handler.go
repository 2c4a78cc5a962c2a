package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// dateRange reads the optional from/to query dates (YYYY-MM-DD, both days
// included) and returns them as the half-open interval [from, until).
// Without from the range starts in 2000, without to it ends today.
func dateRange(c *gin.Context, loc *time.Location) (from, until time.Time, ok bool) {
	from = time.Date(2000, 1, 1, 0, 0, 0, 0, loc)
	now := time.Now().In(loc)
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if s := c.Query("from"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		from = t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		to = t
	}
	until = to.AddDate(0, 0, 1)
	if !from.Before(until) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must not be after to"})
		return time.Time{}, time.Time{}, false
	}
	return from, until, true
}

type ExpenseRequest struct {
	Description string          `json:"description" binding:"required"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ProviderID  *uint           `json:"provider_id"`
	SpentAt     *time.Time      `json:"spent_at"`
}

// --- GET: /api/expenses?from=&to= ---
func (h *Handler) ListExpenses(c *gin.Context) {
	from, until, ok := dateRange(c, h.Invoices.Location())
	if !ok {
		return
	}

	expenses := []models.Expense{}
	err := h.DB.WithContext(c.Request.Context()).
		Where("spent_at >= ? AND spent_at < ?", from.UTC(), until.UTC()).
		Order("spent_at desc, id desc").
		Find(&expenses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch expenses"})
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// --- POST: /api/expenses ---
func (h *Handler) AddExpense(c *gin.Context) {
	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required"})
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Description is required"})
		return
	}
	if req.Amount.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must not be negative"})
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	if req.ProviderID != nil {
		if err := db.First(&models.Provider{}, *req.ProviderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check provider"})
			return
		}
	}

	spentAt := time.Now()
	if req.SpentAt != nil {
		spentAt = *req.SpentAt
	}

	expense := models.Expense{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		ProviderID:  req.ProviderID,
		SpentAt:     spentAt.UTC(),
	}
	if err := db.Create(&expense).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record expense"})
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// --- DELETE: /api/expenses/:id ---
func (h *Handler) DeleteExpense(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.DB.WithContext(c.Request.Context()).Delete(&models.Expense{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
