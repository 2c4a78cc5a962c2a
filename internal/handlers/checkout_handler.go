package handlers

import (
	"errors"
	"log"
	"net/http"

	"go-pos/internal/cache"
	"go-pos/internal/database"
	"go-pos/internal/invoices"
	"go-pos/internal/sales"

	"github.com/gin-gonic/gin"
)

const idempotencyHeader = "Idempotency-Key"

// SaleRequest is what the till sends for both quote and checkout.
type SaleRequest struct {
	Items         []database.CartLine `json:"items"`
	Discount      sales.Adjustment    `json:"discount"`
	Surcharge     sales.Adjustment    `json:"surcharge"`
	Tax           sales.Adjustment    `json:"tax"`
	PaymentMethod sales.PaymentMethod `json:"payment_method"`
	CustomerID    *uint               `json:"customer_id"`
	Notes         string              `json:"notes"`
	// RoundTo rounds the computed amounts to that many decimal places.
	RoundTo *int32 `json:"round_to"`
}

func (r SaleRequest) params() sales.Params {
	p := sales.Params{
		Discount:      r.Discount,
		Surcharge:     r.Surcharge,
		Tax:           r.Tax,
		PaymentMethod: r.PaymentMethod,
		CustomerID:    r.CustomerID,
	}
	if r.RoundTo != nil {
		p.Round = sales.RoundTo(*r.RoundTo)
	}
	return p
}

// --- POST: /api/checkout/quote ---
func (h *Handler) QuoteSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	draft, err := h.Store.Quote(c.Request.Context(), req.Items, req.params())
	if err != nil {
		writeSaleError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// --- POST: /api/checkout ---
func (h *Handler) ProcessSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	for _, line := range req.Items {
		if line.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Every line needs at least one unit"})
			return
		}
	}

	ctx := c.Request.Context()
	key := c.GetHeader(idempotencyHeader)
	if key != "" && h.Idempotency != nil {
		if err := h.Idempotency.Claim(ctx, key); err != nil {
			writeSaleError(c, err)
			return
		}
	}

	invoice, err := h.Store.Checkout(ctx, database.CheckoutRequest{
		UserID: c.GetUint("userID"),
		Lines:  req.Items,
		Params: req.params(),
		Notes:  req.Notes,
	})
	if err != nil {
		if key != "" && h.Idempotency != nil {
			if relErr := h.Idempotency.Release(ctx, key); relErr != nil {
				log.Printf("checkout: release idempotency key: %v", relErr)
			}
		}
		writeSaleError(c, err)
		return
	}

	if err := h.Invoices.Publish(ctx); err != nil {
		log.Printf("checkout: publish invoice %d: %v", invoice.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale successful!",
		"invoice": invoices.Summarize(*invoice, h.Invoices.Location()),
	})
}

func writeSaleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sales.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrProductNotFound), errors.Is(err, database.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrInsufficientStock):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, cache.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "This sale was already submitted"})
	default:
		log.Printf("checkout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process sale"})
	}
}
