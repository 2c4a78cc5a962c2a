package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"net/http"

	"go-pos/internal/render"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/invoices ---
func (h *Handler) ListInvoices(c *gin.Context) {
	summaries, err := h.Invoices.List(c.Request.Context())
	if err != nil {
		log.Printf("invoices: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

// --- GET: /api/invoices/:id ---
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, found, err := h.Invoices.Get(c.Request.Context(), id)
	if err != nil {
		log.Printf("invoices: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// --- GET: /api/invoices/stream ---
// Server-sent events: an "invoices" event with the full listing on connect
// and after every change, until the client goes away.
func (h *Handler) StreamInvoices(c *gin.Context) {
	updates, err := h.Invoices.Watch(c.Request.Context())
	if err != nil {
		log.Printf("invoices: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live updates unavailable"})
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		update, ok := <-updates
		if !ok {
			return false
		}
		if update.Err != nil {
			log.Printf("invoices stream: %v", update.Err)
			c.SSEvent("error", gin.H{"error": "Failed to load invoices"})
			return true
		}
		c.SSEvent("invoices", update.Invoices)
		return true
	})
}

// --- GET: /api/invoices/:id/pdf ---
func (h *Handler) GetInvoicePDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	detail, found, err := h.Invoices.Get(c.Request.Context(), id)
	if err != nil {
		log.Printf("invoices: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoice"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	var buf bytes.Buffer
	if err := render.InvoicePDF(&buf, h.ShopName, detail); err != nil {
		log.Printf("invoices: render pdf %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render invoice"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, detail.Number))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
