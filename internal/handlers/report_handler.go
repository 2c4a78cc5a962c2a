package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"time"

	"go-pos/internal/database"
	"go-pos/internal/invoices"
	"go-pos/internal/render"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportData defines the shape of our analytics response
type ReportData struct {
	database.SalesReportResult
	TopSelling  []database.TopProduct `json:"top_selling"`
	RecentSales []invoices.Summary    `json:"recent_sales"`
}

// --- GET: /api/reports?from=&to= ---
func (h *Handler) GetSalesReport(c *gin.Context) {
	loc := h.Invoices.Location()
	from, until, ok := dateRange(c, loc)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	report, err := database.GetSalesReport(ctx, h.DB, from, until.Add(-time.Millisecond))
	if err != nil {
		log.Printf("reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}

	top, err := database.TopSellingProducts(ctx, h.DB, 5)
	if err != nil {
		log.Printf("reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	recent, err := h.Store.RecentInvoices(ctx, 10)
	if err != nil {
		log.Printf("reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, ReportData{
		SalesReportResult: *report,
		TopSelling:        top,
		RecentSales:       invoices.SummarizeAll(recent, loc),
	})
}

// --- GET: /api/reports/valuation ---
// GetStockValuation calculates the total monetary value of all physical inventory
func (h *Handler) GetStockValuation(c *gin.Context) {
	valuation, err := database.GetStockValuation(c.Request.Context(), h.DB)
	if err != nil {
		log.Printf("reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}
	c.JSON(http.StatusOK, valuation)
}

// --- GET: /api/reports/invoices.xlsx?from=&to= ---
func (h *Handler) ExportInvoices(c *gin.Context) {
	loc := h.Invoices.Location()
	from, until, ok := dateRange(c, loc)
	if !ok {
		return
	}

	records, err := h.Store.ListInvoicesBetween(c.Request.Context(), from, until)
	if err != nil {
		log.Printf("reports: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invoices"})
		return
	}

	var buf bytes.Buffer
	if err := render.InvoicesXLSX(&buf, invoices.SummarizeAll(records, loc)); err != nil {
		log.Printf("reports: render xlsx: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build spreadsheet"})
		return
	}

	filename := fmt.Sprintf("invoices_%s_%s.xlsx", from.Format(dateLayout), until.AddDate(0, 0, -1).Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
