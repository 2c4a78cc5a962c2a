package handlers

import (
	"context"
	"net/http"
	"strconv"

	"go-pos/internal/ai"
	"go-pos/internal/auth"
	"go-pos/internal/database"
	"go-pos/internal/invoices"
	"go-pos/internal/middleware"
	"go-pos/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Idempotency guards checkout against double submission.
type Idempotency interface {
	Claim(ctx context.Context, key string) error
	Release(ctx context.Context, key string) error
}

// Handler carries what the HTTP handlers need.
type Handler struct {
	DB       *gorm.DB
	Store    *database.InvoiceStore
	Invoices *invoices.Service
	Issuer   *auth.Issuer

	Idempotency Idempotency // nil disables Idempotency-Key checks
	Agent       *ai.Agent   // nil disables /api/ask

	ShopName    string
	BaseURL     string
	UploadDir   string
	LicenseSalt string
	DeviceID    func() string // defaults to license.DeviceID
}

// Options toggles routes that depend on deployment.
type Options struct {
	AllowRegistration bool
	LicenseRequired   bool
}

// Routes mounts every API route on r.
func (h *Handler) Routes(r *gin.Engine, opts Options) {
	r.Use(middleware.RequestID())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "online"}) })
	r.POST("/login", h.Login)
	r.Static("/uploads", h.UploadDir)

	// Activation must stay reachable while the license gate is closed
	r.GET("/api/system/status", h.GetSystemStatus)
	r.POST("/api/system/activate", h.ActivateLicense)

	if opts.AllowRegistration {
		r.POST("/register", h.Register)
	}

	api := r.Group("/api")
	api.Use(middleware.CheckLicense(h.DB, opts.LicenseRequired))
	api.Use(middleware.AuthMiddleware(h.Issuer))
	{
		// STAFF & ADMIN
		api.GET("/products", h.GetProducts)
		api.GET("/products/scan/:barcode", h.ScanProduct)
		api.POST("/checkout/quote", h.QuoteSale)
		api.POST("/checkout", h.ProcessSale)

		api.GET("/invoices", h.ListInvoices)
		api.GET("/invoices/stream", h.StreamInvoices)
		api.GET("/invoices/:id", h.GetInvoice)
		api.GET("/invoices/:id/pdf", h.GetInvoicePDF)

		api.GET("/customers", listRecords[models.Customer](h))
		api.POST("/customers", createRecord[models.Customer](h))

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", h.AskAI)

			admin.POST("/upload", h.UploadImage)
			admin.POST("/products", h.AddProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)

			admin.PUT("/customers/:id", updateRecord[models.Customer](h))
			admin.DELETE("/customers/:id", deleteRecord[models.Customer](h))

			admin.GET("/providers", listRecords[models.Provider](h))
			admin.POST("/providers", createRecord[models.Provider](h))
			admin.PUT("/providers/:id", updateRecord[models.Provider](h))
			admin.DELETE("/providers/:id", deleteRecord[models.Provider](h))

			admin.GET("/expenses", h.ListExpenses)
			admin.POST("/expenses", h.AddExpense)
			admin.DELETE("/expenses/:id", h.DeleteExpense)

			admin.GET("/reports", h.GetSalesReport)
			admin.GET("/reports/valuation", h.GetStockValuation)
			admin.GET("/reports/invoices.xlsx", h.ExportInvoices)
		}
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
