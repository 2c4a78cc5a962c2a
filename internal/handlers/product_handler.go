package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go-pos/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// --- GET: List all products ---
func (h *Handler) GetProducts(c *gin.Context) {
	var products []models.Product
	if err := h.DB.WithContext(c.Request.Context()).Order("name asc").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: Look a product up by barcode ---
func (h *Handler) ScanProduct(c *gin.Context) {
	var product models.Product
	err := h.DB.WithContext(c.Request.Context()).Where("barcode = ?", c.Param("barcode")).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var newProduct models.Product
	if err := c.ShouldBindJSON(&newProduct); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	newProduct.ID = 0
	if newProduct.Barcode != nil && *newProduct.Barcode == "" {
		newProduct.Barcode = nil
	}
	if msg := validateProduct(newProduct); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.DB.WithContext(c.Request.Context()).Create(&newProduct).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, newProduct)
}

// productUpdate lists the fields a PUT may change; nil fields stay as they are.
type productUpdate struct {
	Name          *string          `json:"name"`
	Barcode       *string          `json:"barcode"`
	Category      *string          `json:"category"`
	Price         *decimal.Decimal `json:"price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	StockQuantity *int             `json:"stock_quantity"`
	ImageURL      *string          `json:"image_url"`
}

func (u productUpdate) columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Barcode != nil {
		if *u.Barcode == "" {
			cols["barcode"] = nil
		} else {
			cols["barcode"] = *u.Barcode
		}
	}
	if u.Category != nil {
		cols["category"] = *u.Category
	}
	if u.Price != nil {
		cols["price"] = *u.Price
	}
	if u.CostPrice != nil {
		cols["cost_price"] = *u.CostPrice
	}
	if u.StockQuantity != nil {
		cols["stock_quantity"] = *u.StockQuantity
	}
	if u.ImageURL != nil {
		cols["image_url"] = *u.ImageURL
	}
	return cols
}

// --- PUT: Partial update of a product ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	db := h.DB.WithContext(c.Request.Context())

	var product models.Product
	if err := db.First(&product, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var update productUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if (update.Price != nil && update.Price.IsNegative()) ||
		(update.CostPrice != nil && update.CostPrice.IsNegative()) ||
		(update.StockQuantity != nil && *update.StockQuantity < 0) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prices and stock must not be negative"})
		return
	}

	cols := update.columns()
	if len(cols) > 0 {
		if err := db.Model(&product).Updates(cols).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
	}
	if err := db.First(&product, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reload product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": product})
}

// --- DELETE: Remove a product ---
// Invoice items keep their name snapshot, so past invoices survive the delete.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	res := h.DB.WithContext(c.Request.Context()).Delete(&models.Product{}, id)
	if res.Error != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not delete product"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// --- UPLOAD: Handle Image Files ---
func (h *Handler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed"})
		return
	}

	// e.g. "167890123_burger.jpg"
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.UploadDir, filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File uploaded successfully",
		"url":     strings.TrimRight(h.BaseURL, "/") + "/uploads/" + filename,
	})
}

func validateProduct(p models.Product) string {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return "Name is required"
	case p.Price.IsNegative(), p.CostPrice.IsNegative():
		return "Prices must not be negative"
	case p.StockQuantity < 0:
		return "Stock must not be negative"
	}
	return ""
}
