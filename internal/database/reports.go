package database

import (
	"context"
	"sort"
	"time"

	"go-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SalesReportResult holds the figures for one date range
type SalesReportResult struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalCount    int64           `json:"total_count"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Net           decimal.Decimal `json:"net"`
}

// TopProduct is one row of the best sellers table
type TopProduct struct {
	ProductName string          `json:"product_name"`
	Sold        int64           `json:"sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// GetSalesReport calculates sales and expenses within [start, end]
func GetSalesReport(ctx context.Context, db *gorm.DB, start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult
	db = db.WithContext(ctx)

	// COALESCE ensures we get 0 instead of NULL if no sales exist
	err := db.Model(&models.Invoice{}).
		Where("issued_at BETWEEN ? AND ?", start.UnixMilli(), end.UnixMilli()).
		Select("COALESCE(SUM(total), 0)").
		Row().Scan(&result.TotalRevenue)
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Invoice{}).
		Where("issued_at BETWEEN ? AND ?", start.UnixMilli(), end.UnixMilli()).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Expense{}).
		Where("spent_at BETWEEN ? AND ?", start.UTC(), end.UTC()).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&result.TotalExpenses)
	if err != nil {
		return nil, err
	}

	result.Net = result.TotalRevenue.Sub(result.TotalExpenses)
	return &result, nil
}

// TopSellingProducts ranks products by units sold. Line revenue is summed in
// Go so it is always quantity × unit price of the stored rows.
func TopSellingProducts(ctx context.Context, db *gorm.DB, limit int) ([]TopProduct, error) {
	var items []models.InvoiceItem
	if err := db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]*TopProduct)
	for _, item := range items {
		name := "Unknown"
		if item.ProductName != nil && *item.ProductName != "" {
			name = *item.ProductName
		}
		row, ok := byName[name]
		if !ok {
			row = &TopProduct{ProductName: name}
			byName[name] = row
		}
		row.Sold += int64(item.Quantity)
		row.Revenue = row.Revenue.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	out := make([]TopProduct, 0, len(byName))
	for _, row := range byName {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sold != out[j].Sold {
			return out[i].Sold > out[j].Sold
		}
		return out[i].ProductName < out[j].ProductName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ValuationItem represents a single row in the valuation table
type ValuationItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// CategoryGroup represents one category table (e.g. "DRINKS")
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// ValuationResponse is the whole stock valuation
type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// GetStockValuation calculates the cost value of all physical inventory,
// grouped by category and sorted by category name.
func GetStockValuation(ctx context.Context, db *gorm.DB) (*ValuationResponse, error) {
	var products []models.Product
	if err := db.WithContext(ctx).Order("name").Find(&products).Error; err != nil {
		return nil, err
	}

	grandTotal := decimal.Zero
	grouped := make(map[string]*CategoryGroup)

	for _, p := range products {
		// If an item has no category, group it as "Uncategorized"
		catName := p.Category
		if catName == "" {
			catName = "Uncategorized"
		}

		group, ok := grouped[catName]
		if !ok {
			group = &CategoryGroup{CategoryName: catName, Items: []ValuationItem{}}
			grouped[catName] = group
		}

		itemTotal := p.CostPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity)))
		group.Items = append(group.Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.StockQuantity,
			CostPrice: p.CostPrice,
			TotalCost: itemTotal,
		})
		group.Subtotal = group.Subtotal.Add(itemTotal)
		grandTotal = grandTotal.Add(itemTotal)
	}

	response := &ValuationResponse{GrandTotal: grandTotal, Categories: []CategoryGroup{}}
	for _, group := range grouped {
		response.Categories = append(response.Categories, *group)
	}
	sort.Slice(response.Categories, func(i, j int) bool {
		return response.Categories[i].CategoryName < response.Categories[j].CategoryName
	})
	return response, nil
}
