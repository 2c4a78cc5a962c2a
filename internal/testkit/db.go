// Package testkit holds helpers shared by package tests.
package testkit

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-pos/internal/database"
	"go-pos/internal/models"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory SQLite database with the full schema. It
// is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	// one connection: SQLite has no row locks to share between them
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

// SeedProduct inserts a product priced at price with stock units on hand.
func SeedProduct(t testing.TB, db *gorm.DB, name, price string, stock int) models.Product {
	t.Helper()

	p := models.Product{
		Name:          name,
		Category:      "General",
		Price:         decimal.RequireFromString(price),
		CostPrice:     decimal.RequireFromString(price).Div(decimal.NewFromInt(2)),
		StockQuantity: stock,
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}
