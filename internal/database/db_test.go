package database_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos/internal/models"
	"go-pos/internal/testkit"
)

// SQLite keeps decimal(18,4) columns as REAL, so only 15 significant digits
// survive there. MySQL stores the full DECIMAL.
func TestMoneyColumns_KeepFifteenDigitsOnSQLite(t *testing.T) {
	db := testkit.NewDB(t)

	for _, price := range []string{"0.0001", "19.99", "12345678901.2345", "99999999999.9999"} {
		want := decimal.RequireFromString(price)
		p := models.Product{Name: "Item " + price, Price: want, CostPrice: want}
		require.NoError(t, db.Create(&p).Error)

		var got models.Product
		require.NoError(t, db.First(&got, p.ID).Error)
		assert.True(t, got.Price.Equal(want), "price %s read back as %s", price, got.Price)
		assert.True(t, got.CostPrice.Equal(want), "cost %s read back as %s", price, got.CostPrice)
	}
}
