package handlers

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos/internal/models"
	"go-pos/internal/testkit"
)

func TestProducts_CRUD(t *testing.T) {
	env := newEnv(t, Options{})
	admin := env.admin()

	w := env.do(http.MethodPost, "/api/products", map[string]any{
		"name":           "Coffee",
		"barcode":        "7790001",
		"category":       "Drinks",
		"price":          "3.50",
		"cost_price":     "1.20",
		"stock_quantity": 20,
	}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Product](t, w)
	require.NotZero(t, created.ID)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("3.5")))

	w = env.do(http.MethodGet, "/api/products", nil, env.cashier())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 1)

	w = env.do(http.MethodGet, "/api/products/scan/7790001", nil, env.cashier())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.Product](t, w).ID)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/products/scan/000", nil, env.cashier()).Code)

	path := fmt.Sprintf("/api/products/%d", created.ID)
	w = env.do(http.MethodPut, path, map[string]any{"price": "4.10", "stock_quantity": 18}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[struct{ Product models.Product }](t, w).Product
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("4.1")), "price %s", updated.Price)
	assert.Equal(t, 18, updated.StockQuantity)
	assert.Equal(t, "Coffee", updated.Name, "fields not sent stay untouched")

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodDelete, path, nil, env.cashier()).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodDelete, path, nil, admin).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, path, nil, admin).Code)
}

func TestAddProduct_Validation(t *testing.T) {
	env := newEnv(t, Options{})

	cases := map[string]map[string]any{
		"no name":        {"price": "1"},
		"negative price": {"name": "X", "price": "-1"},
		"negative stock": {"name": "X", "price": "1", "stock_quantity": -2},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/products", body, env.admin()).Code)
		})
	}
}

func TestAddProduct_EmptyBarcodesDoNotCollide(t *testing.T) {
	env := newEnv(t, Options{})

	for _, name := range []string{"A", "B"} {
		w := env.do(http.MethodPost, "/api/products", map[string]any{"name": name, "price": "1", "barcode": ""}, env.admin())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestUpdateProduct_Errors(t *testing.T) {
	env := newEnv(t, Options{})
	p := testkit.SeedProduct(t, env.db, "Tea", "2", 5)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPut, "/api/products/999", map[string]any{"price": "1"}, env.admin()).Code)
	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPut, fmt.Sprintf("/api/products/%d", p.ID), map[string]any{"price": "-1"}, env.admin()).Code)
}

func uploadRequest(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadImage(t *testing.T) {
	env := newEnv(t, Options{})

	body, contentType := uploadRequest(t, "burger.png", []byte("\x89PNG fake"))
	w := env.do(http.MethodPost, "/api/upload", body, env.admin(), "Content-Type", contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	url := decode[map[string]string](t, w)["url"]
	require.True(t, strings.HasPrefix(url, "http://pos.test/uploads/"), url)
	assert.True(t, strings.HasSuffix(url, "_burger.png"), url)

	saved := filepath.Join(env.handler.UploadDir, strings.TrimPrefix(url, "http://pos.test/uploads/"))
	data, err := os.ReadFile(saved)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG fake", string(data))

	// the stored file is served back
	served := env.do(http.MethodGet, strings.TrimPrefix(url, "http://pos.test"), nil, "")
	assert.Equal(t, http.StatusOK, served.Code)
}

func TestUploadImage_RejectsNonImages(t *testing.T) {
	env := newEnv(t, Options{})

	body, contentType := uploadRequest(t, "script.sh", []byte("#!/bin/sh"))
	w := env.do(http.MethodPost, "/api/upload", body, env.admin(), "Content-Type", contentType)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/api/upload", nil, env.admin())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
