package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos/internal/database"
	"go-pos/internal/invoices"
	"go-pos/internal/models"
	"go-pos/internal/testkit"
)

func (e *testEnv) sell(product models.Product, quantity int) *models.Invoice {
	e.t.Helper()
	inv, err := e.handler.Store.Checkout(context.Background(), database.CheckoutRequest{
		UserID: 1,
		Lines:  []database.CartLine{{ProductID: product.ID, Quantity: quantity}},
	})
	require.NoError(e.t, err)
	return inv
}

func TestListAndGetInvoice(t *testing.T) {
	env := newEnv(t, Options{})
	bread := testkit.SeedProduct(t, env.db, "Bread", "12.50", 10)
	first := env.sell(bread, 1)
	second := env.sell(bread, 3)

	w := env.do(http.MethodGet, "/api/invoices", nil, env.cashier())
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]invoices.Summary](t, w)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")
	assert.Equal(t, first.ID, list[1].ID)

	w = env.do(http.MethodGet, fmt.Sprintf("/api/invoices/%d", second.ID), nil, env.cashier())
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[invoices.Detail](t, w)
	assert.Equal(t, invoices.FormatNumber(second.ID), detail.Number)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Bread", detail.Items[0].Name)
	assert.True(t, detail.Items[0].LineTotal.Equal(decimal.RequireFromString("37.50")), "line total %s", detail.Items[0].LineTotal)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/invoices/999", nil, env.cashier()).Code)
}

func TestGetInvoicePDF(t *testing.T) {
	env := newEnv(t, Options{})
	inv := env.sell(testkit.SeedProduct(t, env.db, "Café", "2", 5), 2)

	w := env.do(http.MethodGet, fmt.Sprintf("/api/invoices/%d/pdf", inv.ID), nil, env.cashier())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), invoices.FormatNumber(inv.ID))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/invoices/999/pdf", nil, env.cashier()).Code)
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\r\n")
		switch {
		case line == "":
			if ev.name != "" || ev.data != "" {
				return ev
			}
		case strings.HasPrefix(line, "event:"):
			ev.name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			ev.data += strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		}
	}
}

func TestStreamInvoices(t *testing.T) {
	env := newEnv(t, Options{})
	bread := testkit.SeedProduct(t, env.db, "Bread", "12.50", 10)
	env.sell(bread, 1)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/invoices/stream", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+env.cashier())

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	reader := bufio.NewReader(resp.Body)
	snapshot := func() []invoices.Summary {
		ev := readEvent(t, reader)
		require.Equal(t, "invoices", ev.name)
		var list []invoices.Summary
		require.NoError(t, json.Unmarshal([]byte(ev.data), &list))
		return list
	}

	assert.Len(t, snapshot(), 1)

	w := env.do(http.MethodPost, "/api/checkout", map[string]any{
		"items": []map[string]any{{"product_id": bread.ID, "quantity": 2}},
	}, env.cashier())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	assert.Len(t, snapshot(), 2)

	cancel()
	assert.Eventually(t, func() bool { return env.bus.Subscribers() == 0 }, 2*time.Second, 10*time.Millisecond)
}
