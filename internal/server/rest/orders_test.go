package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, e *testEnv, id, price string) {
	t.Helper()
	_, err := e.repos.Products().Create(context.Background(), &models.Product{
		ID: id, Name: "Product " + id, Price: decimal.RequireFromString(price), Category: "misc", IsActive: true,
	})
	require.NoError(t, err)
}

func orderBody(total float64) map[string]any {
	return map[string]any{
		"items": []map[string]any{{"productId": "p1", "quantity": 2, "price": 1}},
		"total": total,
		"shippingAddress": map[string]string{
			"fullName": "Alice", "phone": "555", "address": "1 Main St",
			"city": "Springfield", "state": "IL", "postalCode": "62701",
		},
	}
}

func TestPlaceOrder(t *testing.T) {
	e := newTestEnv(t, testConfig())
	seedProduct(t, e, "p1", "100")
	alice := e.token(t, "alice@example.com", false)
	bob := e.token(t, "bob@example.com", false)
	admin := e.token(t, "admin@example.com", true)
	cart := map[string]string{cartIDHeader: "alice-cart", "Authorization": "Bearer " + alice}

	w := e.do(t, http.MethodPost, "/cart", map[string]any{"productId": "p1", "quantity": 2}, cart)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, "/orders", orderBody(1), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodPost, "/orders", orderBody(1), cart)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var placed struct {
		Message string       `json:"message"`
		Order   models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &placed))
	assert.Equal(t, "Order placed successfully", placed.Message)
	assert.True(t, placed.Order.Total.Equal(decimal.NewFromInt(200)), placed.Order.Total.String())
	assert.Equal(t, "cod", placed.Order.PaymentMethod)
	assert.Equal(t, "alice@example.com", placed.Order.OwnerEmail)

	w = e.do(t, http.MethodGet, "/cart", nil, cart)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = e.do(t, http.MethodGet, "/orders", nil, bearer(alice))
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, placed.Order.ID, mine[0].ID)

	w = e.do(t, http.MethodGet, "/orders", nil, bearer(bob))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = e.do(t, http.MethodGet, "/orders/all", nil, bearer(bob))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "access denied", decode(t, w)["message"])

	w = e.do(t, http.MethodGet, "/orders/all", nil, bearer(admin))
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestPlaceOrder_ValidationKeepsCart(t *testing.T) {
	e := newTestEnv(t, testConfig())
	seedProduct(t, e, "p1", "100")
	headers := bearer(e.token(t, "alice@example.com", false))

	w := e.do(t, http.MethodPost, "/cart", map[string]any{"productId": "p1", "quantity": 1}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := orderBody(200)
	body["shippingAddress"] = map[string]string{"fullName": "Alice"}
	w = e.do(t, http.MethodPost, "/orders", body, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "complete shipping address is required", decode(t, w)["message"])

	w = e.do(t, http.MethodPost, "/orders", map[string]any{"items": []any{}}, headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "order must contain at least one item", decode(t, w)["message"])

	w = e.do(t, http.MethodGet, "/cart", nil, nil)
	assert.JSONEq(t, `[{"productId":"p1","quantity":1}]`, w.Body.String())
}
