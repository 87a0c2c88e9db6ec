package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiceroute/storefront/internal/models"
)

var orderCustomer = map[string]any{
	"name":    "Ravi Patel",
	"email":   "ravi@example.com",
	"phone":   "555-0100",
	"address": "7 Tandoor St",
	"city":    "Springfield",
	"zip":     "62704",
}

func decodeOrder(t *testing.T, rec *httptest.ResponseRecorder) OrderResponse {
	t.Helper()
	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateOrderFromCartClearsIt(t *testing.T) {
	env := newTestEnv(t)

	requireAddToCart(t, env, 1, map[string]any{"item_id": 1, "quantity": 2}) // 2 x 599
	requireAddToCart(t, env, 1, map[string]any{"item_id": 9, "quantity": 1}) // 1 x 349

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":       orderCustomer,
		"order_type":     "delivery",
		"payment_method": "cash",
	})
	env.asUser(c, 1)
	require.NoError(t, env.Ord.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeOrder(t, rec)
	assert.NotEmpty(t, resp.Number)
	assert.Equal(t, "received", resp.Status)
	assert.Equal(t, int64(1547), resp.SubtotalCents)
	assert.Equal(t, int64(399), resp.DeliveryFeeCents)
	assert.Equal(t, int64(124), resp.TaxCents) // round(1547*0.08) half-up
	assert.Equal(t, int64(2070), resp.TotalCents)
	assert.Equal(t, "45 minutes", resp.EstimatedDelivery)
	require.Len(t, resp.Items, 2)

	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Zero(t, count, "cart cleared in the same transaction")
}

func TestCreateOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":       orderCustomer,
		"order_type":     "pickup",
		"payment_method": "cash",
	})
	env.asUser(c, 1)
	requireHTTPError(t, env.Ord.CreateOrder(c), http.StatusBadRequest)

	var count int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateOrderValidation(t *testing.T) {
	env := newTestEnv(t)
	requireAddToCart(t, env, 1, map[string]any{"item_id": 1, "quantity": 1})

	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"bad order type", func(b map[string]any) { b["order_type"] = "teleport" }},
		{"bad payment", func(b map[string]any) { b["payment_method"] = "barter" }},
		{"missing contact", func(b map[string]any) {
			b["customer"] = map[string]any{"name": "Ravi Patel"}
		}},
		{"delivery without address", func(b map[string]any) {
			b["customer"] = map[string]any{"name": "Ravi Patel", "email": "r@example.com", "phone": "555-0100"}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{
				"customer":       orderCustomer,
				"order_type":     "delivery",
				"payment_method": "cash",
			}
			tt.mutate(body)
			_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", body)
			env.asUser(c, 1)
			requireHTTPError(t, env.Ord.CreateOrder(c), http.StatusBadRequest)
		})
	}

	// The failed attempts must not have touched the cart.
	var count int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPickupOrderHasNoDeliveryFee(t *testing.T) {
	env := newTestEnv(t)
	requireAddToCart(t, env, 1, map[string]any{"item_id": 1, "quantity": 1})

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":       map[string]any{"name": "Ravi Patel", "email": "r@example.com", "phone": "555-0100"},
		"order_type":     "pickup",
		"payment_method": "cash",
	})
	env.asUser(c, 1)
	require.NoError(t, env.Ord.CreateOrder(c))

	resp := decodeOrder(t, rec)
	assert.Zero(t, resp.DeliveryFeeCents)
	assert.Equal(t, "20 minutes", resp.EstimatedDelivery)
}

func TestGuestOrderRecomputesPrices(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders/guest", map[string]any{
		"customer":       orderCustomer,
		"order_type":     "delivery",
		"payment_method": "card",
		"items": []map[string]any{
			// Client-sent prices are ignored; the catalog is authoritative.
			{"item_id": 2, "quantity": 2, "extras": []string{"Guacamole"}, "unit_price_cents": 1},
			{"item_id": 9, "quantity": 1},
		},
	})
	require.NoError(t, env.Ord.CreateGuestOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeOrder(t, rec)
	// 2 x (899 + 150) + 349
	assert.Equal(t, int64(2447), resp.SubtotalCents)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, int64(899), resp.Items[0].UnitPriceCents)
	assert.Equal(t, int64(150), resp.Items[0].ExtrasPriceCents)
}

func TestGuestOrderRejectsEmptyItems(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders/guest", map[string]any{
		"customer":       orderCustomer,
		"order_type":     "delivery",
		"payment_method": "cash",
		"items":          []map[string]any{},
	})
	requireHTTPError(t, env.Ord.CreateGuestOrder(c), http.StatusBadRequest)
}

func TestGuestOrderRejectsUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders/guest", map[string]any{
		"customer":       orderCustomer,
		"order_type":     "pickup",
		"payment_method": "cash",
		"items":          []map[string]any{{"item_id": 9999, "quantity": 1}},
	})
	requireHTTPError(t, env.Ord.CreateGuestOrder(c), http.StatusBadRequest)
}

func TestListAndGetOrders(t *testing.T) {
	env := newTestEnv(t)
	requireAddToCart(t, env, 1, map[string]any{"item_id": 1, "quantity": 1})

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":       orderCustomer,
		"order_type":     "delivery",
		"payment_method": "cash",
	})
	env.asUser(c, 1)
	require.NoError(t, env.Ord.CreateOrder(c))
	created := decodeOrder(t, rec)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Ord.ListOrders(c))
	var list struct {
		Results []models.Order `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Results, 1)

	// Another user sees nothing.
	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/orders", nil)
	env.asUser(c, 2)
	require.NoError(t, env.Ord.ListOrders(c))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list.Results)

	rec, c = env.doJSONRequest(http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	env.asUser(c, 1)
	require.NoError(t, env.Ord.GetOrder(c))
	got := decodeOrder(t, rec)
	assert.Equal(t, created.Number, got.Number)
	require.Len(t, got.Items, 1)

	_, c = env.doJSONRequest(http.MethodGet, "/", nil)
	c.SetParamNames("id")
	c.SetParamValues("1")
	env.asUser(c, 2)
	requireHTTPError(t, env.Ord.GetOrder(c), http.StatusNotFound)
}

func TestAdminUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	requireAddToCart(t, env, 1, map[string]any{"item_id": 1, "quantity": 1})

	_, c := env.doJSONRequest(http.MethodPost, "/api/v1/orders", map[string]any{
		"customer":       orderCustomer,
		"order_type":     "delivery",
		"payment_method": "cash",
	})
	env.asUser(c, 1)
	require.NoError(t, env.Ord.CreateOrder(c))

	rec, c := env.doJSONRequest(http.MethodPatch, "/", map[string]any{"status": "preparing"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, env.Ord.AdminUpdateStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, env.DB.First(&order, 1).Error)
	assert.Equal(t, "preparing", order.Status)

	_, c = env.doJSONRequest(http.MethodPatch, "/", map[string]any{"status": "vaporized"})
	c.SetParamNames("id")
	c.SetParamValues("1")
	requireHTTPError(t, env.Ord.AdminUpdateStatus(c), http.StatusBadRequest)

	_, c = env.doJSONRequest(http.MethodPatch, "/", map[string]any{"status": "ready"})
	c.SetParamNames("id")
	c.SetParamValues("999")
	requireHTTPError(t, env.Ord.AdminUpdateStatus(c), http.StatusNotFound)
}
