package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-sync/core/reconcile"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(&Config{
		BaseURL:        srv.URL,
		AccessToken:    "shpat_test",
		APIVersion:     "2023-07",
		PageSize:       250,
		TimeoutSeconds: 5,
	}, nil)
	require.NoError(t, err)
	return client
}

func TestConfig(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		assert.Error(t, Config{AccessToken: "x", APIVersion: "2023-07"}.Validate())
		assert.Error(t, Config{Shop: "s", APIVersion: "2023-07"}.Validate())
		assert.Error(t, Config{Shop: "s", AccessToken: "x", APIVersion: "2023-07", PageSize: 500}.Validate())
		assert.NoError(t, Config{Shop: "s", AccessToken: "x", APIVersion: "2023-07", PageSize: 250}.Validate())
	})

	t.Run("AdminURL", func(t *testing.T) {
		assert.Equal(t, "https://acme.myshopify.com/admin/api/2023-07", Config{Shop: "acme", APIVersion: "2023-07"}.AdminURL())
		assert.Equal(t, "http://proxy/admin/api/2024-01", Config{BaseURL: "http://proxy/", APIVersion: "2024-01"}.AdminURL())
	})
}

func TestNextPageInfo(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"Empty", "", ""},
		{"NextOnly", `<https://acme.myshopify.com/admin/api/2023-07/products.json?limit=250&page_info=abc123>; rel="next"`, "abc123"},
		{"PreviousAndNext", `<https://x/products.json?page_info=prev1&limit=250>; rel="previous", <https://x/products.json?limit=250&page_info=next2>; rel="next"`, "next2"},
		{"PreviousOnly", `<https://x/products.json?page_info=prev1>; rel="previous"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextPageInfo(tt.link))
		})
	}
}

func TestListProducts(t *testing.T) {
	var gotQuery []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2023-07/products.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		gotQuery = append(gotQuery, r.URL.RawQuery)

		if r.URL.Query().Get("page_info") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/admin/api/2023-07/products.json?limit=2&page_info=cur2>; rel="next"`, r.Host))
		}
		_, _ = io.WriteString(w, `{"products":[{"id":101,"title":"Widget","variants":[
			{"id":201,"sku":"ABC","inventory_item_id":301,"inventory_quantity":5,"price":"19.99"},
			{"id":202,"sku":"","inventory_item_id":302,"inventory_quantity":0,"price":"1.00"}]}]}`)
	})

	page, err := client.ListProducts(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, "cur2", page.NextCursor)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "101", page.Products[0].ID)
	require.Len(t, page.Products[0].Variants, 2)

	v := page.Products[0].Variants[0]
	assert.Equal(t, "201", v.ID)
	assert.Equal(t, "ABC", v.SKU)
	assert.Equal(t, "301", v.InventoryItemID)
	assert.Equal(t, 5, v.ObservedQuantity)
	assert.True(t, decimal.RequireFromString("19.99").Equal(v.ObservedPrice))

	page, err = client.ListProducts(context.Background(), "cur2", 2)
	require.NoError(t, err)
	assert.Empty(t, page.NextCursor)
	assert.Contains(t, gotQuery[1], "page_info=cur2")
	assert.Contains(t, gotQuery[0], "limit=2")
}

func TestListProducts_NullIDsBecomeEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"products":[{"id":101,"title":"Bundle","variants":[
			{"id":201,"sku":"X","inventory_item_id":null,"inventory_quantity":0,"price":null},
			{"id":0,"sku":"Y","inventory_item_id":0,"inventory_quantity":2,"price":"3.00"}]}]}`)
	})

	page, err := client.ListProducts(context.Background(), "", 0)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	require.Len(t, page.Products[0].Variants, 2)

	x := page.Products[0].Variants[0]
	assert.Equal(t, "201", x.ID)
	assert.Empty(t, x.InventoryItemID)
	assert.True(t, x.ObservedPrice.IsZero())

	y := page.Products[0].Variants[1]
	assert.Empty(t, y.ID)
	assert.Empty(t, y.InventoryItemID)
}

func TestListProducts_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	})

	_, err := client.ListProducts(context.Background(), "", 0)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.True(t, apiErr.Retryable())
}

// graphQLBody decodes the posted GraphQL request.
func graphQLBody(t *testing.T, r *http.Request) graphQLRequest {
	t.Helper()
	var req graphQLRequest
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
	return req
}

func TestAdjustInventory(t *testing.T) {
	var captured graphQLRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2023-07/graphql.json", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		captured = graphQLBody(t, r)
		_, _ = io.WriteString(w, `{"data":{"inventoryAdjustQuantities":{"userErrors":[]}}}`)
	})

	err := client.AdjustInventory(context.Background(), []reconcile.InventoryDelta{
		{InventoryItemID: "1", LocationID: "77", Delta: 3},
		{InventoryItemID: "gid://shopify/InventoryItem/2", LocationID: "77", Delta: -6},
	})
	require.NoError(t, err)

	assert.Contains(t, captured.Query, "inventoryAdjustQuantities")
	input := captured.Variables["input"].(map[string]any)
	assert.Equal(t, "available", input["name"])
	assert.Equal(t, "correction", input["reason"])
	changes := input["changes"].([]any)
	require.Len(t, changes, 2)
	first := changes[0].(map[string]any)
	assert.Equal(t, "gid://shopify/InventoryItem/1", first["inventoryItemId"])
	assert.Equal(t, "gid://shopify/Location/77", first["locationId"])
	assert.Equal(t, float64(3), first["delta"])
	assert.Equal(t, "gid://shopify/InventoryItem/2", changes[1].(map[string]any)["inventoryItemId"])
}

func TestAdjustInventory_UserErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"inventoryAdjustQuantities":{"userErrors":[{"field":["input","changes","0","locationId"],"message":"location not found"}]}}}`)
	})

	err := client.AdjustInventory(context.Background(), []reconcile.InventoryDelta{{InventoryItemID: "1", LocationID: "9", Delta: 1}})

	var ue *UserErrors
	require.ErrorAs(t, err, &ue)
	assert.False(t, ue.Retryable())
	assert.Contains(t, err.Error(), "input.changes.0.locationId: location not found")
	assert.Equal(t, reconcile.OutcomeTerminalFailure, reconcile.Classify(err))
}

func TestAdjustInventory_EmptyIsNoop(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	assert.NoError(t, client.AdjustInventory(context.Background(), nil))
}

func TestUpdateVariantPrice(t *testing.T) {
	var captured graphQLRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = graphQLBody(t, r)
		_, _ = io.WriteString(w, `{"data":{"productVariantUpdate":{"productVariant":{"id":"gid://shopify/ProductVariant/201","price":"23.00","sku":"ABC"},"userErrors":[]}}}`)
	})

	err := client.UpdateVariantPrice(context.Background(), reconcile.PriceUpdate{VariantID: "201", NewPrice: decimal.RequireFromString("23")})
	require.NoError(t, err)

	input := captured.Variables["input"].(map[string]any)
	assert.Equal(t, "gid://shopify/ProductVariant/201", input["id"])
	assert.Equal(t, "23.00", input["price"])
}

func TestUpdateVariantPrice_Throttled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}]}`)
	})

	err := client.UpdateVariantPrice(context.Background(), reconcile.PriceUpdate{VariantID: "1", NewPrice: decimal.NewFromInt(1)})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, reconcile.OutcomeRetryableFailure, reconcile.Classify(err))
}

func TestUpdateVariantPrice_HTTP429(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2.0")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	err := client.UpdateVariantPrice(context.Background(), reconcile.PriceUpdate{VariantID: "1", NewPrice: decimal.NewFromInt(1)})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/Location/5", GID("Location", "5"))
	assert.Equal(t, "gid://shopify/Location/5", GID("Location", "gid://shopify/Location/5"))
}
