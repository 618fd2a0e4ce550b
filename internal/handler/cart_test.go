package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/router"
	"github.com/avilaj/tienda/internal/service"
	"github.com/avilaj/tienda/internal/storage"
)

func newCartRouter(t *testing.T) (*router.Router, domain.CartService) {
	t.Helper()

	cart := service.NewCartService(storage.NewMockStore(), 0, nil, nil)
	require.NoError(t, cart.Load(context.Background()))

	h := NewCartHandler(cart)
	r := router.New()
	r.Get("/api/cart", h.View)
	r.Post("/api/cart/items", h.Add)
	r.Put("/api/cart/items/{id}", h.UpdateQuantity)
	r.Delete("/api/cart/items/{id}", h.Remove)
	r.Delete("/api/cart", h.Clear)
	return r, cart
}

func TestCartHandler_AddAndView(t *testing.T) {
	r, _ := newCartRouter(t)

	body := `{"name":"Yerba","price":100.4,"quantity":2,"barcode":"779123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary domain.CartSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(100), summary.Items[0].UnitPrice)
	assert.Equal(t, int64(200), summary.TotalPrice)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCartHandler_UpdateQuantityErrors(t *testing.T) {
	r, cart := newCartRouter(t)

	summary, err := cart.AddItem(context.Background(), domain.NewCartItem{Name: "Pan", UnitPrice: 50, Quantity: 1})
	require.NoError(t, err)
	id := summary.Items[0].ID

	tests := []struct {
		name       string
		id         string
		body       string
		wantStatus int
	}{
		{"valid update", id, `{"quantity":3}`, http.StatusOK},
		{"zero quantity rejected", id, `{"quantity":0}`, http.StatusBadRequest},
		{"above ceiling rejected", id, `{"quantity":31}`, http.StatusBadRequest},
		{"unknown line", "nope", `{"quantity":2}`, http.StatusNotFound},
		{"malformed body", id, `{"quantity":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/cart/items/"+tt.id, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				var resp struct {
					Error struct {
						Code    string `json:"code"`
						Message string `json:"message"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Error.Code)
				assert.NotEmpty(t, resp.Error.Message)
			}
		})
	}
}

func TestCartHandler_Clear(t *testing.T) {
	r, cart := newCartRouter(t)

	_, err := cart.AddItem(context.Background(), domain.NewCartItem{Name: "Pan", UnitPrice: 50, Quantity: 1})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/cart", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	summary, err := cart.Summary(context.Background())
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
}
