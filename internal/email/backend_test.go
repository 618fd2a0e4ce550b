package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
)

func newEmailBackend(t *testing.T) (*BackendSender, *atomic.Int64, *atomic.Int64) {
	t.Helper()

	var settingsCalls, mailCalls atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("GET /store/variablesenv", func(w http.ResponseWriter, r *http.Request) {
		settingsCalls.Add(1)
		json.NewEncoder(w).Encode(backend.StoreSettings{
			StoreName:  "Tienda Centro",
			StoreEmail: "hola@tienda.example",
			StorePhone: "3510000000",
		})
	})
	mux.HandleFunc("POST /store/mailPedidoRealizado", func(w http.ResponseWriter, r *http.Request) {
		mailCalls.Add(1)
		var req backend.OrderEmailRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := backend.NewClient(srv.URL, backend.DefaultTimeouts())
	return NewBackendSender(client), &settingsCalls, &mailCalls
}

func testOrder(customer string) *domain.PendingOrder {
	return &domain.PendingOrder{
		Customer:     customer,
		Email:        "ana@example.com",
		Subtotal:     "200.00",
		ShippingCost: "0.00",
		Total:        200,
		Lines: []domain.OrderLine{
			{Name: "Yerba", Quantity: 2, LineTotal: "200.00"},
		},
	}
}

func TestBackendSender_SendOrderConfirmation(t *testing.T) {
	sender, settingsCalls, mailCalls := newEmailBackend(t)
	ctx := context.Background()

	require.NoError(t, sender.SendOrderConfirmation(ctx, testOrder("Ana García")))
	require.NoError(t, sender.SendOrderConfirmation(ctx, testOrder("Juan Pérez")))

	assert.Equal(t, int64(2), mailCalls.Load())
	// Settings are fetched once and cached for the process lifetime.
	assert.Equal(t, int64(1), settingsCalls.Load())
}

func TestBackendSender_ConcurrentSends(t *testing.T) {
	sender, _, mailCalls := newEmailBackend(t)

	// Two orders confirming inside the same paint-delay window send from
	// separate goroutines and share the settings cache.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sender.SendOrderConfirmation(context.Background(), testOrder("Ana García")))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(4), mailCalls.Load())
}
