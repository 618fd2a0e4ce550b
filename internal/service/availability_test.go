package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
)

func scheduleServer(t *testing.T, body string, status int) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/store/horario" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return backend.NewClient(srv.URL, backend.DefaultTimeouts())
}

func TestAvailabilityService_DefaultIsFailOpen(t *testing.T) {
	svc := NewAvailabilityService(nil, nil, 0, nil)

	avail := svc.Current()
	assert.Equal(t, domain.StoreOpen, avail.State)
	assert.True(t, avail.Open)
	assert.True(t, avail.Degraded)
	assert.True(t, avail.CanCheckout())
}

func TestAvailabilityService_Refresh(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantState    domain.AvailabilityState
		wantCheckout bool
		wantDeferred bool
	}{
		{
			name:         "open",
			body:         `{"estaAbierto":true,"horarios":{"apertura":"08:00","cierre":"22:00"},"tiempos":{"minutosParaCerrar":120}}`,
			wantState:    domain.StoreOpen,
			wantCheckout: true,
		},
		{
			name:         "closed within schedule keeps checkout with warning",
			body:         `{"estaAbierto":false,"horarios":{"apertura":"08:00","aperturaFormateada":"8:00 AM"},"tiempos":{"minutosParaAbrir":90}}`,
			wantState:    domain.StoreClosedWithinSchedule,
			wantCheckout: true,
			wantDeferred: true,
		},
		{
			name:         "inactive store blocks checkout",
			body:         `{"estaAbierto":true,"tiendaActiva":false}`,
			wantState:    domain.StoreInactive,
			wantCheckout: false,
		},
		{
			name:         "active flag true defers to schedule",
			body:         `{"estaAbierto":false,"tiendaActiva":true}`,
			wantState:    domain.StoreClosedWithinSchedule,
			wantCheckout: true,
			wantDeferred: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := scheduleServer(t, tt.body, http.StatusOK)
			svc := NewAvailabilityService(client, nil, 0, nil)

			avail := svc.Refresh(context.Background())
			assert.Equal(t, tt.wantState, avail.State)
			assert.Equal(t, tt.wantCheckout, avail.CanCheckout())
			assert.Equal(t, tt.wantDeferred, avail.DeferredFulfillment())
			assert.False(t, avail.Degraded)

			// Refresh updates the cache.
			assert.Equal(t, avail, svc.Current())
		})
	}
}

func TestAvailabilityService_PollFailureFailsOpen(t *testing.T) {
	client := scheduleServer(t, "oops", http.StatusInternalServerError)
	svc := NewAvailabilityService(client, nil, 0, nil)

	avail := svc.Refresh(context.Background())
	assert.Equal(t, domain.StoreOpen, avail.State)
	assert.True(t, avail.Degraded)
	assert.True(t, avail.CanCheckout())
}

func TestAvailabilityService_RefreshCarriesScheduleMetadata(t *testing.T) {
	client := scheduleServer(t,
		`{"estaAbierto":false,"horarios":{"apertura":"08:00","cierre":"22:00","aperturaFormateada":"8:00 AM","cierreFormateada":"10:00 PM"},"tiempos":{"minutosParaAbrir":45,"minutosParaCerrar":0}}`,
		http.StatusOK)
	svc := NewAvailabilityService(client, nil, 0, nil)

	avail := svc.Refresh(context.Background())
	require.Equal(t, domain.StoreClosedWithinSchedule, avail.State)
	assert.Equal(t, "8:00 AM", avail.Schedule.OpensDisplay)
	assert.Equal(t, "10:00 PM", avail.Schedule.ClosesDisplay)
	assert.Equal(t, 45, avail.Schedule.MinutesToOpen)
}
