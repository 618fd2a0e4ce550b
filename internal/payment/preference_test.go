package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilaj/tienda/internal/backend"
)

func TestPreferenceProvider_CreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/store/create_preference", r.URL.Path)
		var body map[string]float64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1500), body["total"])
		json.NewEncoder(w).Encode(backend.PreferenceResponse{ID: "pref-42"})
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, backend.DefaultTimeouts())
	provider := NewPreferenceProvider(client, "")

	session, err := provider.CreateSession(context.Background(), SessionParams{Total: 1500})
	require.NoError(t, err)
	assert.Equal(t, "pref-42", session.ID)
	assert.Equal(t,
		"https://www.mercadopago.com.ar/checkout/v1/redirect?preference-id=pref-42",
		session.RedirectURL)
}

func TestPreferenceProvider_CustomRedirectBase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(backend.PreferenceResponse{ID: "pref-1"})
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, backend.DefaultTimeouts())
	provider := NewPreferenceProvider(client, "https://sandbox.example/redirect")

	session, err := provider.CreateSession(context.Background(), SessionParams{Total: 10})
	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.example/redirect?preference-id=pref-1", session.RedirectURL)
}

func TestPreferenceProvider_BackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := backend.NewClient(srv.URL, backend.DefaultTimeouts())
	provider := NewPreferenceProvider(client, "")

	_, err := provider.CreateSession(context.Background(), SessionParams{Total: 10})
	assert.Error(t, err)
}
