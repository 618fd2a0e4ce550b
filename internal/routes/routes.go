// Package routes binds the API handlers onto the router.
package routes

import (
	"net/http"

	"github.com/avilaj/tienda/internal/handler"
	"github.com/avilaj/tienda/internal/router"
)

// Deps contains the handlers the API routes need.
type Deps struct {
	Cart         *handler.CartHandler
	Addresses    *handler.AddressHandler
	Checkout     *handler.CheckoutHandler
	Orders       *handler.OrderHandler
	Availability *handler.AvailabilityHandler
	Catalog      *handler.CatalogHandler

	// MetricsHandler is the Prometheus scrape endpoint.
	MetricsHandler http.Handler
}

// Register registers every API route.
func Register(r *router.Router, deps Deps) {
	// Cart
	r.Get("/api/cart", deps.Cart.View)
	r.Post("/api/cart/items", deps.Cart.Add)
	r.Put("/api/cart/items/{id}", deps.Cart.UpdateQuantity)
	r.Delete("/api/cart/items/{id}", deps.Cart.Remove)
	r.Delete("/api/cart", deps.Cart.Clear)

	// Address resolution
	r.Post("/api/addresses/search", deps.Addresses.Search)
	r.Post("/api/addresses/validate", deps.Addresses.Validate)
	r.Post("/api/addresses/quote", deps.Addresses.Quote)
	r.Post("/api/addresses/select", deps.Addresses.Select)
	r.Post("/api/addresses/map", deps.Addresses.PickOnMap)
	r.Get("/api/addresses/selection", deps.Addresses.Selection)
	r.Delete("/api/addresses/selection", deps.Addresses.ClearSelection)

	// Saved addresses
	r.Get("/api/addresses/saved", deps.Addresses.ListSaved)
	r.Post("/api/addresses/saved", deps.Addresses.Save)
	r.Delete("/api/addresses/saved/{id}", deps.Addresses.DeleteSaved)
	r.Post("/api/addresses/saved/{id}/use", deps.Addresses.UseSaved)

	// Checkout form
	r.Get("/api/checkout", deps.Checkout.State)
	r.Handle(http.MethodPatch, "/api/checkout", http.HandlerFunc(deps.Checkout.Update))
	r.Post("/api/checkout/validate", deps.Checkout.Validate)

	// Orders
	r.Post("/api/orders", deps.Orders.Submit)
	r.Post("/api/orders/confirm", deps.Orders.Confirm)
	r.Post("/api/orders/retry", deps.Orders.Retry)
	r.Get("/api/orders/pending", deps.Orders.Pending)

	// Availability
	r.Get("/api/availability", deps.Availability.Current)
	r.Post("/api/availability/refresh", deps.Availability.Refresh)

	// Catalog
	r.Get("/api/catalog/offers", deps.Catalog.Offers)
	r.Get("/api/catalog/featured", deps.Catalog.Featured)
	r.Get("/api/catalog/promos", deps.Catalog.Promos)
	r.Get("/api/catalog/categories", deps.Catalog.Categories)
	r.Get("/api/catalog/products", deps.Catalog.Products)
	r.Get("/api/catalog/products/{barcode}/image", deps.Catalog.ProductImage)
	r.Get("/api/settings", deps.Catalog.Settings)

	// Operational
	r.Get("/health", handler.Health)
	if deps.MetricsHandler != nil {
		r.Handle(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
}
