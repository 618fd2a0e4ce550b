package handler

import (
	"net/http"
	"strconv"

	"github.com/avilaj/tienda/internal/backend"
	"github.com/avilaj/tienda/internal/domain"
)

// CatalogHandler proxies the product catalog from the commerce backend.
type CatalogHandler struct {
	client *backend.Client
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(client *backend.Client) *CatalogHandler {
	return &CatalogHandler{client: client}
}

// Offers handles GET /api/catalog/offers.
func (h *CatalogHandler) Offers(w http.ResponseWriter, r *http.Request) {
	products, err := h.client.Offers(r.Context())
	if err != nil {
		RespondError(w, r, upstream(err))
		return
	}
	RespondJSON(w, http.StatusOK, products)
}

// Featured handles GET /api/catalog/featured.
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products, err := h.client.Featured(r.Context())
	if err != nil {
		RespondError(w, r, upstream(err))
		return
	}
	RespondJSON(w, http.StatusOK, products)
}

// Categories handles GET /api/catalog/categories.
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.client.Categories(r.Context())
	if err != nil {
		RespondError(w, r, upstream(err))
		return
	}
	RespondJSON(w, http.StatusOK, categories)
}

// Promos handles GET /api/catalog/promos.
func (h *CatalogHandler) Promos(w http.ResponseWriter, r *http.Request) {
	images, err := h.client.PromoImages(r.Context())
	if err != nil {
		RespondError(w, r, upstream(err))
		return
	}
	if images == nil {
		images = []string{}
	}
	RespondJSON(w, http.StatusOK, images)
}

// Products handles GET /api/catalog/products with search, category, and page
// query parameters.
func (h *CatalogHandler) Products(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	products, err := h.client.Products(r.Context(),
		r.URL.Query().Get("search"),
		r.URL.Query().Get("category"),
		page,
	)
	if err != nil {
		RespondError(w, r, upstream(err))
		return
	}
	RespondJSON(w, http.StatusOK, products)
}

// ProductImage handles GET /api/catalog/products/{barcode}/image.
func (h *CatalogHandler) ProductImage(w http.ResponseWriter, r *http.Request) {
	url, err := h.client.ProductImage(r.Context(), r.PathValue("barcode"))
	if err != nil {
		RespondError(w, r, upstream(err))
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// Settings handles GET /api/settings.
func (h *CatalogHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.client.Settings(r.Context())
	if err != nil {
		RespondError(w, r, upstream(err))
		return
	}
	RespondJSON(w, http.StatusOK, settings)
}

// upstream wraps a backend client error as an unavailable domain error.
func upstream(err error) error {
	return domain.Unavailable(err, "catalog", "The store catalog is temporarily unavailable")
}
