package backend

import "github.com/avilaj/tienda/internal/domain"

// SearchAddressesRequest is the body for POST /store/searchAddresses.
type SearchAddressesRequest struct {
	Query   string `json:"query"`
	Country string `json:"country"`
	Limit   int    `json:"limit"`
}

// SearchResult is one raw geocoder candidate before client-side ranking.
type SearchResult struct {
	Formatted    string                   `json:"formatted"`
	Confidence   float64                  `json:"confidence"`
	DistanceKm   float64                  `json:"distance"`
	ShippingCost float64                  `json:"shippingCost"`
	Coordinates  domain.Coordinates       `json:"coordinates"`
	Components   domain.AddressComponents `json:"components"`
}

// SearchAddressesResponse is the body of the search response.
type SearchAddressesResponse struct {
	Success bool           `json:"success"`
	Results []SearchResult `json:"results"`
}

// ValidateAddressResponse is the body of POST /store/validateAddress.
type ValidateAddressResponse struct {
	Success          bool           `json:"success"`
	Confidence       float64        `json:"confidence"`
	ValidatedAddress string         `json:"validatedAddress"`
	DistanceKm       float64        `json:"distance"`
	ShippingCost     float64        `json:"shippingCost"`
	Suggestions      []SearchResult `json:"suggestions"`
}

// ReverseGeocodeResponse is the body of POST /store/reverseGeocode.
type ReverseGeocodeResponse struct {
	Success   bool   `json:"success"`
	Formatted string `json:"formatted"`
}

// ScheduleStatus is the body of GET /store/horario.
type ScheduleStatus struct {
	Open        bool            `json:"estaAbierto"`
	StoreActive *bool           `json:"tiendaActiva,omitempty"`
	Hours       domain.Schedule `json:"horarios"`
	Times       ScheduleTimes   `json:"tiempos"`
}

// ScheduleTimes carries the countdown fields of the schedule response.
type ScheduleTimes struct {
	MinutesToOpen  int `json:"minutosParaAbrir"`
	MinutesToClose int `json:"minutosParaCerrar"`
}

// StoreSettings is the body of GET /store/variablesenv.
type StoreSettings struct {
	StoreName      string `json:"storeName"`
	StoreEmail     string `json:"storeEmail"`
	StorePhone     string `json:"storePhone"`
	StoreAddress   string `json:"storeAddress"`
	StoreInstagram string `json:"storeInstagram"`
}

// PreferenceResponse is the body of POST /store/create_preference.
type PreferenceResponse struct {
	ID string `json:"id"`
}

// OrderEmailItem is one line of the confirmation email payload.
type OrderEmailItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// OrderEmailRequest is the body for POST /store/mailPedidoRealizado.
type OrderEmailRequest struct {
	StoreName    string           `json:"storeName"`
	Name         string           `json:"name"`
	ClientMail   string           `json:"clientMail"`
	Items        []OrderEmailItem `json:"items"`
	Subtotal     string           `json:"subtotal"`
	ShippingCost string           `json:"shippingCost"`
	Total        float64          `json:"total"`
	StoreMail    string           `json:"storeMail"`
	StorePhone   string           `json:"storePhone"`
}

// Product is one catalog entry as the storefront consumes it.
type Product struct {
	InternalCode int64   `json:"codigo_interno"`
	Barcode      string  `json:"codigo_barra"`
	Name         string  `json:"nombre"`
	Price        float64 `json:"precio"`
	OfferPrice   float64 `json:"precio_oferta,omitempty"`
	Category     string  `json:"categoria,omitempty"`
}

// ProductPage is a paginated product listing.
type ProductPage struct {
	Products   []Product `json:"articulos"`
	Page       int       `json:"pagina"`
	TotalPages int       `json:"totalPaginas"`
	Total      int       `json:"total"`
}
