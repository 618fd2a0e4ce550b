package shipping_test

import (
	"testing"

	"github.com/avilaj/tienda/internal/domain"
	"github.com/avilaj/tienda/internal/shipping"
	"github.com/stretchr/testify/assert"
)

var cordoba = domain.Coordinates{Lat: -31.4201, Lng: -64.1888}

func TestQuoter_Cost(t *testing.T) {
	q := shipping.NewQuoter(cordoba, 500, 100)

	tests := []struct {
		name       string
		distanceKm float64
		expected   float64
	}{
		{name: "zero distance equals base fee", distanceKm: 0, expected: 500},
		{name: "ten km", distanceKm: 10, expected: 1500},
		{name: "fractional distance", distanceKm: 2.5, expected: 750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, q.Cost(tt.distanceKm), 0.001)
		})
	}
}

func TestHaversine(t *testing.T) {
	// Same point is zero.
	assert.InDelta(t, 0, shipping.Haversine(cordoba, cordoba), 0.0001)

	// One degree of latitude is roughly 111 km.
	north := domain.Coordinates{Lat: cordoba.Lat + 1, Lng: cordoba.Lng}
	assert.InDelta(t, 111.2, shipping.Haversine(cordoba, north), 1.0)

	// Symmetric.
	assert.InDelta(t,
		shipping.Haversine(cordoba, north),
		shipping.Haversine(north, cordoba),
		0.0001,
	)
}

func TestQuoter_DistanceTo(t *testing.T) {
	q := shipping.NewQuoter(cordoba, 500, 100)
	east := domain.Coordinates{Lat: cordoba.Lat, Lng: cordoba.Lng + 0.1}

	d := q.DistanceTo(east)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 15.0)

	// Cost grows with distance but never drops below the base fee.
	assert.GreaterOrEqual(t, q.Cost(d), 500.0)
}
