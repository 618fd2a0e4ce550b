// Package shipping prices deliveries by road distance from the store origin.
package shipping

import (
	"math"

	"github.com/avilaj/tienda/internal/domain"
)

const earthRadiusKm = 6371

// Quoter computes delivery cost from distance.
type Quoter struct {
	origin    domain.Coordinates
	baseFee   float64
	perKmRate float64
}

// NewQuoter creates a Quoter anchored at the store origin.
func NewQuoter(origin domain.Coordinates, baseFee, perKmRate float64) *Quoter {
	return &Quoter{origin: origin, baseFee: baseFee, perKmRate: perKmRate}
}

// Origin returns the store location deliveries are priced from.
func (q *Quoter) Origin() domain.Coordinates {
	return q.origin
}

// Cost returns the shipping cost for a given distance in km.
// The max keeps parity with the deployed pricing rule for non-negative
// distances.
func (q *Quoter) Cost(distanceKm float64) float64 {
	return math.Max(q.baseFee, q.baseFee+distanceKm*q.perKmRate)
}

// DistanceTo returns the great-circle distance in km from the store origin.
func (q *Quoter) DistanceTo(point domain.Coordinates) float64 {
	return Haversine(q.origin, point)
}

// Haversine returns the great-circle distance in km between two points.
func Haversine(a, b domain.Coordinates) float64 {
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
