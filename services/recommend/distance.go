package recommend

import (
	"math"

	"keyhubcentral/models"
)

const earthRadiusMiles = 3958.8

// Proximity scoring shape: a contractor at the job site scores 100, decaying
// linearly to radiusEdgeScore at the edge of their service radius, then from
// radiusEdgeScore to 0 across a second radius beyond it. Out-of-radius
// contractors still surface when nothing closer exists, but they can never
// outscore an in-radius contractor on proximity.
const (
	fullProximityScore = 100.0
	radiusEdgeScore    = 40.0
)

// Distance returns the great-circle distance in miles between two resolved
// points, or nil when either side lacks coordinates. A nil result means
// "cannot evaluate", never zero distance.
func Distance(a, b *models.GeoPoint) *float64 {
	if a == nil || b == nil {
		return nil
	}
	d := haversineMiles(a.Lat, a.Lng, b.Lat, b.Lng)
	return &d
}

// ProximityScore maps a distance onto [0,100] given a service radius.
// Non-increasing in distance for any fixed radius.
func ProximityScore(distanceMiles, serviceRadiusMiles float64) float64 {
	if serviceRadiusMiles <= 0 {
		serviceRadiusMiles = models.DefaultServiceRadiusMiles
	}
	if distanceMiles <= 0 {
		return fullProximityScore
	}
	if distanceMiles <= serviceRadiusMiles {
		return fullProximityScore - (fullProximityScore-radiusEdgeScore)*(distanceMiles/serviceRadiusMiles)
	}
	overshoot := (distanceMiles - serviceRadiusMiles) / serviceRadiusMiles
	score := radiusEdgeScore * (1 - overshoot)
	if score < 0 {
		return 0
	}
	return score
}

// IsWithinServiceRadius is a strict comparison used as a filter flag, not a
// hard exclusion.
func IsWithinServiceRadius(distanceMiles, serviceRadiusMiles float64) bool {
	if serviceRadiusMiles <= 0 {
		serviceRadiusMiles = models.DefaultServiceRadiusMiles
	}
	return distanceMiles <= serviceRadiusMiles
}

// haversineMiles calculates the great-circle distance between two lat/lng
// points.
func haversineMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}
