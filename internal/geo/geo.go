// Package geo holds the pure spatial and decay math used by the location
// pipeline and the risk engine. Inputs are validated by callers.
package geo

import "math"

const earthRadiusMeters = 6371e3

// HaversineDistanceMeters returns the great-circle distance in meters
// between two lat/lng points.
func HaversineDistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// DecayedRiskScore weights an incident's severity by its age using an
// exponential decay with a 120-minute time constant. The score approaches
// zero but never reaches it; there is no expiry floor.
func DecayedRiskScore(severity float64, minutesOld float64) float64 {
	return severity * math.Exp(-minutesOld/120)
}

// Round2 rounds to two decimal places; applied at snapshot construction.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
