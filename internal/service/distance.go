package service

import "math"

// earthRadiusKm is the mean radius of the Earth used by the haversine formula.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// latitude/longitude points. Used as a proxy for road distance.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// RoundKm rounds a distance to two decimal places.
func RoundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
