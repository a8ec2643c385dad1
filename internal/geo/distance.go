// Package geo computes great-circle distances between airport
// coordinates.  Route distances are always derived through this
// package when a route is created or updated; clients never supply
// them directly.
package geo

import "math"

// earthRadiusKM is the mean radius of the Earth in kilometers.
const earthRadiusKM = 6371.0

// DistanceKM returns the haversine distance in kilometers between
// two points given in decimal degrees, rounded to the nearest whole
// kilometer.  The function is symmetric in its arguments.
func DistanceKM(lat1, lon1, lat2, lon2 float64) int64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(lon2 - lon1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return int64(math.Round(earthRadiusKM * c))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
