// Package geo provides great-circle math for airport lookups and flight
// distance calculations. All functions are pure.
package geo

import "math"

// EarthRadiusNm is the mean earth radius in nautical miles.
const EarthRadiusNm = 3440.065

// DistanceNm returns the great-circle distance between two coordinates in
// nautical miles using the haversine formula.
func DistanceNm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusNm * c
}

// BoundingBox is a latitude/longitude rectangle used to pre-filter airport
// candidates before the exact distance check.
type BoundingBox struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// BoxAround returns a bounding box of maxDistanceNm around a point,
// approximating 1 degree as 60 nm.
func BoxAround(lat, lon, maxDistanceNm float64) BoundingBox {
	maxDegrees := maxDistanceNm / 60.0
	return BoundingBox{
		MinLat: lat - maxDegrees,
		MaxLat: lat + maxDegrees,
		MinLon: lon - maxDegrees,
		MaxLon: lon + maxDegrees,
	}
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
