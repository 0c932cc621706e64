package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm вычисляет расстояние между двумя точками в километрах (haversine).
// Координаты в градусах. NaN на входе дает NaN на выходе.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	lat1Rad := toRadians(lat1)
	lat2Rad := toRadians(lat2)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// Distance - расстояние между двумя LatLng в километрах
func Distance(from, to LatLng) float64 {
	return DistanceKm(from.Lat, from.Lng, to.Lat, to.Lng)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
