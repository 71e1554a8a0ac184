// Package geo содержит расчёт расстояний по поверхности Земли и проверку геозоны.
package geo

import "math"

// EarthRadiusMeters средний радиус Земли.
const EarthRadiusMeters = 6371000.0

// Coordinate точка на поверхности Земли в градусах.
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// GeoJSON возвращает пару в порядке [долгота, широта].
func (c Coordinate) GeoJSON() [2]float64 {
	return [2]float64{c.Longitude, c.Latitude}
}

// DistanceMeters считает расстояние по большому кругу (формула гаверсинусов).
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// ошибки округления могут дать h чуть больше 1
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// WithinFence true, если точка не дальше radiusMeters от цели.
func WithinFence(point, target Coordinate, radiusMeters float64) bool {
	return DistanceMeters(point, target) <= radiusMeters
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
