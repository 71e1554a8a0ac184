package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePoints = []Coordinate{
	{Latitude: 0, Longitude: 0},
	{Latitude: 55.7558, Longitude: 37.6173},
	{Latitude: -33.8688, Longitude: 151.2093},
	{Latitude: 89.9999, Longitude: -179.9999},
	{Latitude: 10, Longitude: 20},
}

func TestDistanceMeters_SamePointIsZero(t *testing.T) {
	for _, p := range samplePoints {
		require.Zero(t, DistanceMeters(p, p))
	}
}

func TestDistanceMeters_Symmetric(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			require.InDelta(t, DistanceMeters(a, b), DistanceMeters(b, a), 1e-6)
		}
	}
}

func TestDistanceMeters_KnownDistances(t *testing.T) {
	// один градус по экватору
	oneDegree := DistanceMeters(Coordinate{0, 0}, Coordinate{0, 1})
	assert.InDelta(t, 111195, oneDegree, 1)

	// Москва - Санкт-Петербург, около 634 км
	moscow := Coordinate{Latitude: 55.7558, Longitude: 37.6173}
	spb := Coordinate{Latitude: 59.9343, Longitude: 30.3351}
	assert.InDelta(t, 634000, DistanceMeters(moscow, spb), 2000)

	// антиподы
	assert.InDelta(t, 20015087, DistanceMeters(Coordinate{0, 0}, Coordinate{0, 180}), 1)
}

func TestWithinFence(t *testing.T) {
	target := Coordinate{Latitude: 10, Longitude: 20}

	require.True(t, WithinFence(target, target, 0))
	require.True(t, WithinFence(Coordinate{Latitude: 10.05, Longitude: 20}, target, 10000))
	require.False(t, WithinFence(Coordinate{Latitude: 10.2, Longitude: 20}, target, 10000))
}

func TestWithinFence_MonotonicInRadius(t *testing.T) {
	target := Coordinate{Latitude: 55.75, Longitude: 37.61}
	point := Coordinate{Latitude: 55.80, Longitude: 37.70}
	d := DistanceMeters(point, target)

	require.False(t, WithinFence(point, target, d-1))
	for _, radius := range []float64{d, d + 1, d * 2, 1e7} {
		require.True(t, WithinFence(point, target, radius))
	}
}

func TestCoordinate_GeoJSON(t *testing.T) {
	require.Equal(t, [2]float64{20, 10}, Coordinate{Latitude: 10, Longitude: 20}.GeoJSON())
}
