package geo_test

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/pkg/geo"
)

func TestDistanceKm_CairoToAlexandria(t *testing.T) {
	d := geo.DistanceKm(30.0444, 31.2357, 31.2001, 29.9187)

	assert.InDelta(t, 179.0, d, 2.0)
}

func TestDistanceKm_SymmetricAndZero(t *testing.T) {
	points := []geo.LatLng{
		{Lat: 30.0444, Lng: 31.2357},
		{Lat: 31.2001, Lng: 29.9187},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 90, Lng: 0},
		{Lat: -90, Lng: 180},
		{Lat: 0, Lng: -180},
	}

	for _, a := range points {
		assert.Equal(t, 0.0, geo.Distance(a, a))
		for _, b := range points {
			assert.InDelta(t, geo.Distance(a, b), geo.Distance(b, a), 1e-9)
			assert.GreaterOrEqual(t, geo.Distance(a, b), 0.0)
		}
	}
}

func TestDistanceKm_NaNPropagates(t *testing.T) {
	assert.True(t, math.IsNaN(geo.DistanceKm(math.NaN(), 0, 0, 0)))
}

func TestStoragePoint_RoundTrip(t *testing.T) {
	tests := []struct {
		lat, lng float64
	}{
		{30.0444, 31.2357},
		{-90, 180},
		{90, -180},
		{0, 0},
		{26.5, -12.25},
	}

	for _, tt := range tests {
		p, err := geo.ToStoragePoint(tt.lat, tt.lng)
		require.NoError(t, err)

		// GeoJSON порядок: [lng, lat]
		assert.Equal(t, orb.Point{tt.lng, tt.lat}, p)
		assert.Equal(t, geo.LatLng{Lat: tt.lat, Lng: tt.lng}, geo.FromStoragePoint(p))
	}
}

func TestToStoragePoint_Validation(t *testing.T) {
	tests := []struct {
		name      string
		lat, lng  float64
		badFields []string
	}{
		{"latitude above range", 91, 0, []string{"latitude"}},
		{"longitude above range", 0, 181, []string{"longitude"}},
		{"both below range", -91, -181, []string{"latitude", "longitude"}},
		{"nan latitude", math.NaN(), 10, []string{"latitude"}},
		{"infinite longitude", 10, math.Inf(1), []string{"longitude"}},
		{"bounds are inclusive", -90, 180, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.ToStoragePoint(tt.lat, tt.lng)
			if tt.badFields == nil {
				assert.NoError(t, err)
				return
			}

			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code)

			var fields []string
			for _, fe := range appErr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Equal(t, tt.badFields, fields)
		})
	}
}

func TestCheckCoordinates_NamesBound(t *testing.T) {
	fields := geo.CheckCoordinates(26.5, 200, "lat", "lng")

	require.Len(t, fields, 1)
	assert.Equal(t, "lng", fields[0].Field)
	assert.Contains(t, fields[0].Message, "180")
	assert.False(t, geo.ValidCoordinates(26.5, 200))
	assert.True(t, geo.ValidCoordinates(26.5, 31))
}
