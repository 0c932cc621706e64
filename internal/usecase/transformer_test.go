package usecase_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/pkg/geo"
	"github.com/service-directory/internal/usecase"
)

// 2024-01-01 - понедельник
var mondayNoonUTC = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTransformer(t *testing.T, now time.Time) *usecase.ResponseTransformer {
	t.Helper()
	tr, err := usecase.NewResponseTransformer("UTC", fixedClock(now))
	require.NoError(t, err)
	return tr
}

func cairoCafe() *domain.Service {
	return &domain.Service{
		ID:       "65a1f0c2e4b0a1b2c3d4e5f6",
		Name:     "Cafe Riche",
		Category: domain.CategoryCafe,
		Location: orb.Point{31.2357, 30.0444},
		Address:  domain.Address{Full: "17 Talaat Harb, Downtown, Cairo", Country: "Egypt"},
		Hours: domain.WeeklyHours{
			Monday: &domain.DayHours{Open: "08:00", Close: "22:00"},
		},
		Rating:    4.5,
		Status:    domain.StatusActive,
		Source:    domain.SourceAdminAdded,
		Version:   3,
		CreatedBy: "admin-7",
	}
}

func TestResponseTransformer_FlattensCoordinates(t *testing.T) {
	resp := newTransformer(t, mondayNoonUTC).Transform(cairoCafe(), nil)

	assert.Equal(t, 30.0444, resp.Latitude)
	assert.Equal(t, 31.2357, resp.Longitude)
	assert.Nil(t, resp.Distance)
	assert.True(t, resp.IsOpen)
	assert.Equal(t, []string{}, resp.Features)
}

func TestResponseTransformer_NeverLeaksStorageFields(t *testing.T) {
	origin := geo.LatLng{Lat: 30.05, Lng: 31.24}
	resp := newTransformer(t, mondayNoonUTC).Transform(cairoCafe(), &origin)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, leaked := range []string{"location", "Location", "__v", "version", "Version", "createdBy", "CreatedBy"} {
		assert.NotContains(t, fields, leaked)
	}
	for _, present := range []string{"id", "latitude", "longitude", "distance", "isOpen", "address"} {
		assert.Contains(t, fields, present)
	}
}

func TestResponseTransformer_DistanceRoundedToTwoDecimals(t *testing.T) {
	alexandria := geo.LatLng{Lat: 31.2001, Lng: 29.9187}
	resp := newTransformer(t, mondayNoonUTC).Transform(cairoCafe(), &alexandria)

	require.NotNil(t, resp.Distance)
	assert.InDelta(t, 179, *resp.Distance, 2)
	assert.Equal(t, math.Round(*resp.Distance*100)/100, *resp.Distance)
}

func TestResponseTransformer_OpenStateFollowsClock(t *testing.T) {
	closedAt := time.Date(2024, 1, 1, 22, 1, 0, 0, time.UTC)
	resp := newTransformer(t, closedAt).Transform(cairoCafe(), nil)
	assert.False(t, resp.IsOpen)

	svc := cairoCafe()
	svc.Is24Hours = true
	resp = newTransformer(t, closedAt).Transform(svc, nil)
	assert.True(t, resp.IsOpen)
}

func TestResponseTransformer_UnknownRecordZoneFallsBackToDefault(t *testing.T) {
	svc := cairoCafe()
	svc.Timezone = "Mars/Olympus_Mons"

	resp := newTransformer(t, mondayNoonUTC).Transform(svc, nil)
	assert.True(t, resp.IsOpen)
}

func TestResponseTransformer_TransformAll(t *testing.T) {
	list := newTransformer(t, mondayNoonUTC).TransformAll([]*domain.Service{cairoCafe(), cairoCafe()}, nil)
	assert.Len(t, list, 2)

	empty := newTransformer(t, mondayNoonUTC).TransformAll(nil, nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNewResponseTransformer_InvalidDefaultZone(t *testing.T) {
	_, err := usecase.NewResponseTransformer("Not/AZone", nil)
	assert.Error(t, err)
}
