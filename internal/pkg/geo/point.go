package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	apperrors "github.com/service-directory/internal/pkg/errors"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// LatLng - координаты во внешнем (API) представлении
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToStoragePoint переводит {lat, lng} в GeoJSON точку [lng, lat].
// Порядок осей в хранилище всегда долгота, широта.
func ToStoragePoint(lat, lng float64) (orb.Point, error) {
	if fields := CheckCoordinates(lat, lng, "latitude", "longitude"); len(fields) > 0 {
		return orb.Point{}, apperrors.Validation(fields...)
	}
	return orb.Point{lng, lat}, nil
}

// FromStoragePoint - обратное преобразование GeoJSON точки в {lat, lng}
func FromStoragePoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// CheckCoordinates проверяет пару координат и возвращает ошибки по каждому полю.
// Имена полей передаются снаружи: в query это lat/lng, в теле latitude/longitude.
func CheckCoordinates(lat, lng float64, latField, lngField string) []apperrors.FieldError {
	var fields []apperrors.FieldError
	if fe := checkAxis(lat, latField, MinLatitude, MaxLatitude); fe != nil {
		fields = append(fields, *fe)
	}
	if fe := checkAxis(lng, lngField, MinLongitude, MaxLongitude); fe != nil {
		fields = append(fields, *fe)
	}
	return fields
}

// ValidCoordinates - быстрая проверка без деталей
func ValidCoordinates(lat, lng float64) bool {
	return len(CheckCoordinates(lat, lng, "lat", "lng")) == 0
}

func checkAxis(v float64, field string, min, max float64) *apperrors.FieldError {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &apperrors.FieldError{Field: field, Message: "must be a finite number"}
	case v < min:
		return &apperrors.FieldError{Field: field, Message: fmt.Sprintf("must be greater than or equal to %g", min)}
	case v > max:
		return &apperrors.FieldError{Field: field, Message: fmt.Sprintf("must be less than or equal to %g", max)}
	}
	return nil
}
