package usecase

import (
	"math"
	"sync"
	"time"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/pkg/geo"
	"github.com/service-directory/internal/usecase/dto"
)

// ResponseTransformer приводит записи хранилища к публичному виду:
// плоские координаты, расстояние до origin, флаг isOpen.
type ResponseTransformer struct {
	now         func() time.Time
	defaultZone *time.Location

	zones sync.Map // string -> *time.Location
}

// NewResponseTransformer создает трансформер. defaultTimezone используется для записей без
// собственного часового пояса. now - источник текущего времени (nil = time.Now).
func NewResponseTransformer(defaultTimezone string, now func() time.Time) (*ResponseTransformer, error) {
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &ResponseTransformer{
		now:         now,
		defaultZone: loc,
	}, nil
}

// Transform - одна запись. origin == nil означает, что расстояние не считается.
func (t *ResponseTransformer) Transform(svc *domain.Service, origin *geo.LatLng) dto.ServiceResponse {
	point := geo.FromStoragePoint(svc.Location)

	resp := dto.ServiceResponse{
		ID:             svc.ID,
		Name:           svc.Name,
		Category:       svc.Category,
		Subcategory:    svc.Subcategory,
		Description:    svc.Description,
		Latitude:       point.Lat,
		Longitude:      point.Lng,
		IsOpen:         svc.IsOpenAt(t.now(), t.zone(svc.Timezone)),
		Address:        svc.Address,
		Contact:        svc.Contact,
		Hours:          svc.Hours,
		SpecialHours:   svc.SpecialHours,
		Is24Hours:      svc.Is24Hours,
		Timezone:       svc.Timezone,
		Rating:         svc.Rating,
		ReviewCount:    svc.ReviewCount,
		PriceLevel:     svc.PriceLevel,
		Features:       nonNil(svc.Features),
		PaymentMethods: nonNil(svc.PaymentMethods),
		Languages:      nonNil(svc.Languages),
		Images:         svc.Images,
		Verified:       svc.Verified,
		Status:         svc.Status,
		Source:         svc.Source,
		CreatedAt:      svc.CreatedAt,
		UpdatedAt:      svc.UpdatedAt,
	}
	if resp.Images == nil {
		resp.Images = []domain.Image{}
	}

	if origin != nil {
		d := roundKm(geo.Distance(*origin, point))
		resp.Distance = &d
	}

	return resp
}

// TransformAll - список записей
func (t *ResponseTransformer) TransformAll(services []*domain.Service, origin *geo.LatLng) []dto.ServiceResponse {
	result := make([]dto.ServiceResponse, 0, len(services))
	for _, svc := range services {
		result = append(result, t.Transform(svc, origin))
	}
	return result
}

func (t *ResponseTransformer) zone(name string) *time.Location {
	if name == "" {
		return t.defaultZone
	}
	if loc, ok := t.zones.Load(name); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return t.defaultZone
	}
	t.zones.Store(name, loc)
	return loc
}

// roundKm округляет до двух знаков
func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
