package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/paulmach/orb"

	"github.com/service-directory/internal/domain"
)

// jsonb - значение, хранящееся в колонке JSONB
type jsonb[T any] struct {
	V T
}

func (j jsonb[T]) Value() (driver.Value, error) {
	data, err := json.Marshal(j.V)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (j *jsonb[T]) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("jsonb: unsupported source type %T", src)
	}
	return json.Unmarshal(data, &j.V)
}

// serviceRow - строка таблицы services
type serviceRow struct {
	ID             string                       `db:"id"`
	Name           string                       `db:"name"`
	Category       string                       `db:"category"`
	Subcategory    string                       `db:"subcategory"`
	Description    string                       `db:"description"`
	Lat            float64                      `db:"lat"`
	Lng            float64                      `db:"lng"`
	Address        jsonb[domain.Address]        `db:"address"`
	Contact        jsonb[domain.Contact]        `db:"contact"`
	Hours          jsonb[domain.WeeklyHours]    `db:"hours"`
	SpecialHours   jsonb[[]domain.SpecialHours] `db:"special_hours"`
	Is24Hours      bool                         `db:"is_24_hours"`
	Timezone       string                       `db:"timezone"`
	Rating         float64                      `db:"rating"`
	ReviewCount    int                          `db:"review_count"`
	PriceLevel     int                          `db:"price_level"`
	Features       pq.StringArray               `db:"features"`
	PaymentMethods pq.StringArray               `db:"payment_methods"`
	Languages      pq.StringArray               `db:"languages"`
	Images         jsonb[[]domain.Image]        `db:"images"`
	Verified       bool                         `db:"verified"`
	Status         string                       `db:"status"`
	Source         string                       `db:"source"`
	CreatedBy      string                       `db:"created_by"`
	Version        int                          `db:"version"`
	CreatedAt      time.Time                    `db:"created_at"`
	UpdatedAt      time.Time                    `db:"updated_at"`
}

func (r *serviceRow) toDomain() *domain.Service {
	return &domain.Service{
		ID:             r.ID,
		Name:           r.Name,
		Category:       domain.Category(r.Category),
		Subcategory:    r.Subcategory,
		Description:    r.Description,
		Location:       orb.Point{r.Lng, r.Lat},
		Address:        r.Address.V,
		Contact:        r.Contact.V,
		Hours:          r.Hours.V,
		SpecialHours:   r.SpecialHours.V,
		Is24Hours:      r.Is24Hours,
		Timezone:       r.Timezone,
		Rating:         r.Rating,
		ReviewCount:    r.ReviewCount,
		PriceLevel:     r.PriceLevel,
		Features:       []string(r.Features),
		PaymentMethods: []string(r.PaymentMethods),
		Languages:      []string(r.Languages),
		Images:         r.Images.V,
		Verified:       r.Verified,
		Status:         domain.ServiceStatus(r.Status),
		Source:         domain.ServiceSource(r.Source),
		CreatedBy:      r.CreatedBy,
		Version:        r.Version,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

// writeArgs - значения колонок для INSERT / UPDATE (без id и created_at).
// Порядок совпадает с параметрами insertServiceSQL / updateServiceSQL.
func writeArgs(svc *domain.Service) []interface{} {
	return []interface{}{
		svc.Name,
		string(svc.Category),
		svc.Subcategory,
		svc.Description,
		svc.Location.Lon(),
		svc.Location.Lat(),
		jsonb[domain.Address]{V: svc.Address},
		jsonb[domain.Contact]{V: svc.Contact},
		jsonb[domain.WeeklyHours]{V: svc.Hours},
		jsonb[[]domain.SpecialHours]{V: nonNil(svc.SpecialHours)},
		svc.Is24Hours,
		svc.Timezone,
		svc.Rating,
		svc.ReviewCount,
		svc.PriceLevel,
		pq.Array(nonNil(svc.Features)),
		pq.Array(nonNil(svc.PaymentMethods)),
		pq.Array(nonNil(svc.Languages)),
		jsonb[[]domain.Image]{V: nonNil(svc.Images)},
		svc.Verified,
		string(svc.Status),
		string(svc.Source),
		svc.CreatedBy,
		svc.Version,
		svc.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// categoryRow - строка таблицы categories
type categoryRow struct {
	ID            string         `db:"id"`
	Name          string         `db:"name"`
	DisplayNameEn string         `db:"display_name_en"`
	DisplayNameAr string         `db:"display_name_ar"`
	DescriptionEn string         `db:"description_en"`
	DescriptionAr string         `db:"description_ar"`
	Icon          string         `db:"icon"`
	Color         string         `db:"color"`
	Subcategories pq.StringArray `db:"subcategories"`
	Keywords      pq.StringArray `db:"keywords"`
	IsActive      bool           `db:"is_active"`
	SortOrder     int            `db:"sort_order"`
	ServiceCount  int            `db:"service_count"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r *categoryRow) toDomain() *domain.CategoryInfo {
	return &domain.CategoryInfo{
		ID:            r.ID,
		Name:          domain.Category(r.Name),
		DisplayName:   domain.LocalizedText{En: r.DisplayNameEn, Ar: r.DisplayNameAr},
		Description:   domain.LocalizedText{En: r.DescriptionEn, Ar: r.DescriptionAr},
		Icon:          r.Icon,
		Color:         r.Color,
		Subcategories: []string(r.Subcategories),
		Keywords:      []string(r.Keywords),
		IsActive:      r.IsActive,
		SortOrder:     r.SortOrder,
		ServiceCount:  r.ServiceCount,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}
