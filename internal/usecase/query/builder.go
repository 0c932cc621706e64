// Package query переводит параметры запросов в repository.ServiceQuery.
// Все проверки выполняются за один проход: ошибка перечисляет каждое невалидное поле.
package query

import (
	"strconv"
	"strings"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/pkg/geo"
)

const (
	MinRadius           = 100
	MaxRadius           = 50000
	DefaultNearbyRadius = 5000
	DefaultSearchRadius = 10000

	MinLimit     = 1
	MaxLimit     = 100
	DefaultLimit = 20

	DefaultPage = 1
	// MaxPage держит (page-1)*limit далеко от переполнения int64
	MaxPage = 1_000_000
)

// NearbyParams - сырые параметры /services/nearby
type NearbyParams struct {
	Lat      string
	Lng      string
	Radius   string
	Category string
	Limit    string
}

// SearchParams - сырые параметры /services/search
type SearchParams struct {
	Q      string
	Lat    string
	Lng    string
	Radius string
	Limit  string
}

// CategoryParams - сырые параметры /services/category/:category
type CategoryParams struct {
	Category string
	Lat      string
	Lng      string
	Radius   string
	Limit    string
}

// AdminListParams - сырые параметры админского списка
type AdminListParams struct {
	Page      string
	Limit     string
	Status    string
	Category  string
	Search    string
	SortBy    string
	SortOrder string
}

// Page - разрешенная пагинация админского списка
type Page struct {
	Page  int
	Limit int
}

// Pages - число страниц для total записей
func (p Page) Pages(total int64) int {
	if total <= 0 {
		return 0
	}
	limit := int64(p.Limit)
	return int((total + limit - 1) / limit)
}

var publicTextFields = []repository.TextField{
	repository.TextName,
	repository.TextSubcategory,
	repository.TextDescription,
	repository.TextAddress,
}

var adminTextFields = []repository.TextField{
	repository.TextName,
	repository.TextAddress,
	repository.TextDescription,
}

// Nearby: активные записи в радиусе от точки, ближние первыми
func Nearby(p NearbyParams) (repository.ServiceQuery, error) {
	var v collector

	point := v.requiredPoint(p.Lat, p.Lng)
	radius := v.intInRange("radius", p.Radius, DefaultNearbyRadius, MinRadius, MaxRadius)
	limit := v.intInRange("limit", p.Limit, DefaultLimit, MinLimit, MaxLimit)
	category := v.optionalCategory(p.Category)

	if err := v.err(); err != nil {
		return repository.ServiceQuery{}, err
	}

	return repository.ServiceQuery{
		Near:     &repository.GeoNear{Point: *point, RadiusMeters: float64(radius)},
		Status:   domain.StatusActive,
		Category: category,
		Limit:    int64(limit),
	}, nil
}

// Search: подстрока без учета регистра; точка опциональна
func Search(p SearchParams) (repository.ServiceQuery, error) {
	var v collector

	text := strings.TrimSpace(p.Q)
	if text == "" {
		v.add("q", "is required")
	}
	point := v.optionalPoint(p.Lat, p.Lng)
	radius := v.intInRange("radius", p.Radius, DefaultSearchRadius, MinRadius, MaxRadius)
	limit := v.intInRange("limit", p.Limit, DefaultLimit, MinLimit, MaxLimit)

	if err := v.err(); err != nil {
		return repository.ServiceQuery{}, err
	}

	q := repository.ServiceQuery{
		Status:     domain.StatusActive,
		Text:       text,
		TextFields: publicTextFields,
		Limit:      int64(limit),
	}
	if point != nil {
		q.Near = &repository.GeoNear{Point: *point, RadiusMeters: float64(radius)}
	} else {
		q.Sort = []repository.SortField{
			{Key: repository.SortRating, Desc: true},
			{Key: repository.SortName},
		}
	}
	return q, nil
}

// ByCategory: активные записи категории, опционально рядом с точкой
func ByCategory(p CategoryParams) (repository.ServiceQuery, error) {
	var v collector

	category := v.requiredCategory(p.Category)
	point := v.optionalPoint(p.Lat, p.Lng)
	radius := v.intInRange("radius", p.Radius, DefaultSearchRadius, MinRadius, MaxRadius)
	limit := v.intInRange("limit", p.Limit, DefaultLimit, MinLimit, MaxLimit)

	if err := v.err(); err != nil {
		return repository.ServiceQuery{}, err
	}

	q := repository.ServiceQuery{
		Status:   domain.StatusActive,
		Category: category,
		Limit:    int64(limit),
	}
	if point != nil {
		q.Near = &repository.GeoNear{Point: *point, RadiusMeters: float64(radius)}
	} else {
		q.Sort = []repository.SortField{
			{Key: repository.SortRating, Desc: true},
			{Key: repository.SortName},
		}
	}
	return q, nil
}

// AdminList: все статусы, точные фильтры, пагинация и сортировка по allow-list
func AdminList(p AdminListParams) (repository.ServiceQuery, Page, error) {
	var v collector

	page := v.intInRange("page", p.Page, DefaultPage, 1, MaxPage)
	limit := v.intInRange("limit", p.Limit, DefaultLimit, MinLimit, MaxLimit)

	var status domain.ServiceStatus
	if s := strings.TrimSpace(p.Status); s != "" {
		status = domain.ServiceStatus(s)
		if !status.IsValid() {
			v.add("status", "must be one of: active, pending, closed, suspended")
		}
	}
	category := v.optionalCategory(p.Category)

	sortKey := repository.SortCreatedAt
	if s := strings.TrimSpace(p.SortBy); s != "" {
		sortKey = repository.SortKey(s)
		if !sortKey.IsValid() {
			v.add("sortBy", "must be one of: name, category, createdAt, rating, status")
		}
	}

	desc := true
	switch strings.TrimSpace(p.SortOrder) {
	case "", "desc":
	case "asc":
		desc = false
	default:
		v.add("sortOrder", "must be one of: asc, desc")
	}

	if err := v.err(); err != nil {
		return repository.ServiceQuery{}, Page{}, err
	}

	q := repository.ServiceQuery{
		Status:     status,
		Category:   category,
		Text:       strings.TrimSpace(p.Search),
		TextFields: adminTextFields,
		Sort: []repository.SortField{
			{Key: sortKey, Desc: desc},
			{Key: repository.SortID, Desc: desc},
		},
		Skip:  int64(page-1) * int64(limit),
		Limit: int64(limit),
	}
	return q, Page{Page: page, Limit: limit}, nil
}

// collector копит ошибки полей
type collector struct {
	fields []apperrors.FieldError
}

func (c *collector) add(field, message string) {
	c.fields = append(c.fields, apperrors.FieldError{Field: field, Message: message})
}

func (c *collector) addAll(fields []apperrors.FieldError) {
	c.fields = append(c.fields, fields...)
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return apperrors.Validation(c.fields...)
}

// intInRange разбирает целое; пустое значение -> def. max <= 0 означает отсутствие верхней границы.
func (c *collector) intInRange(field, raw string, def, min, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.add(field, "must be an integer")
		return def
	}
	if n < min {
		c.add(field, "must be greater than or equal to "+strconv.Itoa(min))
		return def
	}
	if max > 0 && n > max {
		c.add(field, "must be less than or equal to "+strconv.Itoa(max))
		return def
	}
	return n
}

func (c *collector) float(field, raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		c.add(field, "must be a number")
		return 0, false
	}
	return f, true
}

func (c *collector) requiredPoint(rawLat, rawLng string) *geo.LatLng {
	missing := false
	if strings.TrimSpace(rawLat) == "" {
		c.add("lat", "is required")
		missing = true
	}
	if strings.TrimSpace(rawLng) == "" {
		c.add("lng", "is required")
		missing = true
	}
	if missing {
		return nil
	}
	return c.point(rawLat, rawLng)
}

// optionalPoint: lat и lng передаются только парой
func (c *collector) optionalPoint(rawLat, rawLng string) *geo.LatLng {
	hasLat := strings.TrimSpace(rawLat) != ""
	hasLng := strings.TrimSpace(rawLng) != ""
	switch {
	case !hasLat && !hasLng:
		return nil
	case !hasLat:
		c.add("lat", "is required when lng is provided")
		return nil
	case !hasLng:
		c.add("lng", "is required when lat is provided")
		return nil
	}
	return c.point(rawLat, rawLng)
}

func (c *collector) point(rawLat, rawLng string) *geo.LatLng {
	lat, okLat := c.float("lat", rawLat)
	lng, okLng := c.float("lng", rawLng)
	if !okLat || !okLng {
		return nil
	}
	if fields := geo.CheckCoordinates(lat, lng, "lat", "lng"); len(fields) > 0 {
		c.addAll(fields)
		return nil
	}
	return &geo.LatLng{Lat: lat, Lng: lng}
}

func (c *collector) optionalCategory(raw string) domain.Category {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	category := domain.Category(raw)
	if !category.IsValid() {
		c.add("category", "must be a valid category")
	}
	return category
}

func (c *collector) requiredCategory(raw string) domain.Category {
	if strings.TrimSpace(raw) == "" {
		c.add("category", "is required")
		return ""
	}
	return c.optionalCategory(raw)
}
