package dto

import (
	"time"

	"github.com/service-directory/internal/domain"
)

// ServiceResponse - публичное представление записи.
// Координаты отдаются плоскими полями, служебные поля хранилища не попадают в ответ.
type ServiceResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    domain.Category `json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Description string          `json:"description,omitempty"`

	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Distance  *float64 `json:"distance,omitempty"` // km
	IsOpen    bool     `json:"isOpen"`

	Address domain.Address `json:"address"`
	Contact domain.Contact `json:"contact"`

	Hours        domain.WeeklyHours    `json:"hours"`
	SpecialHours []domain.SpecialHours `json:"specialHours,omitempty"`
	Is24Hours    bool                  `json:"is24Hours"`
	Timezone     string                `json:"timezone,omitempty"`

	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"reviewCount"`
	PriceLevel  int     `json:"priceLevel"`

	Features       []string       `json:"features"`
	PaymentMethods []string       `json:"paymentMethods"`
	Languages      []string       `json:"languages"`
	Images         []domain.Image `json:"images"`

	Verified bool                 `json:"verified"`
	Status   domain.ServiceStatus `json:"status"`
	Source   domain.ServiceSource `json:"source"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceListResponse - страница админского списка
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
}

// CategoryResponse - справочная запись категории
type CategoryResponse struct {
	ID            string               `json:"id"`
	Name          domain.Category      `json:"name"`
	DisplayName   domain.LocalizedText `json:"displayName"`
	Description   domain.LocalizedText `json:"description"`
	Icon          string               `json:"icon,omitempty"`
	Color         string               `json:"color,omitempty"`
	Subcategories []string             `json:"subcategories"`
	Keywords      []string             `json:"keywords,omitempty"`
	SortOrder     int                  `json:"sortOrder"`
	ServiceCount  int                  `json:"serviceCount"`
}

// ToCategoryResponse - конвертация справочной записи
func ToCategoryResponse(c *domain.CategoryInfo) CategoryResponse {
	subcategories := c.Subcategories
	if subcategories == nil {
		subcategories = []string{}
	}
	return CategoryResponse{
		ID:            c.ID,
		Name:          c.Name,
		DisplayName:   c.DisplayName,
		Description:   c.Description,
		Icon:          c.Icon,
		Color:         c.Color,
		Subcategories: subcategories,
		Keywords:      c.Keywords,
		SortOrder:     c.SortOrder,
		ServiceCount:  c.ServiceCount,
	}
}

// HealthResponse - ответ /health
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	Environment    string    `json:"environment"`
	StorageDriver  string    `json:"storageDriver"`
	AllowedOrigins []string  `json:"allowedOrigins"`
}
