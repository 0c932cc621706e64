package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// ServiceStatus - жизненный цикл записи; публично доступны только active
type ServiceStatus string

const (
	StatusActive    ServiceStatus = "active"
	StatusPending   ServiceStatus = "pending"
	StatusClosed    ServiceStatus = "closed"
	StatusSuspended ServiceStatus = "suspended"
)

// ServiceStatuses - все допустимые статусы
var ServiceStatuses = []ServiceStatus{StatusActive, StatusPending, StatusClosed, StatusSuspended}

func (s ServiceStatus) IsValid() bool {
	for _, v := range ServiceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ServiceSource - происхождение записи
type ServiceSource string

const (
	SourceAdminAdded    ServiceSource = "admin_added"
	SourceUserSubmitted ServiceSource = "user_submitted"
	SourceImported      ServiceSource = "imported"
)

var ServiceSources = []ServiceSource{SourceAdminAdded, SourceUserSubmitted, SourceImported}

func (s ServiceSource) IsValid() bool {
	for _, v := range ServiceSources {
		if s == v {
			return true
		}
	}
	return false
}

const (
	DefaultPriceLevel = 2

	LanguageArabic  = "arabic"
	LanguageEnglish = "english"
)

// DefaultLanguages - языки обслуживания по умолчанию
func DefaultLanguages() []string {
	return []string{LanguageArabic, LanguageEnglish}
}

// Service - запись справочника (бизнес / услуга)
type Service struct {
	ID          string
	Name        string
	Category    Category
	Subcategory string
	Description string

	// Location хранится как GeoJSON точка: [longitude, latitude]
	Location orb.Point

	Address Address
	Contact Contact

	Hours        WeeklyHours
	SpecialHours []SpecialHours
	Is24Hours    bool
	Timezone     string

	Rating      float64
	ReviewCount int
	PriceLevel  int

	Features       []string
	PaymentMethods []string
	Languages      []string
	Images         []Image

	Verified bool
	Status   ServiceStatus
	Source   ServiceSource

	// Служебные поля хранилища, наружу не отдаются
	Version   int
	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPublic - запись видна в публичных запросах
func (s *Service) IsPublic() bool {
	return s.Status == StatusActive
}

// Address - структурированный адрес; Full обязателен
type Address struct {
	Full        string `json:"full" bson:"full"`
	Street      string `json:"street,omitempty" bson:"street,omitempty"`
	District    string `json:"district,omitempty" bson:"district,omitempty"`
	City        string `json:"city,omitempty" bson:"city,omitempty"`
	Governorate string `json:"governorate,omitempty" bson:"governorate,omitempty"`
	PostalCode  string `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	Country     string `json:"country,omitempty" bson:"country,omitempty"`
}

// Contact - контакты, все поля опциональны
type Contact struct {
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Mobile   string `json:"mobile,omitempty" bson:"mobile,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	Email    string `json:"email,omitempty" bson:"email,omitempty"`
	Website  string `json:"website,omitempty" bson:"website,omitempty"`
}

// Image - изображение записи
type Image struct {
	URL       string `json:"url" bson:"url"`
	Caption   string `json:"caption,omitempty" bson:"caption,omitempty"`
	IsPrimary bool   `json:"isPrimary,omitempty" bson:"isPrimary,omitempty"`
}
