package mongo

import (
	"time"

	"github.com/paulmach/orb"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/service-directory/internal/domain"
)

const geoJSONPoint = "Point"

// pointDocument - GeoJSON точка, coordinates = [longitude, latitude]
type pointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

func toPointDocument(p orb.Point) pointDocument {
	return pointDocument{Type: geoJSONPoint, Coordinates: []float64{p.Lon(), p.Lat()}}
}

func (d pointDocument) point() orb.Point {
	if len(d.Coordinates) < 2 {
		return orb.Point{}
	}
	return orb.Point{d.Coordinates[0], d.Coordinates[1]}
}

// serviceDocument - запись справочника в коллекции services
type serviceDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Category    string             `bson:"category"`
	Subcategory string             `bson:"subcategory,omitempty"`
	Description string             `bson:"description,omitempty"`
	Location    pointDocument      `bson:"location"`

	Address domain.Address `bson:"address"`
	Contact domain.Contact `bson:"contact"`

	Hours        domain.WeeklyHours    `bson:"hours"`
	SpecialHours []domain.SpecialHours `bson:"specialHours,omitempty"`
	Is24Hours    bool                  `bson:"is24Hours"`
	Timezone     string                `bson:"timezone,omitempty"`

	Rating      float64 `bson:"rating"`
	ReviewCount int     `bson:"reviewCount"`
	PriceLevel  int     `bson:"priceLevel"`

	Features       []string       `bson:"features,omitempty"`
	PaymentMethods []string       `bson:"paymentMethods,omitempty"`
	Languages      []string       `bson:"languages,omitempty"`
	Images         []domain.Image `bson:"images,omitempty"`

	Verified bool   `bson:"verified"`
	Status   string `bson:"status"`
	Source   string `bson:"source"`

	CreatedBy string    `bson:"createdBy,omitempty"`
	Version   int       `bson:"__v"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toServiceDocument(svc *domain.Service) (serviceDocument, error) {
	doc := serviceDocument{
		Name:           svc.Name,
		Category:       string(svc.Category),
		Subcategory:    svc.Subcategory,
		Description:    svc.Description,
		Location:       toPointDocument(svc.Location),
		Address:        svc.Address,
		Contact:        svc.Contact,
		Hours:          svc.Hours,
		SpecialHours:   svc.SpecialHours,
		Is24Hours:      svc.Is24Hours,
		Timezone:       svc.Timezone,
		Rating:         svc.Rating,
		ReviewCount:    svc.ReviewCount,
		PriceLevel:     svc.PriceLevel,
		Features:       svc.Features,
		PaymentMethods: svc.PaymentMethods,
		Languages:      svc.Languages,
		Images:         svc.Images,
		Verified:       svc.Verified,
		Status:         string(svc.Status),
		Source:         string(svc.Source),
		CreatedBy:      svc.CreatedBy,
		Version:        svc.Version,
		CreatedAt:      svc.CreatedAt,
		UpdatedAt:      svc.UpdatedAt,
	}
	if svc.ID != "" {
		id, err := primitive.ObjectIDFromHex(svc.ID)
		if err != nil {
			return serviceDocument{}, err
		}
		doc.ID = id
	}
	return doc, nil
}

func (d serviceDocument) toDomain() *domain.Service {
	return &domain.Service{
		ID:             d.ID.Hex(),
		Name:           d.Name,
		Category:       domain.Category(d.Category),
		Subcategory:    d.Subcategory,
		Description:    d.Description,
		Location:       d.Location.point(),
		Address:        d.Address,
		Contact:        d.Contact,
		Hours:          d.Hours,
		SpecialHours:   d.SpecialHours,
		Is24Hours:      d.Is24Hours,
		Timezone:       d.Timezone,
		Rating:         d.Rating,
		ReviewCount:    d.ReviewCount,
		PriceLevel:     d.PriceLevel,
		Features:       d.Features,
		PaymentMethods: d.PaymentMethods,
		Languages:      d.Languages,
		Images:         d.Images,
		Verified:       d.Verified,
		Status:         domain.ServiceStatus(d.Status),
		Source:         domain.ServiceSource(d.Source),
		CreatedBy:      d.CreatedBy,
		Version:        d.Version,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// categoryDocument - справочная запись в коллекции categories
type categoryDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Name          string               `bson:"name"`
	DisplayName   domain.LocalizedText `bson:"displayName"`
	Description   domain.LocalizedText `bson:"description"`
	Icon          string               `bson:"icon,omitempty"`
	Color         string               `bson:"color,omitempty"`
	Subcategories []string             `bson:"subcategories,omitempty"`
	Keywords      []string             `bson:"keywords,omitempty"`
	IsActive      bool                 `bson:"isActive"`
	SortOrder     int                  `bson:"sortOrder"`
	ServiceCount  int                  `bson:"serviceCount"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d categoryDocument) toDomain() *domain.CategoryInfo {
	return &domain.CategoryInfo{
		ID:            d.ID.Hex(),
		Name:          domain.Category(d.Name),
		DisplayName:   d.DisplayName,
		Description:   d.Description,
		Icon:          d.Icon,
		Color:         d.Color,
		Subcategories: d.Subcategories,
		Keywords:      d.Keywords,
		IsActive:      d.IsActive,
		SortOrder:     d.SortOrder,
		ServiceCount:  d.ServiceCount,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
