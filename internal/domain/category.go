package domain

import "time"

// Category - фиксированный список категорий справочника
type Category string

const (
	// Еда
	CategoryRestaurant  Category = "restaurant"
	CategoryCafe        Category = "cafe"
	CategoryBakery      Category = "bakery"
	CategorySupermarket Category = "supermarket"

	// Медицина
	CategoryPharmacy   Category = "pharmacy"
	CategoryHospital   Category = "hospital"
	CategoryClinic     Category = "clinic"
	CategoryDoctor     Category = "doctor"
	CategoryDentist    Category = "dentist"
	CategoryLaboratory Category = "laboratory"

	// Профессиональные услуги
	CategoryLawyer     Category = "lawyer"
	CategoryAccountant Category = "accountant"
	CategoryEngineer   Category = "engineer"
	CategoryRealEstate Category = "real_estate"

	// Бытовые услуги
	CategoryPlumber     Category = "plumber"
	CategoryElectrician Category = "electrician"
	CategoryCarpenter   Category = "carpenter"
	CategoryMechanic    Category = "mechanic"
	CategoryGasStation  Category = "gas_station"
	CategoryBank        Category = "bank"
	CategoryATM         Category = "atm"
	CategoryLaundry     Category = "laundry"

	CategoryOther Category = "other"
)

// Categories - все допустимые категории в порядке отображения
var Categories = []Category{
	CategoryRestaurant, CategoryCafe, CategoryBakery, CategorySupermarket,
	CategoryPharmacy, CategoryHospital, CategoryClinic, CategoryDoctor, CategoryDentist, CategoryLaboratory,
	CategoryLawyer, CategoryAccountant, CategoryEngineer, CategoryRealEstate,
	CategoryPlumber, CategoryElectrician, CategoryCarpenter, CategoryMechanic,
	CategoryGasStation, CategoryBank, CategoryATM, CategoryLaundry,
	CategoryOther,
}

func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// LocalizedText - двуязычный текст (английский / арабский)
type LocalizedText struct {
	En string `json:"en" bson:"en"`
	Ar string `json:"ar" bson:"ar"`
}

// CategoryInfo - справочная запись категории
type CategoryInfo struct {
	ID            string
	Name          Category
	DisplayName   LocalizedText
	Description   LocalizedText
	Icon          string
	Color         string
	Subcategories []string
	Keywords      []string
	IsActive      bool
	SortOrder     int
	ServiceCount  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
