package dto

// AddressInput - адрес в запросе на создание
type AddressInput struct {
	Full        string `json:"full" validate:"required,notblank,max=500"`
	Street      string `json:"street,omitempty" validate:"omitempty,max=200"`
	District    string `json:"district,omitempty" validate:"omitempty,max=100"`
	City        string `json:"city,omitempty" validate:"omitempty,max=100"`
	Governorate string `json:"governorate,omitempty" validate:"omitempty,max=100"`
	PostalCode  string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country     string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// AddressPatch - частичное обновление адреса; nil поля не меняются
type AddressPatch struct {
	Full        *string `json:"full,omitempty" validate:"omitempty,notblank,max=500"`
	Street      *string `json:"street,omitempty" validate:"omitempty,max=200"`
	District    *string `json:"district,omitempty" validate:"omitempty,max=100"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Governorate *string `json:"governorate,omitempty" validate:"omitempty,max=100"`
	PostalCode  *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country     *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// ContactInput - контакты; email проверяется синтаксически
type ContactInput struct {
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Mobile   string `json:"mobile,omitempty" validate:"omitempty,max=30"`
	WhatsApp string `json:"whatsapp,omitempty" validate:"omitempty,max=30"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Website  string `json:"website,omitempty" validate:"omitempty,url"`
}

// DayHoursInput - часы работы на день; open/close обязательны, если день не закрыт
type DayHoursInput struct {
	Open   string `json:"open,omitempty" validate:"required_unless=Closed true,hhmm"`
	Close  string `json:"close,omitempty" validate:"required_unless=Closed true,hhmm"`
	Closed bool   `json:"closed"`
}

// WeeklyHoursInput - расписание по дням недели
type WeeklyHoursInput struct {
	Sunday    *DayHoursInput `json:"sunday,omitempty"`
	Monday    *DayHoursInput `json:"monday,omitempty"`
	Tuesday   *DayHoursInput `json:"tuesday,omitempty"`
	Wednesday *DayHoursInput `json:"wednesday,omitempty"`
	Thursday  *DayHoursInput `json:"thursday,omitempty"`
	Friday    *DayHoursInput `json:"friday,omitempty"`
	Saturday  *DayHoursInput `json:"saturday,omitempty"`
}

// SpecialHoursInput - переопределение на дату
type SpecialHoursInput struct {
	Date   string `json:"date" validate:"required,ymd"`
	Open   string `json:"open,omitempty" validate:"required_unless=Closed true,hhmm"`
	Close  string `json:"close,omitempty" validate:"required_unless=Closed true,hhmm"`
	Closed bool   `json:"closed"`
	Note   string `json:"note,omitempty" validate:"omitempty,max=200"`
}

// ImageInput - изображение
type ImageInput struct {
	URL       string `json:"url" validate:"required,url"`
	Caption   string `json:"caption,omitempty" validate:"omitempty,max=200"`
	IsPrimary bool   `json:"isPrimary,omitempty"`
}

// CreateServiceRequest - тело POST /admin/services
type CreateServiceRequest struct {
	Name        string   `json:"name" validate:"required,notblank,max=200"`
	Category    string   `json:"category" validate:"required,category"`
	Subcategory string   `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	Description string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Latitude    *float64 `json:"latitude" validate:"required"`
	Longitude   *float64 `json:"longitude" validate:"required"`

	Address AddressInput  `json:"address"`
	Contact *ContactInput `json:"contact,omitempty"`

	Hours        *WeeklyHoursInput   `json:"hours,omitempty"`
	SpecialHours []SpecialHoursInput `json:"specialHours,omitempty" validate:"omitempty,dive"`
	Is24Hours    bool                `json:"is24Hours"`
	Timezone     string              `json:"timezone,omitempty" validate:"omitempty,timezone"`

	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	ReviewCount *int     `json:"reviewCount,omitempty" validate:"omitempty,min=0"`
	PriceLevel  *int     `json:"priceLevel,omitempty" validate:"omitempty,min=1,max=4"`

	Features       []string     `json:"features,omitempty" validate:"omitempty,dive,max=100"`
	PaymentMethods []string     `json:"paymentMethods,omitempty" validate:"omitempty,dive,max=50"`
	Languages      []string     `json:"languages,omitempty" validate:"omitempty,dive,max=50"`
	Images         []ImageInput `json:"images,omitempty" validate:"omitempty,dive"`

	Verified bool   `json:"verified"`
	Status   string `json:"status,omitempty" validate:"omitempty,service_status"`
	Source   string `json:"source,omitempty" validate:"omitempty,service_source"`
}

// UpdateServiceRequest - тело PUT /admin/services/:id; nil поля не меняются
type UpdateServiceRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,notblank,max=200"`
	Category    *string  `json:"category,omitempty" validate:"omitempty,category"`
	Subcategory *string  `json:"subcategory,omitempty" validate:"omitempty,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`

	Address *AddressPatch `json:"address,omitempty"`
	Contact *ContactInput `json:"contact,omitempty"`

	Hours        *WeeklyHoursInput   `json:"hours,omitempty"`
	SpecialHours []SpecialHoursInput `json:"specialHours,omitempty" validate:"omitempty,dive"`
	Is24Hours    *bool               `json:"is24Hours,omitempty"`
	Timezone     *string             `json:"timezone,omitempty" validate:"omitempty,timezone"`

	Rating      *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	ReviewCount *int     `json:"reviewCount,omitempty" validate:"omitempty,min=0"`
	PriceLevel  *int     `json:"priceLevel,omitempty" validate:"omitempty,min=1,max=4"`

	Features       []string     `json:"features,omitempty" validate:"omitempty,dive,max=100"`
	PaymentMethods []string     `json:"paymentMethods,omitempty" validate:"omitempty,dive,max=50"`
	Languages      []string     `json:"languages,omitempty" validate:"omitempty,dive,max=50"`
	Images         []ImageInput `json:"images,omitempty" validate:"omitempty,dive"`

	Verified *bool   `json:"verified,omitempty"`
	Status   *string `json:"status,omitempty" validate:"omitempty,service_status"`
	Source   *string `json:"source,omitempty" validate:"omitempty,service_source"`
}
