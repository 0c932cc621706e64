package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/pkg/geo"
	"github.com/service-directory/internal/pkg/validator"
	"github.com/service-directory/internal/usecase/dto"
	"github.com/service-directory/internal/usecase/query"
)

// StatsCacheKey - ключ статистики в кеше
const StatsCacheKey = "stats:current"

// AdminUseCase - операции записи и админский список.
// После каждой записи: сохранение -> сброс кешей -> уведомление.
type AdminUseCase struct {
	serviceRepo    repository.ServiceRepository
	cacheRepo      repository.CacheRepository
	notifier       ChangeNotifier
	transformer    *ResponseTransformer
	logger         *zap.Logger
	defaultCountry string
	now            func() time.Time
}

// NewAdminUseCase - создание нового AdminUseCase
func NewAdminUseCase(
	serviceRepo repository.ServiceRepository,
	cacheRepo repository.CacheRepository,
	notifier ChangeNotifier,
	transformer *ResponseTransformer,
	logger *zap.Logger,
	defaultCountry string,
) *AdminUseCase {
	return &AdminUseCase{
		serviceRepo:    serviceRepo,
		cacheRepo:      cacheRepo,
		notifier:       notifier,
		transformer:    transformer,
		logger:         logger,
		defaultCountry: defaultCountry,
		now:            time.Now,
	}
}

// Create валидирует запрос, применяет значения по умолчанию и сохраняет запись
func (uc *AdminUseCase) Create(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	fields := validator.Fields(req)
	if req.Latitude != nil && req.Longitude != nil {
		fields = append(fields, geo.CheckCoordinates(*req.Latitude, *req.Longitude, "latitude", "longitude")...)
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields...)
	}

	location, err := geo.ToStoragePoint(*req.Latitude, *req.Longitude)
	if err != nil {
		return nil, err
	}

	svc := newServiceFromRequest(req, location)
	if svc.Address.Country == "" {
		svc.Address.Country = uc.defaultCountry
	}

	if err := uc.serviceRepo.Create(ctx, svc); err != nil {
		return nil, uc.storageError("create", err)
	}

	uc.logger.Info("Service created",
		zap.String("id", svc.ID),
		zap.String("category", string(svc.Category)))

	uc.afterWrite(ctx, domain.ActionCreated, svc, nil)

	resp := uc.transformer.Transform(svc, nil)
	return &resp, nil
}

// List - страница админского списка (все статусы)
func (uc *AdminUseCase) List(ctx context.Context, params query.AdminListParams) (*dto.ServiceListResponse, error) {
	q, page, err := query.AdminList(params)
	if err != nil {
		return nil, err
	}

	services, err := uc.serviceRepo.Find(ctx, q)
	if err != nil {
		uc.logger.Error("Failed to list services", zap.Error(err))
		return nil, errors.Internal(err)
	}

	total, err := uc.serviceRepo.Count(ctx, q)
	if err != nil {
		uc.logger.Error("Failed to count services", zap.Error(err))
		return nil, errors.Internal(err)
	}

	return &dto.ServiceListResponse{
		Services: uc.transformer.TransformAll(services, nil),
		Total:    total,
		Page:     page.Page,
		Pages:    page.Pages(total),
	}, nil
}

// Update - частичное обновление. Если меняется хотя бы одна координата,
// итоговая пара проверяется целиком и location пересчитывается.
func (uc *AdminUseCase) Update(ctx context.Context, id string, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error) {
	fields := validator.Fields(req)

	existing, err := uc.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, uc.storageError("find", err)
	}

	var location *orb.Point
	if req.Latitude != nil || req.Longitude != nil {
		current := geo.FromStoragePoint(existing.Location)
		lat, lng := current.Lat, current.Lng
		if req.Latitude != nil {
			lat = *req.Latitude
		}
		if req.Longitude != nil {
			lng = *req.Longitude
		}
		point, err := geo.ToStoragePoint(lat, lng)
		if appErr, ok := errors.As(err); ok {
			fields = append(fields, appErr.Errors...)
		} else {
			location = &point
		}
	}
	if len(fields) > 0 {
		return nil, errors.Validation(fields...)
	}

	previous := *existing
	updated := *existing
	applyUpdate(&updated, req)
	if location != nil {
		updated.Location = *location
	}

	if err := uc.serviceRepo.Update(ctx, &updated); err != nil {
		return nil, uc.storageError("update", err)
	}

	uc.logger.Info("Service updated", zap.String("id", id))

	uc.afterWrite(ctx, domain.ActionUpdated, &updated, &previous)

	resp := uc.transformer.Transform(&updated, nil)
	return &resp, nil
}

// Delete - жесткое удаление
func (uc *AdminUseCase) Delete(ctx context.Context, id string) error {
	existing, err := uc.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return err
		}
		return uc.storageError("find", err)
	}

	if err := uc.serviceRepo.Delete(ctx, id); err != nil {
		return uc.storageError("delete", err)
	}

	uc.logger.Info("Service deleted", zap.String("id", id))

	uc.afterWrite(ctx, domain.ActionDeleted, existing, nil)
	return nil
}

// afterWrite: сброс кешей и уведомление. Ошибки здесь не отменяют уже выполненную запись.
func (uc *AdminUseCase) afterWrite(ctx context.Context, action domain.ChangeAction, svc, previous *domain.Service) {
	if err := uc.cacheRepo.DeletePrefix(ctx, NearbyCachePrefix); err != nil {
		uc.logger.Warn("Failed to invalidate nearby cache", zap.Error(err))
	}
	if err := uc.cacheRepo.Delete(ctx, StatsCacheKey); err != nil {
		uc.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
	}

	event := domain.NewServiceChangedEvent(action, svc, previous, uc.now())
	if err := uc.notifier.Notify(ctx, event); err != nil {
		uc.logger.Warn("Failed to notify service change",
			zap.String("service_id", svc.ID),
			zap.String("action", string(action)),
			zap.Error(err))
	}
}

func (uc *AdminUseCase) storageError(op string, err error) error {
	if appErr, ok := errors.As(err); ok {
		return appErr
	}
	uc.logger.Error("Storage operation failed", zap.String("op", op), zap.Error(err))
	return errors.Internal(err)
}

func newServiceFromRequest(req dto.CreateServiceRequest, location orb.Point) *domain.Service {
	svc := &domain.Service{
		Name:        strings.TrimSpace(req.Name),
		Category:    domain.Category(req.Category),
		Subcategory: req.Subcategory,
		Description: req.Description,
		Location:    location,
		Address: domain.Address{
			Full:        req.Address.Full,
			Street:      req.Address.Street,
			District:    req.Address.District,
			City:        req.Address.City,
			Governorate: req.Address.Governorate,
			PostalCode:  req.Address.PostalCode,
			Country:     req.Address.Country,
		},
		SpecialHours:   toSpecialHours(req.SpecialHours),
		Is24Hours:      req.Is24Hours,
		Timezone:       req.Timezone,
		PriceLevel:     domain.DefaultPriceLevel,
		Features:       req.Features,
		PaymentMethods: req.PaymentMethods,
		Languages:      req.Languages,
		Images:         toImages(req.Images),
		Verified:       req.Verified,
		Status:         domain.StatusActive,
		Source:         domain.SourceAdminAdded,
	}

	if req.Contact != nil {
		svc.Contact = toContact(*req.Contact)
	}
	if req.Hours != nil {
		svc.Hours = toWeeklyHours(*req.Hours)
	}
	if req.Rating != nil {
		svc.Rating = *req.Rating
	}
	if req.ReviewCount != nil {
		svc.ReviewCount = *req.ReviewCount
	}
	if req.PriceLevel != nil {
		svc.PriceLevel = *req.PriceLevel
	}
	if len(svc.Languages) == 0 {
		svc.Languages = domain.DefaultLanguages()
	}
	if req.Status != "" {
		svc.Status = domain.ServiceStatus(req.Status)
	}
	if req.Source != "" {
		svc.Source = domain.ServiceSource(req.Source)
	}
	return svc
}

func applyUpdate(svc *domain.Service, req dto.UpdateServiceRequest) {
	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		svc.Category = domain.Category(*req.Category)
	}
	if req.Subcategory != nil {
		svc.Subcategory = *req.Subcategory
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.Address != nil {
		applyAddress(&svc.Address, *req.Address)
	}
	if req.Contact != nil {
		svc.Contact = toContact(*req.Contact)
	}
	if req.Hours != nil {
		svc.Hours = toWeeklyHours(*req.Hours)
	}
	if req.SpecialHours != nil {
		svc.SpecialHours = toSpecialHours(req.SpecialHours)
	}
	if req.Is24Hours != nil {
		svc.Is24Hours = *req.Is24Hours
	}
	if req.Timezone != nil {
		svc.Timezone = *req.Timezone
	}
	if req.Rating != nil {
		svc.Rating = *req.Rating
	}
	if req.ReviewCount != nil {
		svc.ReviewCount = *req.ReviewCount
	}
	if req.PriceLevel != nil {
		svc.PriceLevel = *req.PriceLevel
	}
	if req.Features != nil {
		svc.Features = req.Features
	}
	if req.PaymentMethods != nil {
		svc.PaymentMethods = req.PaymentMethods
	}
	if req.Languages != nil {
		svc.Languages = req.Languages
	}
	if req.Images != nil {
		svc.Images = toImages(req.Images)
	}
	if req.Verified != nil {
		svc.Verified = *req.Verified
	}
	if req.Status != nil {
		svc.Status = domain.ServiceStatus(*req.Status)
	}
	if req.Source != nil {
		svc.Source = domain.ServiceSource(*req.Source)
	}
}

func applyAddress(addr *domain.Address, patch dto.AddressPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&addr.Full, patch.Full)
	set(&addr.Street, patch.Street)
	set(&addr.District, patch.District)
	set(&addr.City, patch.City)
	set(&addr.Governorate, patch.Governorate)
	set(&addr.PostalCode, patch.PostalCode)
	set(&addr.Country, patch.Country)
}

func toContact(in dto.ContactInput) domain.Contact {
	return domain.Contact{
		Phone:    in.Phone,
		Mobile:   in.Mobile,
		WhatsApp: in.WhatsApp,
		Email:    in.Email,
		Website:  in.Website,
	}
}

func toDayHours(in *dto.DayHoursInput) *domain.DayHours {
	if in == nil {
		return nil
	}
	if in.Closed {
		return &domain.DayHours{Closed: true}
	}
	return &domain.DayHours{Open: in.Open, Close: in.Close}
}

func toWeeklyHours(in dto.WeeklyHoursInput) domain.WeeklyHours {
	return domain.WeeklyHours{
		Sunday:    toDayHours(in.Sunday),
		Monday:    toDayHours(in.Monday),
		Tuesday:   toDayHours(in.Tuesday),
		Wednesday: toDayHours(in.Wednesday),
		Thursday:  toDayHours(in.Thursday),
		Friday:    toDayHours(in.Friday),
		Saturday:  toDayHours(in.Saturday),
	}
}

func toSpecialHours(in []dto.SpecialHoursInput) []domain.SpecialHours {
	if in == nil {
		return nil
	}
	out := make([]domain.SpecialHours, 0, len(in))
	for _, sh := range in {
		out = append(out, domain.SpecialHours{
			Date:   sh.Date,
			Open:   sh.Open,
			Close:  sh.Close,
			Closed: sh.Closed,
			Note:   sh.Note,
		})
	}
	return out
}

func toImages(in []dto.ImageInput) []domain.Image {
	if in == nil {
		return nil
	}
	out := make([]domain.Image, 0, len(in))
	for _, img := range in {
		out = append(out, domain.Image{URL: img.URL, Caption: img.Caption, IsPrimary: img.IsPrimary})
	}
	return out
}
