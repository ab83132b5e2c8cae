package quote_price

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	geoClient "github.com/bindrop/BDR-RentalService/internal/integrations/geoservice"
	"github.com/bindrop/BDR-RentalService/internal/service/catalog"
)

// UseCase use case предпросмотра цены бронирования
type UseCase struct {
	catalog   Catalog
	geoClient GeoServiceClient
	logger    Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(catalog Catalog, geoClient GeoServiceClient, logger Logger) *UseCase {
	return &UseCase{
		catalog:   catalog,
		geoClient: geoClient,
		logger:    logger,
	}
}

// Execute выполняет use case расчёта цены
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("QuotePrice: service=%d, insurance=%v, boards=%v, equipment=%d",
		req.ServiceID, req.Insurance, req.DrivewayBoards, len(req.Equipment))

	// 1. Валидация входных данных
	if req.ServiceID <= 0 {
		return nil, fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	// 2. Получаем услугу из каталога
	svc, err := uc.catalog.GetService(req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("QuotePrice: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("QuotePrice: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Собираем выбранное оборудование
	addons, err := uc.buildAddons(req)
	if err != nil {
		return nil, err
	}

	// 4. Считаем надбавку за расстояние (только для услуг с доставкой)
	distance, degraded, err := uc.resolveDistance(ctx, svc, req.Address)
	if err != nil {
		return nil, err
	}

	// 5. Считаем цену чистой функцией
	quote := domain.ComputeQuote(svc, req.DropOffDate, req.PickupDate, addons, distance)

	uc.logger.Info("QuotePrice: service=%d total=%s days=%d fallback=%v degraded=%v",
		req.ServiceID, quote.Total.StringFixed(2), quote.DurationDays, quote.Fallback, degraded)
	return fromDomainQuote(quote, degraded), nil
}

// buildAddons конвертирует позиции запроса в выбор дополнений
func (uc *UseCase) buildAddons(req *Request) (domain.AddOnSelection, error) {
	addons := domain.AddOnSelection{
		Insurance:      req.Insurance,
		DrivewayBoards: req.DrivewayBoards,
	}

	for _, item := range req.Equipment {
		if item.Quantity <= 0 || item.Quantity > domain.MaxEquipmentQuantity {
			return addons, fmt.Errorf("%w: equipment quantity out of range", ErrInvalidInput)
		}
		eq, err := uc.catalog.GetEquipmentType(item.Type)
		if err != nil {
			uc.logger.Warn("QuotePrice: unknown equipment type %q", item.Type)
			return addons, fmt.Errorf("%w: %s", ErrEquipmentNotFound, item.Type)
		}
		addons.Equipment = append(addons.Equipment, domain.EquipmentSelection{
			Type:     *eq,
			Quantity: item.Quantity,
		})
	}

	return addons, nil
}

// resolveDistance рассчитывает надбавку за расстояние доставки
// Недоступность геосервиса не срывает предпросмотр: надбавка
// пропускается, а ответ помечается как деградировавший
func (uc *UseCase) resolveDistance(ctx context.Context, svc *domain.Service, addr *Address) (*domain.DistanceSurcharge, bool, error) {
	if addr == nil || svc.RentalModel != domain.RentalStaffDelivered {
		return nil, false, nil
	}

	result, err := uc.geoClient.ResolveDistanceWithGracefulDegradation(ctx, &geoClient.DistanceRequest{
		Address: addr.Street,
		City:    addr.City,
		ZipCode: addr.ZipCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, geoClient.ErrAddressNotFound):
			return nil, false, ErrAddressNotFound
		case errors.Is(err, geoClient.ErrOutOfServiceArea):
			return nil, false, ErrOutOfServiceArea
		case errors.Is(err, geoClient.ErrServiceDegraded):
			uc.logger.Warn("QuotePrice: geoservice degraded, skipping distance surcharge: %v", err)
			return nil, true, nil
		default:
			uc.logger.Error("QuotePrice: distance resolution failed: %v", err)
			return nil, false, fmt.Errorf("%w: distance resolution failed: %v", ErrInternal, err)
		}
	}

	miles := decimal.NewFromFloat(result.Miles)
	return &domain.DistanceSurcharge{
		Miles: miles,
		Fee:   domain.DistanceFee(miles),
	}, false, nil
}
