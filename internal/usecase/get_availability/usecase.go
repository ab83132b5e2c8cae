package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/internal/service/catalog"
)

// UseCase use case расчёта доступности услуги на диапазон дат
type UseCase struct {
	availabilityRepo AvailabilityRepository
	catalog          Catalog
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availabilityRepo AvailabilityRepository,
	catalog Catalog,
	logger Logger,
) *UseCase {
	return &UseCase{
		availabilityRepo: availabilityRepo,
		catalog:          catalog,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case расчёта доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: service=%d, range=%s..%s",
		req.ServiceID, req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу из каталога
	svc, err := uc.catalog.GetService(req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailability: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 3. Получаем текущее время
	now := uc.timeProvider.Now()

	// 4. Загружаем недельное расписание услуги
	rules, err := uc.availabilityRepo.GetRulesByService(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get rules for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}
	rulesByWeekday := domain.RulesByWeekday(rules)

	// 5. Загружаем блокировки дат за диапазон (по услуге и глобальные)
	blackouts, err := uc.availabilityRepo.GetBlackouts(ctx, req.ServiceID, req.StartDate, req.EndDate)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get blackouts for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	// 6. Считаем доступность по дням
	resp := &Response{ServiceID: req.ServiceID}
	for date := domain.DateOnly(req.StartDate); !date.After(domain.DateOnly(req.EndDate)); date = date.AddDate(0, 0, 1) {
		day := domain.ResolveDay(svc, date, now, rulesByWeekday, blackouts)
		resp.Days = append(resp.Days, Day{
			Date:         day.Date.Format(domain.DateFormat),
			Available:    day.Available,
			UsesWindows:  day.UsesWindows,
			DropOffSlots: slotsFromWindows(day.DropOffSlots),
			PickupSlots:  slotsFromWindows(day.PickupSlots),
		})
	}

	// 7. Баннер полной недоступности: все семь дней недели закрыты
	unavailable, err := uc.catalog.TemporarilyUnavailable(ctx, req.ServiceID)
	if err != nil {
		uc.logger.Error("GetAvailability: unavailability check failed for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: unavailability check failed: %v", ErrInternal, err)
	}
	resp.TemporarilyUnavailable = unavailable

	uc.logger.Info("GetAvailability: resolved %d days for service=%d", len(resp.Days), req.ServiceID)
	return resp, nil
}
