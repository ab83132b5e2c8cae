package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	availabilityRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/availability"
	"github.com/bindrop/BDR-RentalService/internal/service/schedule/models"
)

// Service административное управление расписаниями и блокировками дат
type Service struct {
	repo    AvailabilityRepository
	catalog Catalog
	logger  Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(repo AvailabilityRepository, catalog Catalog, logger Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		logger:  logger,
	}
}

// GetSchedule возвращает недельное расписание услуги
func (s *Service) GetSchedule(ctx context.Context, serviceID int64) (*models.ScheduleResponse, error) {
	if _, err := s.catalog.GetService(serviceID); err != nil {
		s.logger.Warn("GetSchedule: service=%d not found", serviceID)
		return nil, ErrServiceNotFound
	}

	rules, err := s.repo.GetRulesByService(ctx, serviceID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRules(serviceID, rules), nil
}

// UpsertRule создает или обновляет правило расписания
// На пару (service, weekday) существует не более одного правила:
// повторная запись перезаписывает существующее
func (s *Service) UpsertRule(ctx context.Context, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpsertRule: service=%d weekday=%d available=%v", req.ServiceID, req.Weekday, req.IsAvailable)

	if _, err := s.catalog.GetService(req.ServiceID); err != nil {
		s.logger.Warn("UpsertRule: service=%d not found", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	if req.Weekday < 0 || req.Weekday >= domain.WeekdaysPerWeek {
		return nil, fmt.Errorf("%w: weekday must be in [0, 6]", ErrInvalidInput)
	}

	rule, err := req.ToDomainRule()
	if err != nil {
		s.logger.Warn("UpsertRule: invalid rule for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// Для открытого дня проверяем согласованность границ и окон
	if rule.IsAvailable {
		if err := s.validateOpenRule(rule); err != nil {
			s.logger.Warn("UpsertRule: validation failed for service=%d weekday=%d: %v",
				req.ServiceID, req.Weekday, err)
			return nil, err
		}
	}

	saved, err := s.repo.UpsertRule(ctx, rule)
	if err != nil {
		s.logger.Error("UpsertRule: repository error for service=%d weekday=%d: %v",
			req.ServiceID, req.Weekday, err)
		return nil, fmt.Errorf("%w: UpsertRule - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpsertRule: saved rule id=%d for service=%d weekday=%d", saved.ID, req.ServiceID, req.Weekday)
	return models.FromDomainRule(saved), nil
}

// GetBlackouts возвращает блокировки дат услуги (и глобальные) за период
func (s *Service) GetBlackouts(ctx context.Context, serviceID int64, from, to time.Time) (*models.BlackoutListResponse, error) {
	blackouts, err := s.repo.GetBlackouts(ctx, serviceID, from, to)
	if err != nil {
		s.logger.Error("GetBlackouts: repository error for service=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: GetBlackouts - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBlackoutList(blackouts), nil
}

// CreateBlackout создает блокировку даты
func (s *Service) CreateBlackout(ctx context.Context, req *models.CreateBlackoutRequest) (*models.BlackoutResponse, error) {
	date, err := models.ParseDate(req.Date)
	if err != nil {
		s.logger.Warn("CreateBlackout: invalid date %q", req.Date)
		return nil, fmt.Errorf("%w: invalid date format", ErrInvalidInput)
	}

	if req.ServiceID != nil {
		if _, err := s.catalog.GetService(*req.ServiceID); err != nil {
			s.logger.Warn("CreateBlackout: service=%d not found", *req.ServiceID)
			return nil, ErrServiceNotFound
		}
	}

	blackout := &domain.DateBlackout{
		Date:      domain.DateOnly(date),
		ServiceID: req.ServiceID,
		Reason:    req.Reason,
	}

	saved, err := s.repo.CreateBlackout(ctx, blackout)
	if err != nil {
		s.logger.Error("CreateBlackout: repository error for date=%s: %v", req.Date, err)
		return nil, fmt.Errorf("%w: CreateBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBlackout: created blackout id=%d for date=%s", saved.ID, req.Date)
	return models.FromDomainBlackout(saved), nil
}

// DeleteBlackout удаляет блокировку даты
func (s *Service) DeleteBlackout(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBlackout(ctx, id); err != nil {
		if errors.Is(err, availabilityRepo.ErrBlackoutNotFound) {
			s.logger.Warn("DeleteBlackout: blackout id=%d not found", id)
			return ErrBlackoutNotFound
		}
		s.logger.Error("DeleteBlackout: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: DeleteBlackout - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteBlackout: deleted blackout id=%d", id)
	return nil
}

// validateOpenRule проверяет инварианты открытого дня:
// либо границы полного дня, либо валидный набор окон
func (s *Service) validateOpenRule(rule *domain.WeeklyAvailabilityRule) error {
	if len(rule.Windows) > 0 {
		if !rule.ValidateWindows() {
			return ErrInvalidWindows
		}
		return nil
	}

	if rule.DayStart == nil || rule.DayEnd == nil {
		return fmt.Errorf("%w: open day requires dayStart/dayEnd or windows", ErrInvalidInput)
	}
	if !rule.DayStart.IsBefore(*rule.DayEnd) {
		return fmt.Errorf("%w: dayStart must be before dayEnd", ErrInvalidInput)
	}
	return nil
}
