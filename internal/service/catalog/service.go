package catalog

import (
	"context"
	"fmt"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// Service каталог услуг и типов оборудования
// Справочные данные неизменяемы в рантайме: загружаются из конфига
// при старте и передаются сюда явно
type Service struct {
	services  map[int64]*domain.Service
	equipment map[string]*domain.EquipmentType
	ordered   []*domain.Service

	availabilityRepo AvailabilityRepository
	logger           Logger
}

// NewService создает новый экземпляр каталога
func NewService(
	services []*domain.Service,
	equipment []*domain.EquipmentType,
	availabilityRepo AvailabilityRepository,
	logger Logger,
) *Service {
	s := &Service{
		services:         make(map[int64]*domain.Service, len(services)),
		equipment:        make(map[string]*domain.EquipmentType, len(equipment)),
		ordered:          services,
		availabilityRepo: availabilityRepo,
		logger:           logger,
	}
	for _, svc := range services {
		s.services[svc.ID] = svc
	}
	for _, eq := range equipment {
		s.equipment[eq.Code] = eq
	}
	return s
}

// GetServices возвращает все услуги каталога в порядке конфига
func (s *Service) GetServices() []*domain.Service {
	return s.ordered
}

// GetService возвращает услугу по ID
func (s *Service) GetService(id int64) (*domain.Service, error) {
	svc, ok := s.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

// GetEquipmentType возвращает тип оборудования по коду
func (s *Service) GetEquipmentType(code string) (*domain.EquipmentType, error) {
	eq, ok := s.equipment[code]
	if !ok {
		return nil, ErrEquipmentNotFound
	}
	return eq, nil
}

// EquipmentTypes возвращает все типы оборудования
func (s *Service) EquipmentTypes() []*domain.EquipmentType {
	out := make([]*domain.EquipmentType, 0, len(s.equipment))
	for _, eq := range s.equipment {
		out = append(out, eq)
	}
	return out
}

// TemporarilyUnavailable возвращает true, когда услуга полностью закрыта
// в недельном расписании: ровно 7 строк и все с is_available = false
// Отсутствие строк баннер не поднимает - расписание просто не настроено
func (s *Service) TemporarilyUnavailable(ctx context.Context, serviceID int64) (bool, error) {
	if _, ok := s.services[serviceID]; !ok {
		return false, ErrServiceNotFound
	}

	rules, err := s.availabilityRepo.GetRulesByService(ctx, serviceID)
	if err != nil {
		s.logger.Error("TemporarilyUnavailable: repository error for service=%d: %v", serviceID, err)
		return false, fmt.Errorf("%w: TemporarilyUnavailable - repository error: %v", ErrInternal, err)
	}

	if len(rules) != 7 {
		return false, nil
	}
	for _, rule := range rules {
		if rule.IsAvailable {
			return false, nil
		}
	}

	s.logger.Info("TemporarilyUnavailable: service=%d is fully closed in weekly schedule", serviceID)
	return true, nil
}
