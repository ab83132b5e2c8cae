package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	inventoryRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/inventory"
	"github.com/bindrop/BDR-RentalService/internal/service/inventory/models"
)

// Service учёт дополнительного оборудования
// Доступность выводится, а не хранится: total_owned минус активные
// удержания на дату
type Service struct {
	repo      InventoryRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса инвентаря
func NewService(repo InventoryRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
		logger:    logger,
	}
}

// ListItems возвращает состояние инвентаря на дату
func (s *Service) ListItems(ctx context.Context, onDate time.Time) (*models.ItemListResponse, error) {
	items, err := s.repo.GetItems(ctx)
	if err != nil {
		s.logger.Error("ListItems: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListItems - repository error: %v", ErrInternal, err)
	}

	day := domain.DateOnly(onDate)
	resp := &models.ItemListResponse{Items: make([]*models.ItemResponse, 0, len(items))}
	for _, item := range items {
		held, err := s.repo.HeldQuantity(ctx, item.EquipmentType, day, day)
		if err != nil {
			s.logger.Error("ListItems: held quantity error for type=%s: %v", item.EquipmentType, err)
			return nil, fmt.Errorf("%w: ListItems - held quantity error: %v", ErrInternal, err)
		}
		resp.Items = append(resp.Items, models.FromDomainItem(item, held))
	}

	return resp, nil
}

// AvailableUnits возвращает число доступных единиц типа оборудования
// на интервал дат: total_owned минус удержания активных бронирований,
// пересекающихся с интервалом
func (s *Service) AvailableUnits(ctx context.Context, equipmentType string, from, to time.Time) (int, error) {
	item, err := s.repo.GetItem(ctx, equipmentType)
	if err != nil {
		if errors.Is(err, inventoryRepo.ErrItemNotFound) {
			return 0, ErrItemNotFound
		}
		s.logger.Error("AvailableUnits: repository error for type=%s: %v", equipmentType, err)
		return 0, fmt.Errorf("%w: AvailableUnits - repository error: %v", ErrInternal, err)
	}

	held, err := s.repo.HeldQuantity(ctx, equipmentType, domain.DateOnly(from), domain.DateOnly(to))
	if err != nil {
		s.logger.Error("AvailableUnits: held quantity error for type=%s: %v", equipmentType, err)
		return 0, fmt.Errorf("%w: AvailableUnits - held quantity error: %v", ErrInternal, err)
	}

	available := item.TotalOwned - held
	if available < 0 {
		available = 0
	}
	return available, nil
}

// AdjustTotal изменяет общее количество единиц типа оборудования
func (s *Service) AdjustTotal(ctx context.Context, equipmentType string, total int) (*models.ItemResponse, error) {
	s.logger.Info("AdjustTotal: setting type=%s total=%d", equipmentType, total)

	if total < 0 {
		return nil, fmt.Errorf("%w: total must be non-negative", ErrInvalidInput)
	}

	item, err := s.repo.SetTotalOwned(ctx, equipmentType, total)
	if err != nil {
		s.logger.Error("AdjustTotal: repository error for type=%s: %v", equipmentType, err)
		return nil, fmt.Errorf("%w: AdjustTotal - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AdjustTotal: type=%s now has total=%d", equipmentType, item.TotalOwned)
	return models.FromDomainItem(item, 0), nil
}

// Hold удерживает оборудование под бронирование на интервал дат
// Работает внутри SERIALIZABLE транзакции: строка инвентаря блокируется
// FOR UPDATE, после чего проверка-затем-запись не может пропустить
// конкурента. Из двух одновременных запросов на последние единицы
// преуспеет ровно один
func (s *Service) Hold(ctx context.Context, bookingID int64, items []models.HoldItem, from, to time.Time) error {
	s.logger.Info("Hold: holding %d item types for booking=%d", len(items), bookingID)

	for _, it := range items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
	}

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		return s.holdInTx(ctx, bookingID, items, from, to)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientInventory) || errors.Is(err, ErrItemNotFound) {
			return err
		}
		s.logger.Error("Hold: transaction failed for booking=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Hold - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("Hold: successfully held equipment for booking=%d", bookingID)
	return nil
}

// HoldInTx выполняет удержание в уже открытой транзакции
// Используется create_booking, где удержание и вставка бронирования
// должны быть атомарны
func (s *Service) HoldInTx(ctx context.Context, bookingID int64, items []models.HoldItem, from, to time.Time) error {
	return s.holdInTx(ctx, bookingID, items, from, to)
}

func (s *Service) holdInTx(ctx context.Context, bookingID int64, items []models.HoldItem, from, to time.Time) error {
	fromDay := domain.DateOnly(from)
	toDay := domain.DateOnly(to)

	for _, it := range items {
		// 1. Блокируем строку инвентаря (FOR UPDATE внутри транзакции)
		item, err := s.repo.GetItem(ctx, it.EquipmentType)
		if err != nil {
			if errors.Is(err, inventoryRepo.ErrItemNotFound) {
				return fmt.Errorf("%w: %s", ErrItemNotFound, it.EquipmentType)
			}
			return err
		}

		// 2. Считаем активные удержания на пересекающийся интервал
		held, err := s.repo.HeldQuantity(ctx, it.EquipmentType, fromDay, toDay)
		if err != nil {
			return err
		}

		// 3. Отклоняем при нехватке - количество не урезается
		if held+it.Quantity > item.TotalOwned {
			s.logger.Warn("Hold: insufficient %s for booking=%d: total=%d held=%d requested=%d",
				it.EquipmentType, bookingID, item.TotalOwned, held, it.Quantity)
			return fmt.Errorf("%w: %s (available %d, requested %d)",
				ErrInsufficientInventory, it.EquipmentType, item.TotalOwned-held, it.Quantity)
		}

		// 4. Создаем удержание
		if _, err := s.repo.CreateLink(ctx, &domain.EquipmentLink{
			BookingID:     bookingID,
			EquipmentType: it.EquipmentType,
			Quantity:      it.Quantity,
		}); err != nil {
			return err
		}
	}

	return nil
}

// Release снимает удержание одного типа оборудования
// Единицы немедленно доступны для новых бронирований
func (s *Service) Release(ctx context.Context, bookingID int64, equipmentType string) error {
	if err := s.repo.ReleaseLink(ctx, bookingID, equipmentType); err != nil {
		if errors.Is(err, inventoryRepo.ErrLinkNotFound) {
			s.logger.Warn("Release: link not found for booking=%d type=%s", bookingID, equipmentType)
			return ErrLinkNotFound
		}
		s.logger.Error("Release: repository error for booking=%d type=%s: %v", bookingID, equipmentType, err)
		return fmt.Errorf("%w: Release - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Release: released %s for booking=%d", equipmentType, bookingID)
	return nil
}

// ReleaseAll снимает все удержания бронирования
func (s *Service) ReleaseAll(ctx context.Context, bookingID int64) error {
	if err := s.repo.ReleaseAllForBooking(ctx, bookingID); err != nil {
		s.logger.Error("ReleaseAll: repository error for booking=%d: %v", bookingID, err)
		return fmt.Errorf("%w: ReleaseAll - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ReleaseAll: released all equipment for booking=%d", bookingID)
	return nil
}

// GetLinks возвращает удержания бронирования
func (s *Service) GetLinks(ctx context.Context, bookingID int64) ([]*domain.EquipmentLink, error) {
	links, err := s.repo.GetLinksByBooking(ctx, bookingID)
	if err != nil {
		s.logger.Error("GetLinks: repository error for booking=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetLinks - repository error: %v", ErrInternal, err)
	}
	return links, nil
}
