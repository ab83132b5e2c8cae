package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	bookingRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/booking"
	"github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	"github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
)

// Service операции жизненного цикла бронирований без денежной связки:
// чтение, подтверждение после ручной проверки, отметки доставки и
// возврата. Отмена и продление живут в отдельных usecase, потому что
// связаны с внешними денежными операциями
type Service struct {
	bookingRepo  BookingRepository
	inventory    InventoryService
	catalog      Catalog
	payClient    PayServiceClient
	notifyClient NotifyServiceClient
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	inventory InventoryService,
	catalog Catalog,
	payClient PayServiceClient,
	notifyClient NotifyServiceClient,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		inventory:    inventory,
		catalog:      catalog,
		payClient:    payClient,
		notifyClient: notifyClient,
		metrics:      metrics,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, администратор - любое
func (s *Service) GetByID(ctx context.Context, id int64, requesterID int64, isAdmin bool) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, requesterID)

	booking, err := s.getBooking(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}

	if !isAdmin && booking.CustomerID != requesterID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", requesterID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// Approve подтверждает бронирование после ручной проверки документов
// Единственные выходы из pending_review - подтверждение или отмена
// с возвратом денег
func (s *Service) Approve(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Approve: approving booking id=%d", id)

	booking, err := s.getBooking(ctx, id, "Approve")
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusPendingReview {
		s.logger.Warn("Approve: booking id=%d is not pending review, status=%s", id, booking.Status)
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, booking.Status, domain.StatusConfirmed)
	}

	// Условная запись: если статус уже изменился, получим ErrStaleState
	if err := s.bookingRepo.ApproveIf(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrStaleState) {
			s.logger.Warn("Approve: stale state for booking id=%d", id)
			return nil, ErrStaleState
		}
		s.logger.Error("Approve: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
	}

	s.metrics.IncBookingTransition(string(domain.StatusPendingReview), string(domain.StatusConfirmed))

	s.notifyClient.SendAsync(&notifyservice.Notification{
		Recipient: fmt.Sprintf("customer:%d", booking.CustomerID),
		Kind:      notifyservice.KindBookingConfirmed,
		BookingID: id,
		Message:   "Your booking has been verified and confirmed",
	})

	s.logger.Info("Approve: booking id=%d confirmed", id)
	return s.fetchResponse(ctx, id)
}

// MarkDelivered отмечает доставку оборудования персоналом
// Допустимо только для услуг с доставкой и из статуса confirmed
func (s *Service) MarkDelivered(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("MarkDelivered: booking id=%d", id)

	booking, err := s.getBooking(ctx, id, "MarkDelivered")
	if err != nil {
		return nil, err
	}

	svc, err := s.catalog.GetService(booking.ServiceID)
	if err != nil {
		s.logger.Error("MarkDelivered: unknown service=%d for booking id=%d", booking.ServiceID, id)
		return nil, fmt.Errorf("%w: unknown service", ErrInternal)
	}
	if svc.RentalModel != domain.RentalStaffDelivered {
		s.logger.Warn("MarkDelivered: booking id=%d is self-pickup", id)
		return nil, fmt.Errorf("%w: service is not staff-delivered", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	stamps := &domain.StatusStamps{DeliveredAt: &now, RentedOutAt: &now}
	if err := s.transition(ctx, booking, domain.StatusDelivered, stamps); err != nil {
		return nil, err
	}

	s.logger.Info("MarkDelivered: booking id=%d delivered", id)
	return s.fetchResponse(ctx, id)
}

// MarkPickedUp отмечает самовывоз оборудования клиентом
// Допустимо только для услуг с самовывозом и из статуса confirmed
func (s *Service) MarkPickedUp(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("MarkPickedUp: booking id=%d", id)

	booking, err := s.getBooking(ctx, id, "MarkPickedUp")
	if err != nil {
		return nil, err
	}

	svc, err := s.catalog.GetService(booking.ServiceID)
	if err != nil {
		s.logger.Error("MarkPickedUp: unknown service=%d for booking id=%d", booking.ServiceID, id)
		return nil, fmt.Errorf("%w: unknown service", ErrInternal)
	}
	if svc.RentalModel != domain.RentalSelfPickup {
		s.logger.Warn("MarkPickedUp: booking id=%d is staff-delivered", id)
		return nil, fmt.Errorf("%w: service is not self-pickup", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	stamps := &domain.StatusStamps{PickedUpAt: &now, RentedOutAt: &now}
	if err := s.transition(ctx, booking, domain.StatusWaitingReturn, stamps); err != nil {
		return nil, err
	}

	s.logger.Info("MarkPickedUp: booking id=%d waiting to be returned", id)
	return s.fetchResponse(ctx, id)
}

// MarkReturned обрабатывает чек-лист возврата оборудования
// Возвращённые позиции освобождаются немедленно, проваленные пункты
// фиксируются и тарифицируются; итоговый статус - completed при чистом
// чек-листе, иначе flagged
func (s *Service) MarkReturned(ctx context.Context, id int64, checklist *models.ReturnChecklistRequest) (*models.ReturnResultResponse, error) {
	s.logger.Info("MarkReturned: processing return checklist for booking id=%d", id)

	booking, err := s.getBooking(ctx, id, "MarkReturned")
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusDelivered && booking.Status != domain.StatusWaitingReturn {
		s.logger.Warn("MarkReturned: booking id=%d not rented out, status=%s", id, booking.Status)
		return nil, fmt.Errorf("%w: booking is not rented out", ErrIllegalTransition)
	}

	svc, err := s.catalog.GetService(booking.ServiceID)
	if err != nil {
		s.logger.Error("MarkReturned: unknown service=%d for booking id=%d", booking.ServiceID, id)
		return nil, fmt.Errorf("%w: unknown service", ErrInternal)
	}

	issues, chargeFailed, err := s.processChecklist(ctx, booking, svc, checklist)
	if err != nil {
		return nil, err
	}

	// 5. Итоговый статус по результатам чек-листа
	target := domain.StatusCompleted
	if len(issues) > 0 {
		target = domain.StatusFlagged
	}

	now := s.timeProvider.Now()
	if err := s.transition(ctx, booking, target, &domain.StatusStamps{ReturnedAt: &now}); err != nil {
		return nil, err
	}

	if target == domain.StatusFlagged {
		s.notifyClient.SendAsync(&notifyservice.Notification{
			Recipient: "admin",
			Kind:      notifyservice.KindBookingFlagged,
			BookingID: id,
			Message:   fmt.Sprintf("Return checklist found %d issue(s)", len(issues)),
		})
	}

	s.logger.Info("MarkReturned: booking id=%d -> %s with %d issues", id, target, len(issues))

	if chargeFailed {
		// Проблемы зафиксированы, но часть списаний не прошла:
		// оператор досписывает вручную по журналу
		return models.FromDomainIssues(id, target, issues), ErrChargeFailed
	}
	return models.FromDomainIssues(id, target, issues), nil
}

// ResolveFlagged закрывает помеченное бронирование после урегулирования
func (s *Service) ResolveFlagged(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("ResolveFlagged: booking id=%d", id)

	booking, err := s.getBooking(ctx, id, "ResolveFlagged")
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.StatusFlagged {
		s.logger.Warn("ResolveFlagged: booking id=%d is not flagged, status=%s", id, booking.Status)
		return nil, fmt.Errorf("%w: booking is not flagged", ErrIllegalTransition)
	}

	if err := s.transition(ctx, booking, domain.StatusCompleted, &domain.StatusStamps{}); err != nil {
		return nil, err
	}

	s.logger.Info("ResolveFlagged: booking id=%d completed", id)
	return s.fetchResponse(ctx, id)
}

// GetReturnIssues возвращает журнал проблем возврата бронирования
func (s *Service) GetReturnIssues(ctx context.Context, id int64) ([]*domain.ReturnIssue, error) {
	issues, err := s.bookingRepo.GetReturnIssues(ctx, id)
	if err != nil {
		s.logger.Error("GetReturnIssues: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetReturnIssues - repository error: %v", ErrInternal, err)
	}
	return issues, nil
}

// Delete удаляет бронирование
// Единственный путь удаления - явное административное действие;
// фоновые процессы бронирования не удаляют
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: removing booking id=%d", id)

	if _, err := s.getBooking(ctx, id, "Delete"); err != nil {
		return err
	}

	if err := s.inventory.ReleaseAll(ctx, id); err != nil {
		s.logger.Error("Delete: failed to release equipment for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - release error: %v", ErrInternal, err)
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: booking id=%d removed", id)
	return nil
}

// Вспомогательные методы

// processChecklist обрабатывает пункты чек-листа: освобождает
// возвращённое, фиксирует и тарифицирует проваленное
func (s *Service) processChecklist(
	ctx context.Context,
	booking *domain.Booking,
	svc *domain.Service,
	checklist *models.ReturnChecklistRequest,
) ([]*domain.ReturnIssue, bool, error) {
	// 1. Сверяем чек-лист с удержаниями оборудования
	links, err := s.inventory.GetLinks(ctx, booking.ID)
	if err != nil {
		s.logger.Error("MarkReturned: failed to load links for booking id=%d: %v", booking.ID, err)
		return nil, false, fmt.Errorf("%w: MarkReturned - links error: %v", ErrInternal, err)
	}

	byType := make(map[string]models.ChecklistItem, len(checklist.Items))
	for _, item := range checklist.Items {
		byType[item.EquipmentType] = item
	}

	var issues []*domain.ReturnIssue
	chargeFailed := false

	// 2. Оборудование: возвращённое освобождаем, невозвращённое фиксируем
	for _, link := range links {
		if !link.IsHeld() {
			continue
		}

		item, listed := byType[link.EquipmentType]
		if !listed || item.Returned {
			if err := s.inventory.Release(ctx, booking.ID, link.EquipmentType); err != nil {
				s.logger.Error("MarkReturned: release failed for booking id=%d type=%s: %v",
					booking.ID, link.EquipmentType, err)
				return nil, false, fmt.Errorf("%w: MarkReturned - release error: %v", ErrInternal, err)
			}
			continue
		}

		issue, failed, err := s.recordIssue(ctx, booking, link.EquipmentType, domain.IssueNotReturned, item.Fee,
			fmt.Sprintf("Unreturned equipment: %s", link.EquipmentType))
		if err != nil {
			return nil, false, err
		}
		chargeFailed = chargeFailed || failed
		issues = append(issues, issue)
	}

	// 3. Состояние трейлера проверяется только для услуг с чек-листом чистоты
	if svc.ChecklistCleanliness {
		if checklist.Cleaned != nil && !*checklist.Cleaned {
			issue, failed, err := s.recordIssue(ctx, booking, "cleanliness", domain.IssueNotCleaned,
				checklist.CleaningFee, "Equipment returned uncleaned")
			if err != nil {
				return nil, false, err
			}
			chargeFailed = chargeFailed || failed
			issues = append(issues, issue)
		}
		if checklist.Undamaged != nil && !*checklist.Undamaged {
			issue, failed, err := s.recordIssue(ctx, booking, "damage", domain.IssueDamaged,
				checklist.DamageFee, "Equipment returned damaged")
			if err != nil {
				return nil, false, err
			}
			chargeFailed = chargeFailed || failed
			issues = append(issues, issue)
		}
	}

	return issues, chargeFailed, nil
}

// recordIssue фиксирует проблему возврата и списывает назначенную плату
// Неуспешное списание не отменяет фиксацию проблемы: исход денежной
// операции неизвестен, повторное автоматическое списание запрещено
func (s *Service) recordIssue(
	ctx context.Context,
	booking *domain.Booking,
	item string,
	kind domain.ReturnIssueKind,
	feeStr *string,
	description string,
) (*domain.ReturnIssue, bool, error) {
	fee, err := models.ParseFee(feeStr)
	if err != nil {
		return nil, false, fmt.Errorf("%w: invalid fee for %s", ErrInvalidInput, item)
	}

	issue := &domain.ReturnIssue{
		BookingID: booking.ID,
		Item:      item,
		Kind:      kind,
	}
	chargeFailed := false

	// 4. Деньги двигаются до записи: при сбое проблема сохраняется без платы
	if fee != nil && fee.IsPositive() {
		charge, err := s.payClient.ChargeStoredMethod(ctx, booking.CustomerID, *fee, description)
		if err != nil {
			s.logger.Error("MarkReturned: charge failed for booking id=%d item=%s: %v", booking.ID, item, err)
			s.metrics.IncReconciliation("return_fee_charge")
			chargeFailed = true
		} else {
			issue.FeeCharged = fee
			issue.FeeChargeID = &charge.ChargeID

			if _, err := s.bookingRepo.AddFee(ctx, &domain.AppliedFee{
				BookingID:   booking.ID,
				Description: description,
				Amount:      *fee,
				ChargeID:    charge.ChargeID,
			}); err != nil {
				s.logger.Error("MarkReturned: fee record failed for booking id=%d item=%s: %v", booking.ID, item, err)
				s.metrics.IncReconciliation("return_fee_persist")
			}
		}
	}

	saved, err := s.bookingRepo.AddReturnIssue(ctx, issue)
	if err != nil {
		s.logger.Error("MarkReturned: issue record failed for booking id=%d item=%s: %v", booking.ID, item, err)
		return nil, chargeFailed, fmt.Errorf("%w: MarkReturned - issue record error: %v", ErrInternal, err)
	}

	return saved, chargeFailed, nil
}

// transition выполняет условный переход статуса с проверкой таблицы
func (s *Service) transition(ctx context.Context, booking *domain.Booking, to domain.BookingStatus, stamps *domain.StatusStamps) error {
	if !domain.CanTransition(booking.Status, to) {
		s.logger.Warn("transition: illegal %s -> %s for booking id=%d", booking.Status, to, booking.ID)
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, booking.Status, to)
	}

	if err := s.bookingRepo.UpdateStatusIf(ctx, booking.ID, booking.Status, to, stamps); err != nil {
		if errors.Is(err, bookingRepo.ErrStaleState) {
			s.logger.Warn("transition: stale state for booking id=%d (%s -> %s)", booking.ID, booking.Status, to)
			return ErrStaleState
		}
		s.logger.Error("transition: repository error for booking id=%d: %v", booking.ID, err)
		return fmt.Errorf("%w: transition - repository error: %v", ErrInternal, err)
	}

	s.metrics.IncBookingTransition(string(booking.Status), string(to))
	return nil
}

func (s *Service) getBooking(ctx context.Context, id int64, op string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) fetchResponse(ctx context.Context, id int64) (*models.BookingResponse, error) {
	booking, err := s.getBooking(ctx, id, "fetch")
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(booking), nil
}
