package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	bookingRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/booking"
	"github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	bookingModels "github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID   int64
	RequesterID int64
	IsAdmin     bool
	Reason      string

	// AdminFee удерживаемая административная плата; учитывается
	// только для администраторов, клиентская отмена без удержаний
	AdminFee *string
}

// Response модель ответа с отмененным бронированием
type Response struct {
	Booking      *bookingModels.BookingResponse `json:"booking"`
	RefundAmount string                         `json:"refundAmount"`
}

// UseCase use case отмены бронирования с возвратом денег
// Деньги двигаются до записи состояния: возврат выполняется первым,
// затем условная запись отмены. Обратный порядок мог бы отменить
// бронирование без возврата денег клиенту
type UseCase struct {
	bookingRepo  BookingRepository
	inventory    InventoryService
	payClient    PayServiceClient
	notifyClient NotifyServiceClient
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	inventory InventoryService,
	payClient PayServiceClient,
	notifyClient NotifyServiceClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		inventory:    inventory,
		payClient:    payClient,
		notifyClient: notifyClient,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case отмены бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, requester=%d, admin=%v", req.BookingID, req.RequesterID, req.IsAdmin)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	adminFee, err := uc.parseAdminFee(req)
	if err != nil {
		return nil, err
	}

	// 2. Получаем бронирование
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем права доступа
	if !req.IsAdmin && booking.CustomerID != req.RequesterID {
		uc.logger.Warn("CancelBooking: access denied for requester=%d to booking=%d", req.RequesterID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 4. Отмена допустима из любого нетерминального статуса
	if !booking.CanBeCancelled() {
		uc.logger.Warn("CancelBooking: booking=%d is terminal, status=%s", req.BookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	// 5. Считаем сумму возврата: total - adminFee, не ниже нуля
	refundAmount := domain.RefundAmount(booking.TotalPrice, adminFee)

	// 6. Внешний возврат денег - ПЕРВЫМ. Возвращаем только если
	// списание состоялось и сумма положительна
	var refund *domain.RefundRecord
	if booking.ChargeID != nil && refundAmount.IsPositive() {
		result, err := uc.payClient.RefundCharge(ctx, *booking.ChargeID, refundAmount, req.Reason)
		if err != nil {
			uc.logger.Error("CancelBooking: refund failed for booking=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: %v", ErrRefundFailed, err)
		}
		refund = &domain.RefundRecord{
			Amount:     refundAmount,
			Reason:     req.Reason,
			RefundID:   result.RefundID,
			RefundedAt: uc.timeProvider.Now(),
		}
		uc.logger.Info("CancelBooking: refunded %s for booking=%d, refund_id=%s",
			refundAmount.StringFixed(2), req.BookingID, result.RefundID)
	}

	// 7. Условная запись отмены, ключ - статус на момент чтения
	// Сбой ПОСЛЕ возврата денег - ошибка сверки: состояние не тронуто,
	// повторный автоматический возврат запрещен
	if err := uc.bookingRepo.CancelIf(ctx, req.BookingID, booking.Status, req.Reason, adminFee, refund); err != nil {
		if refund != nil {
			uc.logger.Error("CancelBooking: REFUND DONE but state write failed for booking=%d (refund_id=%s): %v",
				req.BookingID, refund.RefundID, err)
			uc.metrics.IncReconciliation("cancel_refund")
			return nil, fmt.Errorf("%w: refund_id=%s: %v", ErrReconciliation, refund.RefundID, err)
		}
		if errors.Is(err, bookingRepo.ErrStaleState) {
			uc.logger.Warn("CancelBooking: stale state for booking=%d", req.BookingID)
			return nil, ErrCannotCancel
		}
		uc.logger.Error("CancelBooking: state write failed for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: state write failed: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingTransition(string(booking.Status), string(domain.StatusCancelled))

	// 8. Освобождаем удержанное оборудование
	if err := uc.inventory.ReleaseAll(ctx, req.BookingID); err != nil {
		// Отмена уже записана; удержания снимет оператор по журналу
		uc.logger.Error("CancelBooking: equipment release failed for booking=%d: %v", req.BookingID, err)
	}

	uc.notifyClient.SendAsync(&notifyservice.Notification{
		Recipient: fmt.Sprintf("customer:%d", booking.CustomerID),
		Kind:      notifyservice.KindBookingCancelled,
		BookingID: req.BookingID,
		Message:   fmt.Sprintf("Your booking was cancelled, refund %s", refundAmount.StringFixed(2)),
	})

	uc.logger.Info("CancelBooking: booking=%d cancelled, refund=%s", req.BookingID, refundAmount.StringFixed(2))

	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	return &Response{
		Booking:      bookingModels.FromDomainBooking(current),
		RefundAmount: refundAmount.StringFixed(2),
	}, nil
}

// parseAdminFee извлекает административную плату из запроса
// Клиентская отмена платой не облагается
func (uc *UseCase) parseAdminFee(req *Request) (decimal.Decimal, error) {
	if !req.IsAdmin || req.AdminFee == nil {
		return decimal.Zero, nil
	}
	fee, err := decimal.NewFromString(*req.AdminFee)
	if err != nil || fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: invalid admin fee", ErrInvalidInput)
	}
	return fee, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CancelBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("CancelBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}
