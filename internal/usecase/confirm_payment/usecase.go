package confirm_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	bookingRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/booking"
	"github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	payClient "github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
	bookingModels "github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
)

// Request модель запроса подтверждения оплаты
type Request struct {
	BookingID  int64
	CustomerID int64
	IsAdmin    bool
}

// Response модель ответа с актуальным состоянием бронирования
type Response struct {
	Booking *bookingModels.BookingResponse `json:"booking"`
}

// UseCase use case подтверждения оплаты бронирования
// Операция идемпотентна: повторный вызов для уже подтвержденного
// бронирования возвращает его текущее состояние без побочных эффектов
type UseCase struct {
	bookingRepo  BookingRepository
	catalog      Catalog
	payClient    PayServiceClient
	notifyClient NotifyServiceClient
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	catalog Catalog,
	payClient PayServiceClient,
	notifyClient NotifyServiceClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		catalog:      catalog,
		payClient:    payClient,
		notifyClient: notifyClient,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет use case подтверждения оплаты
// Сначала внешний опрос платежа, затем условная запись статуса:
// запись ключуется на ожидаемом исходном статусе, и проигравший
// конкурент получает актуальное состояние, а не двойной переход
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmPayment: booking=%d, customer=%d", req.BookingID, req.CustomerID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}

	// 2. Получаем бронирование
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем права доступа
	if !req.IsAdmin && booking.CustomerID != req.CustomerID {
		uc.logger.Warn("ConfirmPayment: access denied for customer=%d to booking=%d", req.CustomerID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 4. Идемпотентность: оплата уже подтверждена
	if booking.Status == domain.StatusConfirmed || booking.Status == domain.StatusPendingReview {
		uc.logger.Info("ConfirmPayment: booking=%d already processed, status=%s", req.BookingID, booking.Status)
		return &Response{Booking: bookingModels.FromDomainBooking(booking)}, nil
	}
	if booking.Status != domain.StatusPendingPayment {
		uc.logger.Warn("ConfirmPayment: booking=%d is not awaiting payment, status=%s", req.BookingID, booking.Status)
		return nil, fmt.Errorf("%w: status %s", ErrIllegalTransition, booking.Status)
	}

	if booking.PaymentSessionID == nil {
		uc.logger.Error("ConfirmPayment: booking=%d has no payment session", req.BookingID)
		return nil, ErrNoPaymentSession
	}

	// 5. Опрашиваем платежный сервис до финального исхода
	session, err := uc.payClient.ConfirmPayment(ctx, *booking.PaymentSessionID)
	if err != nil {
		switch {
		case errors.Is(err, payClient.ErrPaymentDeclined):
			uc.logger.Warn("ConfirmPayment: payment declined for booking=%d", req.BookingID)
			return nil, ErrPaymentDeclined
		case errors.Is(err, payClient.ErrConfirmTimeout):
			uc.logger.Warn("ConfirmPayment: confirmation timed out for booking=%d", req.BookingID)
			return nil, ErrConfirmTimeout
		default:
			uc.logger.Error("ConfirmPayment: collaborator error for booking=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: payment confirmation failed: %v", ErrInternal, err)
		}
	}

	// 6. Сохраняем идентификатор платежа
	if session.ChargeID != "" {
		if err := uc.bookingRepo.SetChargeID(ctx, req.BookingID, session.ChargeID); err != nil {
			uc.logger.Error("ConfirmPayment: failed to persist charge for booking=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: failed to persist charge: %v", ErrInternal, err)
		}
	}

	// 7. Целевой статус: самовывоз с неполной верификацией идет
	// на ручную проверку, остальное подтверждается сразу
	target := domain.StatusConfirmed
	if svc, err := uc.catalog.GetService(booking.ServiceID); err == nil {
		if svc.RequiresVerification() && !booking.Verification.IsComplete() {
			target = domain.StatusPendingReview
		}
	}

	// 8. Условная запись статуса
	err = uc.bookingRepo.UpdateStatusIf(ctx, req.BookingID, domain.StatusPendingPayment, target, &domain.StatusStamps{})
	if err != nil {
		if errors.Is(err, bookingRepo.ErrStaleState) {
			// Конкурентное подтверждение успело раньше: возвращаем
			// актуальное состояние, двойного перехода нет
			uc.logger.Info("ConfirmPayment: concurrent confirmation won for booking=%d", req.BookingID)
			current, err := uc.getBooking(ctx, req.BookingID)
			if err != nil {
				return nil, err
			}
			return &Response{Booking: bookingModels.FromDomainBooking(current)}, nil
		}
		uc.logger.Error("ConfirmPayment: status write failed for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: status write failed: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingTransition(string(domain.StatusPendingPayment), string(target))

	if target == domain.StatusConfirmed {
		uc.notifyClient.SendAsync(&notifyservice.Notification{
			Recipient: fmt.Sprintf("customer:%d", booking.CustomerID),
			Kind:      notifyservice.KindBookingConfirmed,
			BookingID: req.BookingID,
			Message:   "Your booking is confirmed",
		})
	} else {
		uc.notifyClient.SendAsync(&notifyservice.Notification{
			Recipient: "admin",
			Kind:      notifyservice.KindReviewRequired,
			BookingID: req.BookingID,
			Message:   "Booking paid, verification documents require manual review",
		})
	}

	uc.logger.Info("ConfirmPayment: booking=%d -> %s", req.BookingID, target)

	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	return &Response{Booking: bookingModels.FromDomainBooking(current)}, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ConfirmPayment: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ConfirmPayment: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}
