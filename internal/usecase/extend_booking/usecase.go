package extend_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	bookingRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/booking"
	bookingModels "github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
)

// Request модель запроса на продление аренды
type Request struct {
	BookingID     int64
	RequesterID   int64
	IsAdmin       bool
	NewPickupDate time.Time
}

// Response модель ответа с продленным бронированием
type Response struct {
	Booking      *bookingModels.BookingResponse `json:"booking"`
	ExtraDays    int                            `json:"extraDays"`
	ChargeAmount string                         `json:"chargeAmount"`
}

// UseCase use case продления аренды
// Списание выполняется первым, затем условная запись новой даты:
// обратный порядок мог бы продлить аренду бесплатно
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	catalog          Catalog
	payClient        PayServiceClient
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	catalog Catalog,
	payClient PayServiceClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		catalog:          catalog,
		payClient:        payClient,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case продления аренды
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ExtendBooking: booking=%d, requester=%d, newPickup=%s",
		req.BookingID, req.RequesterID, req.NewPickupDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingId must be positive", ErrInvalidInput)
	}
	if req.NewPickupDate.IsZero() {
		return nil, fmt.Errorf("%w: new pickup date is required", ErrInvalidDate)
	}

	// 2. Получаем бронирование
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	// 3. Проверяем права доступа
	if !req.IsAdmin && booking.CustomerID != req.RequesterID {
		uc.logger.Warn("ExtendBooking: access denied for requester=%d to booking=%d", req.RequesterID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 4. Продлевать можно только идущую аренду
	if !booking.CanBeExtended() {
		uc.logger.Warn("ExtendBooking: booking=%d cannot be extended, status=%s", req.BookingID, booking.Status)
		return nil, ErrCannotExtend
	}

	// 5. Новая дата строго позже текущей даты возврата, в пределах лимита
	newPickup := domain.DateOnly(req.NewPickupDate)
	currentPickup := domain.DateOnly(booking.PickupDate)
	if !newPickup.After(currentPickup) {
		return nil, fmt.Errorf("%w: new pickup date must be after current one", ErrInvalidDate)
	}
	extraDays := int(newPickup.Sub(currentPickup).Hours() / 24)
	if extraDays > domain.MaxExtensionDays {
		return nil, fmt.Errorf("%w: extension exceeds %d days", ErrInvalidDate, domain.MaxExtensionDays)
	}

	// 6. Получаем услугу и считаем плату за продление
	svc, err := uc.catalog.GetService(booking.ServiceID)
	if err != nil {
		uc.logger.Error("ExtendBooking: unknown service=%d for booking=%d", booking.ServiceID, req.BookingID)
		return nil, fmt.Errorf("%w: unknown service", ErrInternal)
	}
	charge := domain.ExtensionCharge(svc, extraDays)

	// 7. Проверяем, что окно возврата доступно на новую дату
	if err := uc.checkPickupSlot(ctx, svc, booking, newPickup); err != nil {
		return nil, err
	}

	// 8. Списание - ПЕРВЫМ
	var chargeID string
	if charge.IsPositive() {
		description := fmt.Sprintf("Rental extension: %d day(s) for booking %d", extraDays, req.BookingID)
		result, err := uc.payClient.ChargeStoredMethod(ctx, booking.CustomerID, charge, description)
		if err != nil {
			uc.logger.Error("ExtendBooking: charge failed for booking=%d: %v", req.BookingID, err)
			return nil, fmt.Errorf("%w: %v", ErrChargeFailed, err)
		}
		chargeID = result.ChargeID
		uc.logger.Info("ExtendBooking: charged %s for booking=%d, charge_id=%s",
			charge.StringFixed(2), req.BookingID, chargeID)
	}

	// 9. Условная запись новой даты возврата
	// Сбой ПОСЛЕ списания - отдельная ошибка сверки: деньги списаны,
	// дата не сдвинута, автоповтор запрещен
	if err := uc.bookingRepo.ExtendIf(ctx, req.BookingID, booking.Status, newPickup); err != nil {
		if chargeID != "" {
			uc.logger.Error("ExtendBooking: CHARGE DONE but date write failed for booking=%d (charge_id=%s): %v",
				req.BookingID, chargeID, err)
			uc.metrics.IncReconciliation("extension_charge")
			return nil, fmt.Errorf("%w: charge_id=%s: %v", ErrChargedButNotExtended, chargeID, err)
		}
		if errors.Is(err, bookingRepo.ErrStaleState) {
			uc.logger.Warn("ExtendBooking: stale state for booking=%d", req.BookingID)
			return nil, ErrCannotExtend
		}
		uc.logger.Error("ExtendBooking: date write failed for booking=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: date write failed: %v", ErrInternal, err)
	}

	// 10. Фиксируем плату за продление в журнале списаний
	// Плата не входит в total_price и не возвращается при отмене
	if chargeID != "" {
		if _, err := uc.bookingRepo.AddFee(ctx, &domain.AppliedFee{
			BookingID:   req.BookingID,
			Description: fmt.Sprintf("Rental extension (%d days)", extraDays),
			Amount:      charge,
			ChargeID:    chargeID,
		}); err != nil {
			uc.logger.Error("ExtendBooking: fee record failed for booking=%d: %v", req.BookingID, err)
			uc.metrics.IncReconciliation("extension_fee_persist")
		}
	}

	uc.logger.Info("ExtendBooking: booking=%d extended by %d days, charge=%s",
		req.BookingID, extraDays, charge.StringFixed(2))

	current, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	return &Response{
		Booking:      bookingModels.FromDomainBooking(current),
		ExtraDays:    extraDays,
		ChargeAmount: charge.StringFixed(2),
	}, nil
}

// checkPickupSlot проверяет доступность окна возврата на новую дату
func (uc *UseCase) checkPickupSlot(ctx context.Context, svc *domain.Service, booking *domain.Booking, newPickup time.Time) error {
	rules, err := uc.availabilityRepo.GetRulesByService(ctx, svc.ID)
	if err != nil {
		uc.logger.Error("ExtendBooking: failed to get rules for service id=%d: %v", svc.ID, err)
		return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	blackouts, err := uc.availabilityRepo.GetBlackouts(ctx, svc.ID, newPickup, newPickup)
	if err != nil {
		uc.logger.Error("ExtendBooking: failed to get blackouts for service id=%d: %v", svc.ID, err)
		return fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	day := domain.ResolveDay(svc, newPickup, uc.timeProvider.Now(), domain.RulesByWeekday(rules), blackouts)
	if !day.Available || !day.HasSlot(booking.PickupSlot) {
		uc.logger.Warn("ExtendBooking: pickup slot not available on %s for booking=%d",
			newPickup.Format(domain.DateFormat), booking.ID)
		return ErrSlotNotAvailable
	}

	return nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ExtendBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ExtendBooking: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}
	return booking, nil
}
