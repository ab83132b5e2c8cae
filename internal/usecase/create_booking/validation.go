package create_booking

import (
	"fmt"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request, now time.Time) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerId must be positive", ErrInvalidInput)
	}
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if req.DropOffDate.IsZero() || req.PickupDate.IsZero() {
		return fmt.Errorf("%w: drop-off and pickup dates are required", ErrInvalidDate)
	}
	if domain.IsDateInPast(req.DropOffDate, now) {
		return fmt.Errorf("%w: drop-off date is in the past", ErrInvalidDate)
	}
	if domain.DateOnly(req.PickupDate).Before(domain.DateOnly(req.DropOffDate)) {
		return fmt.Errorf("%w: pickup date is before drop-off date", ErrInvalidDate)
	}

	if _, ok := domain.ParseSlotKey(req.DropOffSlot); !ok {
		return fmt.Errorf("%w: malformed drop-off slot %q", ErrInvalidInput, req.DropOffSlot)
	}
	if _, ok := domain.ParseSlotKey(req.PickupSlot); !ok {
		return fmt.Errorf("%w: malformed pickup slot %q", ErrInvalidInput, req.PickupSlot)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	for _, item := range req.Equipment {
		if item.Quantity <= 0 || item.Quantity > domain.MaxEquipmentQuantity {
			return fmt.Errorf("%w: equipment quantity out of range", ErrInvalidInput)
		}
	}

	if req.Verification.SkipReason != nil && len(*req.Verification.SkipReason) > domain.MaxSkipReasonLength {
		return fmt.Errorf("%w: skip reason exceeds %d characters", ErrInvalidInput, domain.MaxSkipReasonLength)
	}

	return nil
}

// validateVerification проверяет артефакты верификации для самовывоза
// Полный набор - номер тягача и оба фото; при неполном наборе
// обязательна причина пропуска, бронирование уйдёт на ручную проверку
func validateVerification(svc *domain.Service, v domain.Verification) error {
	if !svc.RequiresVerification() {
		return nil
	}
	if v.IsComplete() {
		return nil
	}
	if v.SkipReason == nil || *v.SkipReason == "" {
		return ErrVerificationRequired
	}
	return nil
}
