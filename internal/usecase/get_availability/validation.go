package get_availability

import (
	"fmt"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidRange)
	}
	if domain.DateOnly(req.EndDate).Before(domain.DateOnly(req.StartDate)) {
		return fmt.Errorf("%w: end date is before start date", ErrInvalidRange)
	}

	days := int(domain.DateOnly(req.EndDate).Sub(domain.DateOnly(req.StartDate)).Hours()/24) + 1
	if days > domain.MaxAvailabilityRangeDays {
		return fmt.Errorf("%w: %d days requested, limit is %d", ErrRangeTooLong, days, domain.MaxAvailabilityRangeDays)
	}

	return nil
}
