package extend_booking

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	extendBooking "github.com/bindrop/BDR-RentalService/internal/usecase/extend_booking"
)

// ExtendBookingRequest HTTP request model
type ExtendBookingRequest struct {
	NewPickupDate string `json:"newPickupDate"` // "2026-07-15"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ExtendBookingRequest) ToUseCaseRequest(bookingID, requesterID int64, isAdmin bool) (*extendBooking.Request, error) {
	newPickupDate, err := time.Parse(domain.DateFormat, r.NewPickupDate)
	if err != nil {
		return nil, err
	}

	return &extendBooking.Request{
		BookingID:     bookingID,
		RequesterID:   requesterID,
		IsAdmin:       isAdmin,
		NewPickupDate: newPickupDate,
	}, nil
}
