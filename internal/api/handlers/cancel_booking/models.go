package cancel_booking

import (
	cancelBooking "github.com/bindrop/BDR-RentalService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
// AdminFee учитывается только для административной отмены
type CancelBookingRequest struct {
	Reason   string  `json:"reason,omitempty"`
	AdminFee *string `json:"adminFee,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID, requesterID int64, isAdmin bool) *cancelBooking.Request {
	return &cancelBooking.Request{
		BookingID:   bookingID,
		RequesterID: requesterID,
		IsAdmin:     isAdmin,
		Reason:      r.Reason,
		AdminFee:    r.AdminFee,
	}
}
