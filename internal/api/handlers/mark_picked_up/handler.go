package mark_picked_up

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/service/bookings"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgAdminOnly         = "операция доступна только администратору"
	msgNotFound          = "бронирование не найдено"
	msgIllegalTransition = "бронирование не может быть отмечено выданным"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/picked-up
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/picked-up - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("POST /bookings/{id}/picked-up - Not an admin: booking_id=%d", bookingID)
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	booking, err := h.service.MarkPickedUp(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/picked-up - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrIllegalTransition),
			errors.Is(err, bookings.ErrStaleState):
			h.logger.Warn("POST /bookings/{id}/picked-up - Illegal transition: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgIllegalTransition)

		default:
			h.logger.Error("POST /bookings/{id}/picked-up - Failed to mark picked up: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/picked-up - Booking marked picked up: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
