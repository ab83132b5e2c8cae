package mark_returned

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/service/bookings"
	"github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAdminOnly          = "операция доступна только администратору"
	msgNotFound           = "бронирование не найдено"
	msgIllegalTransition  = "бронирование не находится в аренде"
	msgInvalidChecklist   = "некорректный чек-лист возврата"
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

// Handle POST /api/v1/bookings/{bookingId}/returned
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/returned - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("POST /bookings/{id}/returned - Not an admin: booking_id=%d", bookingID)
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	var req models.ReturnChecklistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/returned - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.MarkReturned(r.Context(), bookingID, &req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/returned - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrIllegalTransition),
			errors.Is(err, bookings.ErrStaleState):
			h.logger.Warn("POST /bookings/{id}/returned - Illegal transition: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgIllegalTransition)

		case errors.Is(err, bookings.ErrChargeFailed):
			// Возврат зафиксирован, но списание доп. платы не прошло:
			// отдаем результат со статусом 402, оператор повторит
			// списание вручную
			h.logger.Error("POST /bookings/{id}/returned - Fee charge failed: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondJSON(w, http.StatusPaymentRequired, result)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/returned - Invalid checklist: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidChecklist)

		default:
			h.logger.Error("POST /bookings/{id}/returned - Failed to mark returned: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/returned - Return processed: booking_id=%d, status=%s, issues=%d",
		bookingID, result.Status, len(result.Issues))
	handlers.RespondJSON(w, http.StatusOK, result)
}
