package extend_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	extendBooking "github.com/bindrop/BDR-RentalService/internal/usecase/extend_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная новая дата забора (ожидается YYYY-MM-DD)"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotExtend       = "бронирование не может быть продлено"
	msgSlotNotAvailable   = "слот забора недоступен на новую дату"
	msgChargeFailed       = "не удалось списать оплату за продление"
)

type Handler struct {
	useCase ExtendBookingUseCase
	logger  Logger
}

func NewHandler(useCase ExtendBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/extend
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/extend - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/extend - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ExtendBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/extend - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(bookingID, requesterID, middleware.GetIsAdmin(r.Context()))
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/extend - Invalid date: booking_id=%d, error=%v", bookingID, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, extendBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/extend - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, extendBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/extend - Access denied: booking_id=%d, user_id=%d",
				bookingID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, extendBooking.ErrCannotExtend):
			h.logger.Warn("POST /bookings/{id}/extend - Cannot extend: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotExtend)

		case errors.Is(err, extendBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings/{id}/extend - Slot not available: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, extendBooking.ErrChargeFailed):
			h.logger.Error("POST /bookings/{id}/extend - Charge failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgChargeFailed)

		case errors.Is(err, extendBooking.ErrInvalidDate),
			errors.Is(err, extendBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/extend - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			// Сюда попадает и ErrChargedButNotExtended: списание прошло,
			// но дата не записалась - оператор разбирается вручную
			h.logger.Error("POST /bookings/{id}/extend - Failed to extend booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/extend - Booking extended: booking_id=%d, extra_days=%d, charge=%s",
		bookingID, result.ExtraDays, result.ChargeAmount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
