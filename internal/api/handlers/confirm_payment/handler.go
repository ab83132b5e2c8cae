package confirm_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	confirmPayment "github.com/bindrop/BDR-RentalService/internal/usecase/confirm_payment"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgNotFound          = "бронирование не найдено"
	msgForbidden         = "доступ запрещен"
	msgNoPaymentSession  = "у бронирования нет платежной сессии"
	msgPaymentDeclined   = "платеж отклонен"
	msgConfirmTimeout    = "не удалось дождаться подтверждения платежа"
	msgIllegalTransition = "бронирование не ожидает оплаты"
)

type Handler struct {
	useCase ConfirmPaymentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmPaymentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/confirm-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/confirm-payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/confirm-payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmPayment.Request{
		BookingID:  bookingID,
		CustomerID: customerID,
		IsAdmin:    middleware.GetIsAdmin(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmPayment.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/confirm-payment - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmPayment.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/confirm-payment - Access denied: booking_id=%d, user_id=%d",
				bookingID, customerID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, confirmPayment.ErrNoPaymentSession):
			h.logger.Warn("POST /bookings/{id}/confirm-payment - No payment session: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgNoPaymentSession)

		case errors.Is(err, confirmPayment.ErrPaymentDeclined):
			h.logger.Warn("POST /bookings/{id}/confirm-payment - Payment declined: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentDeclined)

		case errors.Is(err, confirmPayment.ErrConfirmTimeout):
			h.logger.Error("POST /bookings/{id}/confirm-payment - Confirmation timed out: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusGatewayTimeout, msgConfirmTimeout)

		case errors.Is(err, confirmPayment.ErrIllegalTransition):
			h.logger.Warn("POST /bookings/{id}/confirm-payment - Not awaiting payment: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgIllegalTransition)

		default:
			h.logger.Error("POST /bookings/{id}/confirm-payment - Failed to confirm payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/confirm-payment - Payment confirmed: booking_id=%d, status=%s",
		bookingID, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
