package create_booking

import (
	"errors"
	"net/http"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	createBooking "github.com/bindrop/BDR-RentalService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidDates         = "некорректные даты бронирования (ожидается YYYY-MM-DD)"
	msgMissingUserID        = "отсутствует ID пользователя"
	msgServiceNotFound      = "услуга не найдена"
	msgEquipmentNotFound    = "неизвестный тип оборудования"
	msgSlotNotAvailable     = "выбранный слот недоступен"
	msgInsufficientStock    = "недостаточно оборудования на выбранные даты"
	msgVerificationRequired = "требуются данные верификации или причина их отсутствия"
	msgAddressNotFound      = "адрес доставки не найден"
	msgOutOfServiceArea     = "адрес вне зоны обслуживания"
	msgPaymentSessionFailed = "не удалось создать платежную сессию"
	msgInvalidInput         = "некорректные данные запроса"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	ucReq, err := req.ToUseCaseRequest(customerID)
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid dates: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ucReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrEquipmentNotFound):
			h.logger.Warn("POST /bookings - Equipment not found: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgEquipmentNotFound)

		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: customer_id=%d, service_id=%d",
				customerID, req.ServiceID)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrInsufficientInventory):
			h.logger.Warn("POST /bookings - Insufficient inventory: customer_id=%d, service_id=%d",
				customerID, req.ServiceID)
			handlers.RespondConflict(w, msgInsufficientStock)

		case errors.Is(err, createBooking.ErrVerificationRequired):
			h.logger.Warn("POST /bookings - Verification required: customer_id=%d", customerID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgVerificationRequired)

		case errors.Is(err, createBooking.ErrAddressNotFound):
			h.logger.Warn("POST /bookings - Address not found: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgAddressNotFound)

		case errors.Is(err, createBooking.ErrOutOfServiceArea):
			h.logger.Warn("POST /bookings - Out of service area: customer_id=%d", customerID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOutOfServiceArea)

		case errors.Is(err, createBooking.ErrPaymentSessionFailed):
			h.logger.Error("POST /bookings - Payment session failed: customer_id=%d, error=%v", customerID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgPaymentSessionFailed)

		case errors.Is(err, createBooking.ErrInvalidDate),
			errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: customer_id=%d, error=%v", customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%d, customer_id=%d, session_id=%s",
		result.Booking.ID, customerID, result.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
