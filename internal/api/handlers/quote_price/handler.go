package quote_price

import (
	"errors"
	"net/http"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	quotePrice "github.com/bindrop/BDR-RentalService/internal/usecase/quote_price"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgServiceNotFound    = "услуга не найдена"
	msgEquipmentNotFound  = "неизвестный тип оборудования"
	msgAddressNotFound    = "адрес доставки не найден"
	msgOutOfServiceArea   = "адрес вне зоны обслуживания"
	msgInvalidInput       = "некорректные данные запроса"
)

type Handler struct {
	useCase QuoteUseCase
	logger  Logger
}

func NewHandler(useCase QuoteUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/quotes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /quotes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, quotePrice.ErrServiceNotFound):
			h.logger.Warn("POST /quotes - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, quotePrice.ErrEquipmentNotFound):
			h.logger.Warn("POST /quotes - Equipment not found: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondBadRequest(w, msgEquipmentNotFound)

		case errors.Is(err, quotePrice.ErrAddressNotFound):
			h.logger.Warn("POST /quotes - Address not found: service_id=%d", req.ServiceID)
			handlers.RespondBadRequest(w, msgAddressNotFound)

		case errors.Is(err, quotePrice.ErrOutOfServiceArea):
			h.logger.Warn("POST /quotes - Out of service area: service_id=%d", req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgOutOfServiceArea)

		case errors.Is(err, quotePrice.ErrInvalidInput):
			h.logger.Warn("POST /quotes - Invalid input: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /quotes - Failed to compute quote: service_id=%d, error=%v", req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /quotes - Quote computed: service_id=%d, total=%s, fallback=%t",
		req.ServiceID, result.Total, result.Fallback)
	handlers.RespondJSON(w, http.StatusOK, result)
}
