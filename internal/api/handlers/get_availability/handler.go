package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/domain"
	getAvailability "github.com/bindrop/BDR-RentalService/internal/usecase/get_availability"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDates     = "некорректные параметры start/end (ожидается YYYY-MM-DD)"
	msgInvalidRange     = "некорректный диапазон дат"
	msgRangeTooLong     = "слишком длинный диапазон дат"
	msgServiceNotFound  = "услуга не найдена"
)

type Handler struct {
	useCase AvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	startDate, err := time.Parse(domain.DateFormat, r.URL.Query().Get("start"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid start date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	endDate, err := time.Parse(domain.DateFormat, r.URL.Query().Get("end"))
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid end date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailability.Request{
		ServiceID: serviceID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrRangeTooLong):
			h.logger.Warn("GET /services/{id}/availability - Range too long: service_id=%d", serviceID)
			handlers.RespondBadRequest(w, msgRangeTooLong)

		case errors.Is(err, getAvailability.ErrInvalidRange),
			errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /services/{id}/availability - Invalid range: service_id=%d, error=%v", serviceID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		default:
			h.logger.Error("GET /services/{id}/availability - Failed to resolve availability: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/availability - Resolved: service_id=%d, days=%d, unavailable=%t",
		serviceID, len(result.Days), result.TemporarilyUnavailable)
	handlers.RespondJSON(w, http.StatusOK, result)
}
