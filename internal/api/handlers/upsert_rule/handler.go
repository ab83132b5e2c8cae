package upsert_rule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/service/schedule"
	"github.com/bindrop/BDR-RentalService/internal/service/schedule/models"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAdminOnly          = "операция доступна только администратору"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidRule        = "некорректное правило расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/services/{serviceId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /services/{id}/schedule - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("PUT /services/{id}/schedule - Not an admin: service_id=%d", serviceID)
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	var req models.UpsertRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /services/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.ServiceID = serviceID

	result, err := h.service.UpsertRule(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrServiceNotFound):
			h.logger.Warn("PUT /services/{id}/schedule - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, schedule.ErrInvalidInput),
			errors.Is(err, schedule.ErrInvalidWindows):
			h.logger.Warn("PUT /services/{id}/schedule - Invalid rule: service_id=%d, weekday=%d, error=%v",
				serviceID, req.Weekday, err)
			handlers.RespondBadRequest(w, msgInvalidRule)

		default:
			h.logger.Error("PUT /services/{id}/schedule - Failed to upsert rule: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /services/{id}/schedule - Rule upserted: service_id=%d, weekday=%d, available=%t",
		serviceID, req.Weekday, req.IsAvailable)
	handlers.RespondJSON(w, http.StatusOK, result)
}
