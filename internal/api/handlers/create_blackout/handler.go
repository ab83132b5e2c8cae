package create_blackout

import (
	"errors"
	"net/http"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/service/schedule"
	"github.com/bindrop/BDR-RentalService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAdminOnly          = "операция доступна только администратору"
	msgServiceNotFound    = "услуга не найдена"
	msgInvalidDate        = "некорректная дата блокировки"
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

// Handle POST /api/v1/blackouts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("POST /blackouts - Not an admin")
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	var req models.CreateBlackoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /blackouts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBlackout(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrServiceNotFound):
			h.logger.Warn("POST /blackouts - Service not found: date=%s", req.Date)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /blackouts - Invalid date: date=%q, error=%v", req.Date, err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("POST /blackouts - Failed to create blackout: date=%s, error=%v", req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /blackouts - Blackout created: id=%d, date=%s", result.ID, req.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
