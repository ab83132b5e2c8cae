package delete_blackout

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/service/schedule"
)

const (
	msgInvalidBlackoutID = "некорректный ID блокировки"
	msgAdminOnly         = "операция доступна только администратору"
	msgNotFound          = "блокировка не найдена"
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

// Handle DELETE /api/v1/blackouts/{blackoutId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	blackoutID, err := strconv.ParseInt(vars["blackoutId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /blackouts/{id} - Invalid blackout ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBlackoutID)
		return
	}

	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("DELETE /blackouts/{id} - Not an admin: blackout_id=%d", blackoutID)
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	if err := h.service.DeleteBlackout(r.Context(), blackoutID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrBlackoutNotFound):
			h.logger.Warn("DELETE /blackouts/{id} - Blackout not found: blackout_id=%d", blackoutID)
			handlers.RespondNotFound(w, msgNotFound)

		default:
			h.logger.Error("DELETE /blackouts/{id} - Failed to delete blackout: blackout_id=%d, error=%v",
				blackoutID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /blackouts/{id} - Blackout deleted: blackout_id=%d", blackoutID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
