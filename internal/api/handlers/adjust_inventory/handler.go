package adjust_inventory

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/service/inventory"
	"github.com/bindrop/BDR-RentalService/internal/service/inventory/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAdminOnly          = "операция доступна только администратору"
	msgItemNotFound       = "тип оборудования не найден"
	msgInvalidTotal       = "некорректное количество единиц"
)

type Handler struct {
	service InventoryService
	logger  Logger
}

func NewHandler(service InventoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/inventory/{equipmentType}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	equipmentType := vars["equipmentType"]

	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("PUT /inventory/{type} - Not an admin: type=%s", equipmentType)
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	var req models.AdjustTotalRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /inventory/{type} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AdjustTotal(r.Context(), equipmentType, req.TotalOwned)
	if err != nil {
		switch {
		case errors.Is(err, inventory.ErrItemNotFound):
			h.logger.Warn("PUT /inventory/{type} - Item not found: type=%s", equipmentType)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, inventory.ErrInvalidInput):
			h.logger.Warn("PUT /inventory/{type} - Invalid total: type=%s, total=%d", equipmentType, req.TotalOwned)
			handlers.RespondBadRequest(w, msgInvalidTotal)

		default:
			h.logger.Error("PUT /inventory/{type} - Failed to adjust total: type=%s, error=%v", equipmentType, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /inventory/{type} - Total adjusted: type=%s, total=%d", equipmentType, req.TotalOwned)
	handlers.RespondJSON(w, http.StatusOK, result)
}
