package list_inventory

import (
	"net/http"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/domain"
)

const (
	msgInvalidDate = "некорректный параметр date (ожидается YYYY-MM-DD)"
	msgAdminOnly   = "операция доступна только администратору"
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

// Handle GET /api/v1/inventory?date=YYYY-MM-DD
// Без параметра date остатки считаются на сегодня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("GET /inventory - Not an admin")
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	onDate := domain.DateOnly(time.Now())
	if s := r.URL.Query().Get("date"); s != "" {
		d, err := time.Parse(domain.DateFormat, s)
		if err != nil {
			h.logger.Warn("GET /inventory - Invalid date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		onDate = domain.DateOnly(d)
	}

	result, err := h.service.ListItems(r.Context(), onDate)
	if err != nil {
		h.logger.Error("GET /inventory - Failed to list items: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /inventory - Items listed: count=%d", len(result.Items))
	handlers.RespondJSON(w, http.StatusOK, result)
}
