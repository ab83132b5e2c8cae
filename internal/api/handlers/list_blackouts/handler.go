package list_blackouts

import (
	"net/http"
	"strconv"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/domain"
)

const (
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidDates     = "некорректные параметры from/to (ожидается YYYY-MM-DD)"
	msgAdminOnly        = "операция доступна только администратору"
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

// Handle GET /api/v1/blackouts?serviceId=1&from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("GET /blackouts - Not an admin")
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	var serviceID int64
	if s := r.URL.Query().Get("serviceId"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			h.logger.Warn("GET /blackouts - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		serviceID = id
	}

	from, err := time.Parse(domain.DateFormat, r.URL.Query().Get("from"))
	if err != nil {
		h.logger.Warn("GET /blackouts - Invalid from date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	to, err := time.Parse(domain.DateFormat, r.URL.Query().Get("to"))
	if err != nil {
		h.logger.Warn("GET /blackouts - Invalid to date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDates)
		return
	}

	result, err := h.service.GetBlackouts(r.Context(), serviceID, from, to)
	if err != nil {
		h.logger.Error("GET /blackouts - Failed to list blackouts: service_id=%d, error=%v", serviceID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /blackouts - Blackouts listed: service_id=%d, count=%d", serviceID, len(result.Blackouts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
