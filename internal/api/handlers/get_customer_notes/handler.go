package get_customer_notes

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgAdminOnly         = "операция доступна только администратору"
)

type Handler struct {
	service CustomerService
	logger  Logger
}

func NewHandler(service CustomerService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/{customerId}/notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	customerID, err := strconv.ParseInt(vars["customerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/notes - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("GET /customers/{id}/notes - Not an admin: customer_id=%d", customerID)
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	notes, err := h.service.GetNotes(r.Context(), customerID)
	if err != nil {
		h.logger.Error("GET /customers/{id}/notes - Failed to list notes: customer_id=%d, error=%v",
			customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /customers/{id}/notes - Notes listed: customer_id=%d, count=%d", customerID, len(notes))
	handlers.RespondJSON(w, http.StatusOK, FromDomainNotes(customerID, notes))
}
