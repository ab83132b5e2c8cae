package add_customer_note

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/service/customers"
)

const (
	msgInvalidCustomerID  = "некорректный ID клиента"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgAdminOnly          = "операция доступна только администратору"
	msgEmptyText          = "текст заметки не может быть пустым"
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

// Handle POST /api/v1/customers/{customerId}/notes
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	customerID, err := strconv.ParseInt(vars["customerId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /customers/{id}/notes - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	authorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /customers/{id}/notes - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if !middleware.GetIsAdmin(r.Context()) {
		h.logger.Warn("POST /customers/{id}/notes - Not an admin: customer_id=%d, user_id=%d",
			customerID, authorID)
		handlers.RespondForbidden(w, msgAdminOnly)
		return
	}

	var req AddNoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /customers/{id}/notes - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	note, err := h.service.AddNote(r.Context(), customerID, authorID, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, customers.ErrInvalidInput):
			h.logger.Warn("POST /customers/{id}/notes - Empty text: customer_id=%d", customerID)
			handlers.RespondBadRequest(w, msgEmptyText)

		default:
			h.logger.Error("POST /customers/{id}/notes - Failed to add note: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /customers/{id}/notes - Note added: note_id=%d, customer_id=%d, author_id=%d",
		note.ID, customerID, authorID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomainNote(note))
}
