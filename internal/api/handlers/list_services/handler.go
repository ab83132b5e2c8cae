package list_services

import (
	"net/http"

	"github.com/bindrop/BDR-RentalService/internal/api/handlers"
)

type Handler struct {
	catalog Catalog
	logger  Logger
}

func NewHandler(catalog Catalog, logger Logger) *Handler {
	return &Handler{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	services := h.catalog.GetServices()
	equipment := h.catalog.EquipmentTypes()

	h.logger.Info("GET /services - Catalog listed: services=%d, equipment=%d", len(services), len(equipment))
	handlers.RespondJSON(w, http.StatusOK, FromDomainCatalog(services, equipment))
}
