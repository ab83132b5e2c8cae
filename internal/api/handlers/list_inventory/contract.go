package list_inventory

import (
	"context"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/service/inventory/models"
)

// InventoryService интерфейс сервиса инвентаря
type InventoryService interface {
	ListItems(ctx context.Context, onDate time.Time) (*models.ItemListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
