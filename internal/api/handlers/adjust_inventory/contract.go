package adjust_inventory

import (
	"context"

	"github.com/bindrop/BDR-RentalService/internal/service/inventory/models"
)

// InventoryService интерфейс сервиса инвентаря
type InventoryService interface {
	AdjustTotal(ctx context.Context, equipmentType string, total int) (*models.ItemResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
