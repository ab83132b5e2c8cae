package list_services

import (
	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// Catalog интерфейс каталога услуг
type Catalog interface {
	GetServices() []*domain.Service
	EquipmentTypes() []*domain.EquipmentType
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
