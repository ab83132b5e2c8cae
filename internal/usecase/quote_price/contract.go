package quote_price

import (
	"context"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/internal/integrations/geoservice"
)

// Catalog интерфейс каталога услуг
type Catalog interface {
	GetService(id int64) (*domain.Service, error)
	GetEquipmentType(code string) (*domain.EquipmentType, error)
}

// GeoServiceClient интерфейс клиента геосервиса
type GeoServiceClient interface {
	ResolveDistanceWithGracefulDegradation(ctx context.Context, req *geoservice.DistanceRequest) (*geoservice.DistanceResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
