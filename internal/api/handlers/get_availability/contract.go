package get_availability

import (
	"context"

	getAvailability "github.com/bindrop/BDR-RentalService/internal/usecase/get_availability"
)

// AvailabilityUseCase интерфейс use case резолвера доступности
type AvailabilityUseCase interface {
	Execute(ctx context.Context, req *getAvailability.Request) (*getAvailability.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
