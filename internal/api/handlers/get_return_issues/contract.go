package get_return_issues

import (
	"context"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// BookingService интерфейс сервиса бронирований
type BookingService interface {
	GetReturnIssues(ctx context.Context, id int64) ([]*domain.ReturnIssue, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
