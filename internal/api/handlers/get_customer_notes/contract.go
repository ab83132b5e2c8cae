package get_customer_notes

import (
	"context"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// CustomerService интерфейс сервиса клиентов
type CustomerService interface {
	GetNotes(ctx context.Context, customerID int64) ([]*domain.CustomerNote, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
