package add_customer_note

import (
	"context"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// CustomerService интерфейс сервиса клиентов
type CustomerService interface {
	AddNote(ctx context.Context, customerID, authorID int64, text string) (*domain.CustomerNote, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
