package confirm_payment

import (
	"context"

	confirmPayment "github.com/bindrop/BDR-RentalService/internal/usecase/confirm_payment"
)

// ConfirmPaymentUseCase интерфейс use case подтверждения оплаты
type ConfirmPaymentUseCase interface {
	Execute(ctx context.Context, req *confirmPayment.Request) (*confirmPayment.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
