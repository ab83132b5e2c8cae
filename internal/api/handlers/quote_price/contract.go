package quote_price

import (
	"context"

	quotePrice "github.com/bindrop/BDR-RentalService/internal/usecase/quote_price"
)

// QuoteUseCase интерфейс use case предпросмотра цены
type QuoteUseCase interface {
	Execute(ctx context.Context, req *quotePrice.Request) (*quotePrice.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
