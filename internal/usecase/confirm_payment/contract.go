package confirm_payment

import (
	"context"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatusIf(ctx context.Context, id int64, from, to domain.BookingStatus, stamps *domain.StatusStamps) error
	SetChargeID(ctx context.Context, id int64, chargeID string) error
}

// Catalog интерфейс каталога услуг
type Catalog interface {
	GetService(id int64) (*domain.Service, error)
}

// PayServiceClient интерфейс клиента платежного сервиса
type PayServiceClient interface {
	ConfirmPayment(ctx context.Context, sessionID string) (*payservice.CheckoutSession, error)
}

// NotifyServiceClient интерфейс клиента сервиса уведомлений
type NotifyServiceClient interface {
	SendAsync(n *notifyservice.Notification)
}

// Metrics интерфейс счетчиков бизнес-метрик
type Metrics interface {
	IncBookingTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
