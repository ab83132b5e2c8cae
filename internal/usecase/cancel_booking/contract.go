package cancel_booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	CancelIf(ctx context.Context, id int64, from domain.BookingStatus, reason string, adminFee decimal.Decimal, refund *domain.RefundRecord) error
}

// InventoryService интерфейс сервиса инвентаря
type InventoryService interface {
	ReleaseAll(ctx context.Context, bookingID int64) error
}

// PayServiceClient интерфейс клиента платежного сервиса
type PayServiceClient interface {
	RefundCharge(ctx context.Context, chargeID string, amount decimal.Decimal, reason string) (*payservice.Refund, error)
}

// NotifyServiceClient интерфейс клиента сервиса уведомлений
type NotifyServiceClient interface {
	SendAsync(n *notifyservice.Notification)
}

// Metrics интерфейс счетчиков бизнес-метрик
type Metrics interface {
	IncBookingTransition(from, to string)
	IncReconciliation(operation string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
