package jobs

import (
	"context"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListStalePendingPayment(ctx context.Context, before time.Time) ([]*domain.Booking, error)
}

// Metrics интерфейс метрик фоновых задач
type Metrics interface {
	SetStalePendingPayments(n int)
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
