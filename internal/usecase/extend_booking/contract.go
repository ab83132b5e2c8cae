package extend_booking

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ExtendIf(ctx context.Context, id int64, from domain.BookingStatus, newPickupDate time.Time) error
	AddFee(ctx context.Context, fee *domain.AppliedFee) (*domain.AppliedFee, error)
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetRulesByService(ctx context.Context, serviceID int64) ([]*domain.WeeklyAvailabilityRule, error)
	GetBlackouts(ctx context.Context, serviceID int64, from, to time.Time) ([]*domain.DateBlackout, error)
}

// Catalog интерфейс каталога услуг
type Catalog interface {
	GetService(id int64) (*domain.Service, error)
}

// PayServiceClient интерфейс клиента платежного сервиса
type PayServiceClient interface {
	ChargeStoredMethod(ctx context.Context, customerRef int64, amount decimal.Decimal, description string) (*payservice.Charge, error)
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
