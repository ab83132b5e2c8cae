package create_booking

import (
	"context"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/internal/integrations/geoservice"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
	invModels "github.com/bindrop/BDR-RentalService/internal/service/inventory/models"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	SetPaymentSession(ctx context.Context, id int64, sessionID string) error
}

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetRulesByService(ctx context.Context, serviceID int64) ([]*domain.WeeklyAvailabilityRule, error)
	GetBlackouts(ctx context.Context, serviceID int64, from, to time.Time) ([]*domain.DateBlackout, error)
}

// InventoryService интерфейс сервиса инвентаря
type InventoryService interface {
	HoldInTx(ctx context.Context, bookingID int64, items []invModels.HoldItem, from, to time.Time) error
}

// Catalog интерфейс каталога услуг
type Catalog interface {
	GetService(id int64) (*domain.Service, error)
	GetEquipmentType(code string) (*domain.EquipmentType, error)
}

// PayServiceClient интерфейс клиента платежного сервиса
type PayServiceClient interface {
	CreateCheckoutSession(ctx context.Context, req *payservice.CheckoutSessionRequest) (*payservice.CheckoutSession, error)
}

// GeoServiceClient интерфейс клиента геосервиса
type GeoServiceClient interface {
	ResolveDistanceWithGracefulDegradation(ctx context.Context, req *geoservice.DistanceRequest) (*geoservice.DistanceResult, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
