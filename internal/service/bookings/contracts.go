package bookings

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
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	UpdateStatusIf(ctx context.Context, id int64, from, to domain.BookingStatus, stamps *domain.StatusStamps) error
	ApproveIf(ctx context.Context, id int64) error
	AddFee(ctx context.Context, fee *domain.AppliedFee) (*domain.AppliedFee, error)
	AddReturnIssue(ctx context.Context, issue *domain.ReturnIssue) (*domain.ReturnIssue, error)
	GetReturnIssues(ctx context.Context, bookingID int64) ([]*domain.ReturnIssue, error)
	Delete(ctx context.Context, id int64) error
}

// InventoryService интерфейс сервиса инвентаря
type InventoryService interface {
	GetLinks(ctx context.Context, bookingID int64) ([]*domain.EquipmentLink, error)
	Release(ctx context.Context, bookingID int64, equipmentType string) error
	ReleaseAll(ctx context.Context, bookingID int64) error
}

// Catalog интерфейс каталога услуг
type Catalog interface {
	GetService(id int64) (*domain.Service, error)
}

// PayServiceClient интерфейс клиента платежного сервиса
type PayServiceClient interface {
	ChargeStoredMethod(ctx context.Context, customerRef int64, amount decimal.Decimal, description string) (*payservice.Charge, error)
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

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
