package inventory

import (
	"context"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// InventoryRepository интерфейс репозитория инвентаря
type InventoryRepository interface {
	GetItems(ctx context.Context) ([]*domain.InventoryItem, error)
	GetItem(ctx context.Context, equipmentType string) (*domain.InventoryItem, error)
	SetTotalOwned(ctx context.Context, equipmentType string, total int) (*domain.InventoryItem, error)
	HeldQuantity(ctx context.Context, equipmentType string, from, to time.Time) (int, error)
	CreateLink(ctx context.Context, link *domain.EquipmentLink) (*domain.EquipmentLink, error)
	GetLinksByBooking(ctx context.Context, bookingID int64) ([]*domain.EquipmentLink, error)
	ReleaseLink(ctx context.Context, bookingID int64, equipmentType string) error
	ReleaseAllForBooking(ctx context.Context, bookingID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
