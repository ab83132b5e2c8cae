package schedule

import (
	"context"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetRulesByService(ctx context.Context, serviceID int64) ([]*domain.WeeklyAvailabilityRule, error)
	UpsertRule(ctx context.Context, rule *domain.WeeklyAvailabilityRule) (*domain.WeeklyAvailabilityRule, error)
	GetBlackouts(ctx context.Context, serviceID int64, from, to time.Time) ([]*domain.DateBlackout, error)
	CreateBlackout(ctx context.Context, blackout *domain.DateBlackout) (*domain.DateBlackout, error)
	DeleteBlackout(ctx context.Context, id int64) error
}

// Catalog интерфейс каталога услуг
type Catalog interface {
	GetService(id int64) (*domain.Service, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
