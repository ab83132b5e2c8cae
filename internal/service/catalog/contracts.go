package catalog

import (
	"context"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// AvailabilityRepository интерфейс репозитория расписаний
type AvailabilityRepository interface {
	GetRulesByService(ctx context.Context, serviceID int64) ([]*domain.WeeklyAvailabilityRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
