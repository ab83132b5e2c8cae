package list_blackouts

import (
	"context"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	GetBlackouts(ctx context.Context, serviceID int64, from, to time.Time) (*models.BlackoutListResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
