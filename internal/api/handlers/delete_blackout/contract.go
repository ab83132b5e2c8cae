package delete_blackout

import (
	"context"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	DeleteBlackout(ctx context.Context, id int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
