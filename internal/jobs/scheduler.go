package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler запускает фоновые задачи по расписанию
type Scheduler struct {
	cron    *cron.Cron
	sweeper *RetentionSweeper
	logger  Logger
}

// NewScheduler создает планировщик и регистрирует свип удержания.
// spec - выражение cron, например "0 * * * *" (раз в час)
func NewScheduler(sweeper *RetentionSweeper, spec string, logger Logger) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	s := &Scheduler{
		cron:    c,
		sweeper: sweeper,
		logger:  logger,
	}

	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sweeper.Run(ctx)
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Jobs scheduler started")
}

// Stop останавливает планировщик и дожидается завершения задач
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Jobs scheduler stopped")
}
