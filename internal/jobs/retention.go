package jobs

import (
	"context"
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// RetentionSweeper находит бронирования, зависшие в pending_payment
// дольше окна удержания. Зависшие бронирования НЕ отменяются
// автоматически: деньги могли уже списаться, а подтверждение
// потеряться, поэтому свип только логирует и поднимает gauge -
// разбирается оператор
type RetentionSweeper struct {
	bookingRepo    BookingRepository
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
	retentionHours int
}

func NewRetentionSweeper(
	bookingRepo BookingRepository,
	metrics Metrics,
	timeProvider TimeProvider,
	logger Logger,
	retentionHours int,
) *RetentionSweeper {
	if retentionHours <= 0 {
		retentionHours = domain.DefaultRetentionHours
	}
	return &RetentionSweeper{
		bookingRepo:    bookingRepo,
		metrics:        metrics,
		timeProvider:   timeProvider,
		logger:         logger,
		retentionHours: retentionHours,
	}
}

// Run выполняет один проход свипа
func (s *RetentionSweeper) Run(ctx context.Context) {
	before := s.timeProvider.Now().Add(-time.Duration(s.retentionHours) * time.Hour)

	stale, err := s.bookingRepo.ListStalePendingPayment(ctx, before)
	if err != nil {
		s.logger.Error("RetentionSweeper: failed to list stale bookings: %v", err)
		return
	}

	if s.metrics != nil {
		s.metrics.SetStalePendingPayments(len(stale))
	}

	if len(stale) == 0 {
		s.logger.Info("RetentionSweeper: no stale pending_payment bookings")
		return
	}

	for _, b := range stale {
		s.logger.Warn("RetentionSweeper: booking stuck in pending_payment: booking_id=%d, customer_id=%d, created_at=%s",
			b.ID, b.CustomerID, b.CreatedAt.Format(time.RFC3339))
	}
	s.logger.Warn("RetentionSweeper: %d bookings require manual review", len(stale))
}
