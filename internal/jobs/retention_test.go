package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) ListStalePendingPayment(ctx context.Context, before time.Time) ([]*domain.Booking, error) {
	args := m.Called(ctx, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) SetStalePendingPayments(n int) { m.Called(n) }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var sweepNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func TestRetentionSweeper_Run(t *testing.T) {
	t.Run("CutoffUsesRetentionWindow", func(t *testing.T) {
		repo := new(mockBookingRepo)
		metrics := new(mockMetrics)
		sweeper := NewRetentionSweeper(repo, metrics, fixedTime{sweepNow}, nopLogger{}, 48)

		repo.On("ListStalePendingPayment", mock.Anything, sweepNow.Add(-48*time.Hour)).
			Return([]*domain.Booking{}, nil)
		metrics.On("SetStalePendingPayments", 0).Return()

		sweeper.Run(context.Background())

		repo.AssertExpectations(t)
		metrics.AssertExpectations(t)
	})

	t.Run("StaleBookingsRaiseGauge", func(t *testing.T) {
		repo := new(mockBookingRepo)
		metrics := new(mockMetrics)
		sweeper := NewRetentionSweeper(repo, metrics, fixedTime{sweepNow}, nopLogger{}, 24)

		stale := []*domain.Booking{
			{ID: 1, CustomerID: 7, Status: domain.StatusPendingPayment, CreatedAt: sweepNow.Add(-30 * time.Hour)},
			{ID: 2, CustomerID: 8, Status: domain.StatusPendingPayment, CreatedAt: sweepNow.Add(-72 * time.Hour)},
		}
		repo.On("ListStalePendingPayment", mock.Anything, mock.Anything).Return(stale, nil)
		metrics.On("SetStalePendingPayments", 2).Return()

		sweeper.Run(context.Background())

		metrics.AssertExpectations(t)
	})

	t.Run("RepositoryErrorSkipsGauge", func(t *testing.T) {
		repo := new(mockBookingRepo)
		metrics := new(mockMetrics)
		sweeper := NewRetentionSweeper(repo, metrics, fixedTime{sweepNow}, nopLogger{}, 24)

		repo.On("ListStalePendingPayment", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		sweeper.Run(context.Background())

		metrics.AssertNotCalled(t, "SetStalePendingPayments", mock.Anything)
	})

	t.Run("DefaultRetentionWindow", func(t *testing.T) {
		repo := new(mockBookingRepo)
		sweeper := NewRetentionSweeper(repo, nil, fixedTime{sweepNow}, nopLogger{}, 0)

		cutoff := sweepNow.Add(-time.Duration(domain.DefaultRetentionHours) * time.Hour)
		repo.On("ListStalePendingPayment", mock.Anything, cutoff).Return([]*domain.Booking{}, nil)

		sweeper.Run(context.Background())

		repo.AssertExpectations(t)
	})
}

func TestNewScheduler_BadSpec(t *testing.T) {
	sweeper := NewRetentionSweeper(new(mockBookingRepo), nil, &RealTimeProvider{}, nopLogger{}, 24)

	_, err := NewScheduler(sweeper, "not a cron spec", nopLogger{})

	assert.Error(t, err)
}
