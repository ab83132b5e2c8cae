package cancel_booking

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	bookingRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/booking"
	"github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) CancelIf(ctx context.Context, id int64, from domain.BookingStatus, reason string, adminFee decimal.Decimal, refund *domain.RefundRecord) error {
	args := m.Called(ctx, id, from, reason, adminFee, refund)
	return args.Error(0)
}

type mockInventory struct{ mock.Mock }

func (m *mockInventory) ReleaseAll(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

type mockPayClient struct{ mock.Mock }

func (m *mockPayClient) RefundCharge(ctx context.Context, chargeID string, amount decimal.Decimal, reason string) (*payservice.Refund, error) {
	args := m.Called(ctx, chargeID, amount, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payservice.Refund), args.Error(1)
}

type mockNotifyClient struct{ mock.Mock }

func (m *mockNotifyClient) SendAsync(n *notifyservice.Notification) {
	m.Called(n)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncBookingTransition(from, to string) { m.Called(from, to) }
func (m *mockMetrics) IncReconciliation(operation string)   { m.Called(operation) }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	repo      *mockBookingRepo
	inventory *mockInventory
	pay       *mockPayClient
	notify    *mockNotifyClient
	metrics   *mockMetrics
	uc        *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(mockBookingRepo),
		inventory: new(mockInventory),
		pay:       new(mockPayClient),
		notify:    new(mockNotifyClient),
		metrics:   new(mockMetrics),
	}
	f.uc = NewUseCase(f.repo, f.inventory, f.pay, f.notify, f.metrics, nopLogger{})
	return f
}

func decimalEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func confirmedBooking() *domain.Booking {
	chargeID := "ch_100"
	return &domain.Booking{
		ID:         42,
		CustomerID: 7,
		ServiceID:  1,
		TotalPrice: decimal.RequireFromString("250.00"),
		Status:     domain.StatusConfirmed,
		ChargeID:   &chargeID,
	}
}

func TestCancelBooking_FullRefund(t *testing.T) {
	f := newFixture()
	booking := confirmedBooking()

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
	f.pay.On("RefundCharge", mock.Anything, "ch_100", decimalEq("250.00"), "changed plans").
		Return(&payservice.Refund{RefundID: "rf_1"}, nil)
	f.repo.On("CancelIf", mock.Anything, int64(42), domain.StatusConfirmed, "changed plans", decimalEq("0"), mock.AnythingOfType("*domain.RefundRecord")).
		Return(nil)
	f.metrics.On("IncBookingTransition", "confirmed", "cancelled").Return()
	f.inventory.On("ReleaseAll", mock.Anything, int64(42)).Return(nil)
	f.notify.On("SendAsync", mock.AnythingOfType("*notifyservice.Notification")).Return()

	res, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, Reason: "changed plans"})

	require.NoError(t, err)
	assert.Equal(t, "250.00", res.RefundAmount)
	f.pay.AssertExpectations(t)
	f.repo.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestCancelBooking_AdminFeeReducesRefund(t *testing.T) {
	f := newFixture()
	booking := confirmedBooking()
	fee := "50.00"

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
	f.pay.On("RefundCharge", mock.Anything, "ch_100", decimalEq("200.00"), "no show").
		Return(&payservice.Refund{RefundID: "rf_2"}, nil)
	f.repo.On("CancelIf", mock.Anything, int64(42), domain.StatusConfirmed, "no show", decimalEq("50.00"), mock.Anything).
		Return(nil)
	f.metrics.On("IncBookingTransition", "confirmed", "cancelled").Return()
	f.inventory.On("ReleaseAll", mock.Anything, int64(42)).Return(nil)
	f.notify.On("SendAsync", mock.Anything).Return()

	res, err := f.uc.Execute(context.Background(), &Request{
		BookingID: 42, RequesterID: 1, IsAdmin: true, Reason: "no show", AdminFee: &fee,
	})

	require.NoError(t, err)
	assert.Equal(t, "200.00", res.RefundAmount)
	f.pay.AssertExpectations(t)
}

func TestCancelBooking_CustomerFeeIgnored(t *testing.T) {
	f := newFixture()
	booking := confirmedBooking()
	fee := "50.00"

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
	// Плата не применяется: возврат полной суммы
	f.pay.On("RefundCharge", mock.Anything, "ch_100", decimalEq("250.00"), "").
		Return(&payservice.Refund{RefundID: "rf_3"}, nil)
	f.repo.On("CancelIf", mock.Anything, int64(42), domain.StatusConfirmed, "", decimalEq("0"), mock.Anything).
		Return(nil)
	f.metrics.On("IncBookingTransition", "confirmed", "cancelled").Return()
	f.inventory.On("ReleaseAll", mock.Anything, int64(42)).Return(nil)
	f.notify.On("SendAsync", mock.Anything).Return()

	res, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, AdminFee: &fee})

	require.NoError(t, err)
	assert.Equal(t, "250.00", res.RefundAmount)
}

func TestCancelBooking_AccessDenied(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(confirmedBooking(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 999})

	assert.ErrorIs(t, err, ErrAccessDenied)
	f.pay.AssertNotCalled(t, "RefundCharge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7})

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancelBooking_TerminalStatus(t *testing.T) {
	f := newFixture()
	booking := confirmedBooking()
	booking.Status = domain.StatusCompleted
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancelBooking_RefundFailedKeepsState(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(confirmedBooking(), nil)
	f.pay.On("RefundCharge", mock.Anything, "ch_100", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7})

	assert.ErrorIs(t, err, ErrRefundFailed)
	// Состояние не трогали: отмену можно повторить
	f.repo.AssertNotCalled(t, "CancelIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_ReconciliationAfterRefund(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(confirmedBooking(), nil)
	f.pay.On("RefundCharge", mock.Anything, "ch_100", mock.Anything, mock.Anything).
		Return(&payservice.Refund{RefundID: "rf_9"}, nil)
	f.repo.On("CancelIf", mock.Anything, int64(42), domain.StatusConfirmed, mock.Anything, mock.Anything, mock.Anything).
		Return(bookingRepo.ErrStaleState)
	f.metrics.On("IncReconciliation", "cancel_refund").Return()

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7})

	assert.ErrorIs(t, err, ErrReconciliation)
	assert.Contains(t, err.Error(), "rf_9")
	f.metrics.AssertExpectations(t)
}

func TestCancelBooking_StaleStateWithoutRefund(t *testing.T) {
	f := newFixture()
	booking := confirmedBooking()
	booking.ChargeID = nil // списания не было, возврат не нужен
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
	f.repo.On("CancelIf", mock.Anything, int64(42), domain.StatusConfirmed, mock.Anything, mock.Anything, mock.Anything).
		Return(bookingRepo.ErrStaleState)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7})

	assert.ErrorIs(t, err, ErrCannotCancel)
	f.pay.AssertNotCalled(t, "RefundCharge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_InvalidInput(t *testing.T) {
	f := newFixture()

	t.Run("NonPositiveID", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), &Request{BookingID: 0, RequesterID: 7})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("BadAdminFee", func(t *testing.T) {
		fee := "-10"
		_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 1, IsAdmin: true, AdminFee: &fee})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
