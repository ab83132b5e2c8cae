package confirm_payment

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

func (m *mockBookingRepo) UpdateStatusIf(ctx context.Context, id int64, from, to domain.BookingStatus, stamps *domain.StatusStamps) error {
	args := m.Called(ctx, id, from, to, stamps)
	return args.Error(0)
}

func (m *mockBookingRepo) SetChargeID(ctx context.Context, id int64, chargeID string) error {
	args := m.Called(ctx, id, chargeID)
	return args.Error(0)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) GetService(id int64) (*domain.Service, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

type mockPayClient struct{ mock.Mock }

func (m *mockPayClient) ConfirmPayment(ctx context.Context, sessionID string) (*payservice.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payservice.CheckoutSession), args.Error(1)
}

type mockNotifyClient struct{ mock.Mock }

func (m *mockNotifyClient) SendAsync(n *notifyservice.Notification) { m.Called(n) }

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncBookingTransition(from, to string) { m.Called(from, to) }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	repo    *mockBookingRepo
	catalog *mockCatalog
	pay     *mockPayClient
	notify  *mockNotifyClient
	metrics *mockMetrics
	uc      *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(mockBookingRepo),
		catalog: new(mockCatalog),
		pay:     new(mockPayClient),
		notify:  new(mockNotifyClient),
		metrics: new(mockMetrics),
	}
	f.uc = NewUseCase(f.repo, f.catalog, f.pay, f.notify, f.metrics, nopLogger{})
	return f
}

func pendingBooking() *domain.Booking {
	session := "sess_1"
	return &domain.Booking{
		ID:               42,
		CustomerID:       7,
		ServiceID:        1,
		TotalPrice:       decimal.RequireFromString("375.00"),
		Status:           domain.StatusPendingPayment,
		PaymentSessionID: &session,
	}
}

func deliveredService() *domain.Service {
	return &domain.Service{ID: 1, Name: "Dumpster rental", RentalModel: domain.RentalStaffDelivered}
}

func pickupService() *domain.Service {
	return &domain.Service{ID: 1, Name: "Dump trailer rental", RentalModel: domain.RentalSelfPickup}
}

func TestConfirmPayment_Success(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)
	f.pay.On("ConfirmPayment", mock.Anything, "sess_1").
		Return(&payservice.CheckoutSession{SessionID: "sess_1", PaymentStatus: payservice.StatusPaid, ChargeID: "ch_1"}, nil)
	f.repo.On("SetChargeID", mock.Anything, int64(42), "ch_1").Return(nil)
	f.catalog.On("GetService", int64(1)).Return(deliveredService(), nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusPendingPayment, domain.StatusConfirmed, mock.Anything).Return(nil)
	f.metrics.On("IncBookingTransition", "pending_payment", "confirmed").Return()
	f.notify.On("SendAsync", mock.MatchedBy(func(n *notifyservice.Notification) bool {
		return n.Kind == notifyservice.KindBookingConfirmed
	})).Return()

	res, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	require.NoError(t, err)
	require.NotNil(t, res.Booking)
	f.repo.AssertExpectations(t)
	f.notify.AssertExpectations(t)
}

func TestConfirmPayment_SelfPickupNeedsReview(t *testing.T) {
	f := newFixture()
	booking := pendingBooking()
	// верификация неполная: нет фото документов
	plate := "AB1234"
	booking.Verification = domain.Verification{PlateNumber: &plate}

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)
	f.pay.On("ConfirmPayment", mock.Anything, "sess_1").
		Return(&payservice.CheckoutSession{PaymentStatus: payservice.StatusPaid, ChargeID: "ch_1"}, nil)
	f.repo.On("SetChargeID", mock.Anything, int64(42), "ch_1").Return(nil)
	f.catalog.On("GetService", int64(1)).Return(pickupService(), nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusPendingPayment, domain.StatusPendingReview, mock.Anything).Return(nil)
	f.metrics.On("IncBookingTransition", "pending_payment", "pending_review").Return()
	f.notify.On("SendAsync", mock.MatchedBy(func(n *notifyservice.Notification) bool {
		return n.Kind == notifyservice.KindReviewRequired && n.Recipient == "admin"
	})).Return()

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.notify.AssertExpectations(t)
}

func TestConfirmPayment_Idempotent(t *testing.T) {
	f := newFixture()
	booking := pendingBooking()
	booking.Status = domain.StatusConfirmed
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	res, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), res.Booking.Status)
	f.pay.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
	f.repo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_ConcurrentWinnerReturnsCurrentState(t *testing.T) {
	f := newFixture()
	pending := pendingBooking()
	confirmed := pendingBooking()
	confirmed.Status = domain.StatusConfirmed

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(pending, nil).Once()
	f.pay.On("ConfirmPayment", mock.Anything, "sess_1").
		Return(&payservice.CheckoutSession{PaymentStatus: payservice.StatusPaid}, nil)
	f.catalog.On("GetService", int64(1)).Return(deliveredService(), nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusPendingPayment, domain.StatusConfirmed, mock.Anything).
		Return(bookingRepo.ErrStaleState)
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(confirmed, nil).Once()

	res, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), res.Booking.Status)
	f.metrics.AssertNotCalled(t, "IncBookingTransition", mock.Anything, mock.Anything)
}

func TestConfirmPayment_Declined(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)
	f.pay.On("ConfirmPayment", mock.Anything, "sess_1").Return(nil, payservice.ErrPaymentDeclined)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestConfirmPayment_Timeout(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)
	f.pay.On("ConfirmPayment", mock.Anything, "sess_1").Return(nil, payservice.ErrConfirmTimeout)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	assert.ErrorIs(t, err, ErrConfirmTimeout)
	f.repo.AssertNotCalled(t, "UpdateStatusIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConfirmPayment_NoSession(t *testing.T) {
	f := newFixture()
	booking := pendingBooking()
	booking.PaymentSessionID = nil
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	assert.ErrorIs(t, err, ErrNoPaymentSession)
}

func TestConfirmPayment_IllegalTransition(t *testing.T) {
	f := newFixture()
	booking := pendingBooking()
	booking.Status = domain.StatusDelivered
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 7})

	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestConfirmPayment_AccessDenied(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(pendingBooking(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, CustomerID: 999})

	assert.ErrorIs(t, err, ErrAccessDenied)
}
