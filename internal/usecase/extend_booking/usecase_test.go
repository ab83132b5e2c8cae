package extend_booking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	bookingRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/booking"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
	"github.com/bindrop/BDR-RentalService/pkg/types"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ExtendIf(ctx context.Context, id int64, from domain.BookingStatus, newPickupDate time.Time) error {
	args := m.Called(ctx, id, from, newPickupDate)
	return args.Error(0)
}

func (m *mockBookingRepo) AddFee(ctx context.Context, fee *domain.AppliedFee) (*domain.AppliedFee, error) {
	args := m.Called(ctx, fee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppliedFee), args.Error(1)
}

type mockAvailabilityRepo struct{ mock.Mock }

func (m *mockAvailabilityRepo) GetRulesByService(ctx context.Context, serviceID int64) ([]*domain.WeeklyAvailabilityRule, error) {
	args := m.Called(ctx, serviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.WeeklyAvailabilityRule), args.Error(1)
}

func (m *mockAvailabilityRepo) GetBlackouts(ctx context.Context, serviceID int64, from, to time.Time) ([]*domain.DateBlackout, error) {
	args := m.Called(ctx, serviceID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DateBlackout), args.Error(1)
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

func (m *mockPayClient) ChargeStoredMethod(ctx context.Context, customerRef int64, amount decimal.Decimal, description string) (*payservice.Charge, error) {
	args := m.Called(ctx, customerRef, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payservice.Charge), args.Error(1)
}

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncBookingTransition(from, to string) { m.Called(from, to) }
func (m *mockMetrics) IncReconciliation(operation string)   { m.Called(operation) }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	repo         *mockBookingRepo
	availability *mockAvailabilityRepo
	catalog      *mockCatalog
	pay          *mockPayClient
	metrics      *mockMetrics
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo:         new(mockBookingRepo),
		availability: new(mockAvailabilityRepo),
		catalog:      new(mockCatalog),
		pay:          new(mockPayClient),
		metrics:      new(mockMetrics),
	}
	f.uc = NewUseCase(f.repo, f.availability, f.catalog, f.pay, f.metrics, nopLogger{})
	return f
}

// Даты в далеком будущем, чтобы резолвер не закрыл их как прошедшие
var (
	currentPickup = time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)
	pickupSlot    = domain.TimeWindow{Start: types.TimeString("13:00"), End: types.TimeString("15:00")}
)

func activeBooking() *domain.Booking {
	return &domain.Booking{
		ID:         42,
		CustomerID: 7,
		ServiceID:  1,
		PickupDate: currentPickup,
		PickupSlot: pickupSlot,
		Status:     domain.StatusDelivered,
	}
}

func rentalService() *domain.Service {
	return &domain.Service{
		ID:          1,
		Name:        "Dumpster rental",
		PricingMode: domain.PricingFlatPlusDaily,
		SlotMode:    domain.SlotTimeWindow,
		DailyRate:   decimal.RequireFromString("25.00"),
	}
}

// allWeekOpen расписание, где каждое окно доступно каждый день
func allWeekOpen() []*domain.WeeklyAvailabilityRule {
	rules := make([]*domain.WeeklyAvailabilityRule, 0, 7)
	for wd := 0; wd < 7; wd++ {
		rules = append(rules, &domain.WeeklyAvailabilityRule{
			ServiceID:   1,
			Weekday:     wd,
			IsAvailable: true,
			Windows:     []domain.TimeWindow{pickupSlot},
		})
	}
	return rules
}

func decimalEq(s string) interface{} {
	want := decimal.RequireFromString(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func TestExtendBooking_Success(t *testing.T) {
	f := newFixture()
	newPickup := currentPickup.AddDate(0, 0, 2)

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(activeBooking(), nil)
	f.catalog.On("GetService", int64(1)).Return(rentalService(), nil)
	f.availability.On("GetRulesByService", mock.Anything, int64(1)).Return(allWeekOpen(), nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(1), newPickup, newPickup).Return([]*domain.DateBlackout{}, nil)
	f.pay.On("ChargeStoredMethod", mock.Anything, int64(7), decimalEq("50.00"), mock.Anything).
		Return(&payservice.Charge{ChargeID: "ch_ext_1"}, nil)
	f.repo.On("ExtendIf", mock.Anything, int64(42), domain.StatusDelivered, newPickup).Return(nil)
	f.repo.On("AddFee", mock.Anything, mock.MatchedBy(func(fee *domain.AppliedFee) bool {
		return fee.BookingID == 42 && fee.ChargeID == "ch_ext_1" && fee.Amount.Equal(decimal.RequireFromString("50.00"))
	})).Return(&domain.AppliedFee{ID: 1}, nil)

	res, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: newPickup})

	require.NoError(t, err)
	assert.Equal(t, 2, res.ExtraDays)
	assert.Equal(t, "50.00", res.ChargeAmount)
	f.repo.AssertExpectations(t)
	f.pay.AssertExpectations(t)
}

func TestExtendBooking_SlotLostOnNewDate(t *testing.T) {
	f := newFixture()
	newPickup := currentPickup.AddDate(0, 0, 2)

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(activeBooking(), nil)
	f.catalog.On("GetService", int64(1)).Return(rentalService(), nil)
	// Новая дата глобально заблокирована
	f.availability.On("GetRulesByService", mock.Anything, int64(1)).Return(allWeekOpen(), nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(1), newPickup, newPickup).
		Return([]*domain.DateBlackout{{Date: newPickup, ServiceID: nil}}, nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: newPickup})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	f.pay.AssertNotCalled(t, "ChargeStoredMethod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtendBooking_SlotMissingFromSchedule(t *testing.T) {
	f := newFixture()
	newPickup := currentPickup.AddDate(0, 0, 1)
	otherSlot := []*domain.WeeklyAvailabilityRule{}
	for wd := 0; wd < 7; wd++ {
		otherSlot = append(otherSlot, &domain.WeeklyAvailabilityRule{
			ServiceID:   1,
			Weekday:     wd,
			IsAvailable: true,
			Windows:     []domain.TimeWindow{{Start: types.TimeString("08:00"), End: types.TimeString("10:00")}},
		})
	}

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(activeBooking(), nil)
	f.catalog.On("GetService", int64(1)).Return(rentalService(), nil)
	f.availability.On("GetRulesByService", mock.Anything, int64(1)).Return(otherSlot, nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(1), newPickup, newPickup).Return([]*domain.DateBlackout{}, nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: newPickup})

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExtendBooking_ChargeFailedKeepsDate(t *testing.T) {
	f := newFixture()
	newPickup := currentPickup.AddDate(0, 0, 2)

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(activeBooking(), nil)
	f.catalog.On("GetService", int64(1)).Return(rentalService(), nil)
	f.availability.On("GetRulesByService", mock.Anything, int64(1)).Return(allWeekOpen(), nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(1), newPickup, newPickup).Return([]*domain.DateBlackout{}, nil)
	f.pay.On("ChargeStoredMethod", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: newPickup})

	assert.ErrorIs(t, err, ErrChargeFailed)
	// Дата не сдвинута: операцию можно повторить
	f.repo.AssertNotCalled(t, "ExtendIf", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExtendBooking_ReconciliationAfterCharge(t *testing.T) {
	f := newFixture()
	newPickup := currentPickup.AddDate(0, 0, 2)

	f.repo.On("GetByID", mock.Anything, int64(42)).Return(activeBooking(), nil)
	f.catalog.On("GetService", int64(1)).Return(rentalService(), nil)
	f.availability.On("GetRulesByService", mock.Anything, int64(1)).Return(allWeekOpen(), nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(1), newPickup, newPickup).Return([]*domain.DateBlackout{}, nil)
	f.pay.On("ChargeStoredMethod", mock.Anything, int64(7), mock.Anything, mock.Anything).
		Return(&payservice.Charge{ChargeID: "ch_ext_9"}, nil)
	f.repo.On("ExtendIf", mock.Anything, int64(42), domain.StatusDelivered, newPickup).Return(bookingRepo.ErrStaleState)
	f.metrics.On("IncReconciliation", "extension_charge").Return()

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: newPickup})

	assert.ErrorIs(t, err, ErrChargedButNotExtended)
	assert.Contains(t, err.Error(), "ch_ext_9")
	f.metrics.AssertExpectations(t)
}

func TestExtendBooking_Validation(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(activeBooking(), nil)

	t.Run("DateNotAfterCurrent", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: currentPickup})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("ExceedsMaxExtension", func(t *testing.T) {
		far := currentPickup.AddDate(0, 0, domain.MaxExtensionDays+1)
		_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: far})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("ZeroDate", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestExtendBooking_WrongStatus(t *testing.T) {
	f := newFixture()
	booking := activeBooking()
	booking.Status = domain.StatusPendingPayment
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking, nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 7, NewPickupDate: currentPickup.AddDate(0, 0, 1)})

	assert.ErrorIs(t, err, ErrCannotExtend)
}

func TestExtendBooking_AccessDenied(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(activeBooking(), nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 42, RequesterID: 999, NewPickupDate: currentPickup.AddDate(0, 0, 1)})

	assert.ErrorIs(t, err, ErrAccessDenied)
}
