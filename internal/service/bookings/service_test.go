package bookings

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
	"github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
	"github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	args := m.Called(ctx, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) UpdateStatusIf(ctx context.Context, id int64, from, to domain.BookingStatus, stamps *domain.StatusStamps) error {
	args := m.Called(ctx, id, from, to, stamps)
	return args.Error(0)
}

func (m *mockBookingRepo) ApproveIf(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBookingRepo) AddFee(ctx context.Context, fee *domain.AppliedFee) (*domain.AppliedFee, error) {
	args := m.Called(ctx, fee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppliedFee), args.Error(1)
}

func (m *mockBookingRepo) AddReturnIssue(ctx context.Context, issue *domain.ReturnIssue) (*domain.ReturnIssue, error) {
	args := m.Called(ctx, issue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReturnIssue), args.Error(1)
}

func (m *mockBookingRepo) GetReturnIssues(ctx context.Context, bookingID int64) ([]*domain.ReturnIssue, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReturnIssue), args.Error(1)
}

func (m *mockBookingRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockInventory struct{ mock.Mock }

func (m *mockInventory) GetLinks(ctx context.Context, bookingID int64) ([]*domain.EquipmentLink, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EquipmentLink), args.Error(1)
}

func (m *mockInventory) Release(ctx context.Context, bookingID int64, equipmentType string) error {
	args := m.Called(ctx, bookingID, equipmentType)
	return args.Error(0)
}

func (m *mockInventory) ReleaseAll(ctx context.Context, bookingID int64) error {
	args := m.Called(ctx, bookingID)
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

func (m *mockPayClient) ChargeStoredMethod(ctx context.Context, customerRef int64, amount decimal.Decimal, description string) (*payservice.Charge, error) {
	args := m.Called(ctx, customerRef, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payservice.Charge), args.Error(1)
}

type mockNotifyClient struct{ mock.Mock }

func (m *mockNotifyClient) SendAsync(n *notifyservice.Notification) { m.Called(n) }

type mockMetrics struct{ mock.Mock }

func (m *mockMetrics) IncBookingTransition(from, to string) { m.Called(from, to) }
func (m *mockMetrics) IncReconciliation(operation string)   { m.Called(operation) }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	repo      *mockBookingRepo
	inventory *mockInventory
	catalog   *mockCatalog
	pay       *mockPayClient
	notify    *mockNotifyClient
	metrics   *mockMetrics
	svc       *Service
}

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repo:      new(mockBookingRepo),
		inventory: new(mockInventory),
		catalog:   new(mockCatalog),
		pay:       new(mockPayClient),
		notify:    new(mockNotifyClient),
		metrics:   new(mockMetrics),
	}
	f.svc = NewService(f.repo, f.inventory, f.catalog, f.pay, f.notify, f.metrics, fixedTime{testNow}, nopLogger{})
	return f
}

func booking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:         42,
		CustomerID: 7,
		ServiceID:  1,
		Status:     status,
		TotalPrice: decimal.RequireFromString("375.00"),
	}
}

func trailerSvc() *domain.Service {
	return &domain.Service{
		ID:                   1,
		Name:                 "Dump trailer rental",
		RentalModel:          domain.RentalSelfPickup,
		ChecklistCleanliness: true,
	}
}

func dumpsterSvc() *domain.Service {
	return &domain.Service{ID: 1, Name: "Dumpster rental", RentalModel: domain.RentalStaffDelivered}
}

func TestGetByID_OwnerAndAdmin(t *testing.T) {
	t.Run("Owner", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)

		resp, err := f.svc.GetByID(context.Background(), 42, 7, false)

		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
	})

	t.Run("Stranger", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)

		_, err := f.svc.GetByID(context.Background(), 42, 999, false)

		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("Admin", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)

		_, err := f.svc.GetByID(context.Background(), 42, 999, true)

		require.NoError(t, err)
	})
}

func TestApprove(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusPendingReview), nil)
		f.repo.On("ApproveIf", mock.Anything, int64(42)).Return(nil)
		f.metrics.On("IncBookingTransition", "pending_review", "confirmed").Return()
		f.notify.On("SendAsync", mock.MatchedBy(func(n *notifyservice.Notification) bool {
			return n.Kind == notifyservice.KindBookingConfirmed
		})).Return()

		_, err := f.svc.Approve(context.Background(), 42)

		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})

	t.Run("NotPendingReview", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)

		_, err := f.svc.Approve(context.Background(), 42)

		assert.ErrorIs(t, err, ErrIllegalTransition)
	})

	t.Run("StaleState", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusPendingReview), nil)
		f.repo.On("ApproveIf", mock.Anything, int64(42)).Return(bookingRepo.ErrStaleState)

		_, err := f.svc.Approve(context.Background(), 42)

		assert.ErrorIs(t, err, ErrStaleState)
	})
}

func TestMarkDelivered(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)
		f.catalog.On("GetService", int64(1)).Return(dumpsterSvc(), nil)
		f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusConfirmed, domain.StatusDelivered,
			mock.MatchedBy(func(s *domain.StatusStamps) bool {
				return s.DeliveredAt != nil && s.RentedOutAt != nil && s.DeliveredAt.Equal(testNow)
			})).Return(nil)
		f.metrics.On("IncBookingTransition", "confirmed", "delivered").Return()

		_, err := f.svc.MarkDelivered(context.Background(), 42)

		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})

	t.Run("SelfPickupService", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)
		f.catalog.On("GetService", int64(1)).Return(trailerSvc(), nil)

		_, err := f.svc.MarkDelivered(context.Background(), 42)

		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestMarkPickedUp(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)
	f.catalog.On("GetService", int64(1)).Return(trailerSvc(), nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusConfirmed, domain.StatusWaitingReturn,
		mock.MatchedBy(func(s *domain.StatusStamps) bool {
			return s.PickedUpAt != nil && s.RentedOutAt != nil
		})).Return(nil)
	f.metrics.On("IncBookingTransition", "confirmed", "waiting_to_be_returned").Return()

	_, err := f.svc.MarkPickedUp(context.Background(), 42)

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestMarkReturned_CleanChecklist(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusWaitingReturn), nil)
	f.catalog.On("GetService", int64(1)).Return(trailerSvc(), nil)
	f.inventory.On("GetLinks", mock.Anything, int64(42)).Return([]*domain.EquipmentLink{
		{BookingID: 42, EquipmentType: "wheelbarrow", Quantity: 2},
	}, nil)
	f.inventory.On("Release", mock.Anything, int64(42), "wheelbarrow").Return(nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusWaitingReturn, domain.StatusCompleted,
		mock.MatchedBy(func(s *domain.StatusStamps) bool { return s.ReturnedAt != nil })).Return(nil)
	f.metrics.On("IncBookingTransition", "waiting_to_be_returned", "completed").Return()

	cleaned, undamaged := true, true
	result, err := f.svc.MarkReturned(context.Background(), 42, &models.ReturnChecklistRequest{
		Items:     []models.ChecklistItem{{EquipmentType: "wheelbarrow", Returned: true}},
		Cleaned:   &cleaned,
		Undamaged: &undamaged,
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), result.Status)
	assert.Empty(t, result.Issues)
	f.inventory.AssertExpectations(t)
}

func TestMarkReturned_UnreturnedItemFlagsBooking(t *testing.T) {
	f := newFixture()
	fee := "15.00"
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusWaitingReturn), nil)
	f.catalog.On("GetService", int64(1)).Return(trailerSvc(), nil)
	f.inventory.On("GetLinks", mock.Anything, int64(42)).Return([]*domain.EquipmentLink{
		{BookingID: 42, EquipmentType: "wheelbarrow", Quantity: 1},
	}, nil)
	f.pay.On("ChargeStoredMethod", mock.Anything, int64(7),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(decimal.RequireFromString("15.00")) }),
		mock.Anything).Return(&payservice.Charge{ChargeID: "ch_f1"}, nil)
	f.repo.On("AddFee", mock.Anything, mock.Anything).Return(&domain.AppliedFee{ID: 1}, nil)
	f.repo.On("AddReturnIssue", mock.Anything, mock.MatchedBy(func(i *domain.ReturnIssue) bool {
		return i.Item == "wheelbarrow" && i.Kind == domain.IssueNotReturned && i.FeeCharged != nil
	})).Return(&domain.ReturnIssue{ID: 1, Item: "wheelbarrow", Kind: domain.IssueNotReturned}, nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusWaitingReturn, domain.StatusFlagged, mock.Anything).Return(nil)
	f.metrics.On("IncBookingTransition", "waiting_to_be_returned", "flagged").Return()
	f.notify.On("SendAsync", mock.MatchedBy(func(n *notifyservice.Notification) bool {
		return n.Kind == notifyservice.KindBookingFlagged
	})).Return()

	result, err := f.svc.MarkReturned(context.Background(), 42, &models.ReturnChecklistRequest{
		Items: []models.ChecklistItem{{EquipmentType: "wheelbarrow", Returned: false, Fee: &fee}},
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusFlagged), result.Status)
	require.Len(t, result.Issues, 1)
	// Невозвращённое оборудование не освобождается
	f.inventory.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkReturned_ChargeFailureKeepsIssue(t *testing.T) {
	f := newFixture()
	fee := "50.00"
	cleaned := false
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusWaitingReturn), nil)
	f.catalog.On("GetService", int64(1)).Return(trailerSvc(), nil)
	f.inventory.On("GetLinks", mock.Anything, int64(42)).Return([]*domain.EquipmentLink{}, nil)
	f.pay.On("ChargeStoredMethod", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(nil, assert.AnError)
	f.metrics.On("IncReconciliation", "return_fee_charge").Return()
	// Сбой списания не отменяет фиксацию проблемы - без платы
	f.repo.On("AddReturnIssue", mock.Anything, mock.MatchedBy(func(i *domain.ReturnIssue) bool {
		return i.Item == "cleanliness" && i.FeeCharged == nil
	})).Return(&domain.ReturnIssue{ID: 2, Item: "cleanliness", Kind: domain.IssueNotCleaned}, nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusWaitingReturn, domain.StatusFlagged, mock.Anything).Return(nil)
	f.metrics.On("IncBookingTransition", "waiting_to_be_returned", "flagged").Return()
	f.notify.On("SendAsync", mock.Anything).Return()

	result, err := f.svc.MarkReturned(context.Background(), 42, &models.ReturnChecklistRequest{
		Cleaned:     &cleaned,
		CleaningFee: &fee,
	})

	// Результат возвращается ВМЕСТЕ с ошибкой: оператор видит журнал
	assert.ErrorIs(t, err, ErrChargeFailed)
	require.NotNil(t, result)
	assert.Equal(t, string(domain.StatusFlagged), result.Status)
	f.metrics.AssertExpectations(t)
}

func TestMarkReturned_CleanlinessIgnoredForDumpster(t *testing.T) {
	f := newFixture()
	cleaned := false
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusDelivered), nil)
	f.catalog.On("GetService", int64(1)).Return(dumpsterSvc(), nil)
	f.inventory.On("GetLinks", mock.Anything, int64(42)).Return([]*domain.EquipmentLink{}, nil)
	f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusDelivered, domain.StatusCompleted, mock.Anything).Return(nil)
	f.metrics.On("IncBookingTransition", "delivered", "completed").Return()

	result, err := f.svc.MarkReturned(context.Background(), 42, &models.ReturnChecklistRequest{Cleaned: &cleaned})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), result.Status)
	f.pay.AssertNotCalled(t, "ChargeStoredMethod", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkReturned_WrongStatus(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusConfirmed), nil)

	_, err := f.svc.MarkReturned(context.Background(), 42, &models.ReturnChecklistRequest{})

	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestResolveFlagged(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusFlagged), nil)
		f.repo.On("UpdateStatusIf", mock.Anything, int64(42), domain.StatusFlagged, domain.StatusCompleted, mock.Anything).Return(nil)
		f.metrics.On("IncBookingTransition", "flagged", "completed").Return()

		_, err := f.svc.ResolveFlagged(context.Background(), 42)

		require.NoError(t, err)
	})

	t.Run("NotFlagged", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusCompleted), nil)

		_, err := f.svc.ResolveFlagged(context.Background(), 42)

		assert.ErrorIs(t, err, ErrIllegalTransition)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture()
	f.repo.On("GetByID", mock.Anything, int64(42)).Return(booking(domain.StatusCancelled), nil)
	f.inventory.On("ReleaseAll", mock.Anything, int64(42)).Return(nil)
	f.repo.On("Delete", mock.Anything, int64(42)).Return(nil)

	err := f.svc.Delete(context.Background(), 42)

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
}

func TestGetCustomerBookings_InvalidStatus(t *testing.T) {
	f := newFixture()
	bad := "paid"

	_, err := f.svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 7,
		Status:     &bad,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
