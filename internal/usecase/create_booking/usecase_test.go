package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	"github.com/bindrop/BDR-RentalService/internal/integrations/geoservice"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
	"github.com/bindrop/BDR-RentalService/internal/service/catalog"
	invService "github.com/bindrop/BDR-RentalService/internal/service/inventory"
	invModels "github.com/bindrop/BDR-RentalService/internal/service/inventory/models"
	"github.com/bindrop/BDR-RentalService/pkg/types"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) SetPaymentSession(ctx context.Context, id int64, sessionID string) error {
	args := m.Called(ctx, id, sessionID)
	return args.Error(0)
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

type mockInventory struct{ mock.Mock }

func (m *mockInventory) HoldInTx(ctx context.Context, bookingID int64, items []invModels.HoldItem, from, to time.Time) error {
	args := m.Called(ctx, bookingID, items, from, to)
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

func (m *mockCatalog) GetEquipmentType(code string) (*domain.EquipmentType, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EquipmentType), args.Error(1)
}

type mockPayClient struct{ mock.Mock }

func (m *mockPayClient) CreateCheckoutSession(ctx context.Context, req *payservice.CheckoutSessionRequest) (*payservice.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payservice.CheckoutSession), args.Error(1)
}

type mockGeoClient struct{ mock.Mock }

func (m *mockGeoClient) ResolveDistanceWithGracefulDegradation(ctx context.Context, req *geoservice.DistanceRequest) (*geoservice.DistanceResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geoservice.DistanceResult), args.Error(1)
}

// passthroughTx выполняет функцию без реальной транзакции
type passthroughTx struct{}

func (passthroughTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fixture struct {
	repo         *mockBookingRepo
	availability *mockAvailabilityRepo
	inventory    *mockInventory
	catalog      *mockCatalog
	pay          *mockPayClient
	geo          *mockGeoClient
	uc           *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo:         new(mockBookingRepo),
		availability: new(mockAvailabilityRepo),
		inventory:    new(mockInventory),
		catalog:      new(mockCatalog),
		pay:          new(mockPayClient),
		geo:          new(mockGeoClient),
	}
	f.uc = NewUseCase(
		f.repo, f.availability, f.inventory, f.catalog, f.pay, f.geo,
		passthroughTx{},
		CheckoutURLs{SuccessURL: "https://example.com/ok", CancelURL: "https://example.com/cancel"},
		nopLogger{},
	)
	return f
}

var (
	dropOff = time.Date(2030, 6, 3, 0, 0, 0, 0, time.UTC)
	pickup  = time.Date(2030, 6, 5, 0, 0, 0, 0, time.UTC)
	slot    = domain.TimeWindow{Start: types.TimeString("08:00"), End: types.TimeString("10:00")}
)

func dumpsterService() *domain.Service {
	return &domain.Service{
		ID:          1,
		Name:        "Dumpster rental",
		PricingMode: domain.PricingFlatPlusDaily,
		SlotMode:    domain.SlotTimeWindow,
		RentalModel: domain.RentalStaffDelivered,
		BasePrice:   decimal.RequireFromString("325.00"),
		DailyRate:   decimal.RequireFromString("25.00"),
		WeeklyPrice: decimal.RequireFromString("450.00"),
	}
}

func trailerService() *domain.Service {
	return &domain.Service{
		ID:          2,
		Name:        "Dump trailer rental",
		PricingMode: domain.PricingPerDayMultiplier,
		SlotMode:    domain.SlotFullDay,
		RentalModel: domain.RentalSelfPickup,
		DailyRate:   decimal.RequireFromString("95.00"),
	}
}

func allWeekOpen() []*domain.WeeklyAvailabilityRule {
	rules := make([]*domain.WeeklyAvailabilityRule, 0, 7)
	for wd := 0; wd < 7; wd++ {
		rules = append(rules, &domain.WeeklyAvailabilityRule{
			ServiceID:   1,
			Weekday:     wd,
			IsAvailable: true,
			Windows:     []domain.TimeWindow{slot},
		})
	}
	return rules
}

func validRequest() *Request {
	return &Request{
		CustomerID:  7,
		ServiceID:   1,
		DropOffDate: dropOff,
		DropOffSlot: "08:00-10:00",
		PickupDate:  pickup,
		PickupSlot:  "08:00-10:00",
	}
}

func stubOpenSchedule(f *fixture) {
	f.availability.On("GetRulesByService", mock.Anything, int64(1)).Return(allWeekOpen(), nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(1), dropOff, pickup).Return([]*domain.DateBlackout{}, nil)
}

func stubCreated(f *fixture) *domain.Booking {
	created := &domain.Booking{
		ID:          101,
		CustomerID:  7,
		ServiceID:   1,
		DropOffDate: dropOff,
		DropOffSlot: slot,
		PickupDate:  pickup,
		PickupSlot:  slot,
		TotalPrice:  decimal.RequireFromString("375.00"),
		Status:      domain.StatusPendingPayment,
	}
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(created, nil)
	return created
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	stubOpenSchedule(f)
	created := stubCreated(f)
	f.pay.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(req *payservice.CheckoutSessionRequest) bool {
		return req.BookingRef == "booking-101" && req.Amount.Equal(created.TotalPrice)
	})).Return(&payservice.CheckoutSession{SessionID: "sess_1"}, nil)
	f.repo.On("SetPaymentSession", mock.Anything, int64(101), "sess_1").Return(nil)

	res, err := f.uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "sess_1", res.SessionID)
	assert.Equal(t, string(domain.StatusPendingPayment), res.Booking.Status)
	assert.False(t, res.Degraded)
	f.repo.AssertExpectations(t)
	f.pay.AssertExpectations(t)
	// Без оборудования удержание не выполняется
	f.inventory.AssertNotCalled(t, "HoldInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateBooking_WithEquipmentHold(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	f.catalog.On("GetEquipmentType", "wheelbarrow").
		Return(&domain.EquipmentType{Code: "wheelbarrow", Name: "Wheelbarrow", PerUnitFee: decimal.RequireFromString("15.00")}, nil)
	stubOpenSchedule(f)
	stubCreated(f)
	f.inventory.On("HoldInTx", mock.Anything, int64(101), []invModels.HoldItem{{EquipmentType: "wheelbarrow", Quantity: 2}},
		domain.DateOnly(dropOff), domain.DateOnly(pickup)).Return(nil)
	f.pay.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&payservice.CheckoutSession{SessionID: "sess_2"}, nil)
	f.repo.On("SetPaymentSession", mock.Anything, int64(101), "sess_2").Return(nil)

	req := validRequest()
	req.Equipment = []EquipmentItem{{Type: "wheelbarrow", Quantity: 2}}

	_, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	f.inventory.AssertExpectations(t)
}

func TestCreateBooking_InsufficientInventory(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	f.catalog.On("GetEquipmentType", "wheelbarrow").
		Return(&domain.EquipmentType{Code: "wheelbarrow", Name: "Wheelbarrow"}, nil)
	stubOpenSchedule(f)
	stubCreated(f)
	f.inventory.On("HoldInTx", mock.Anything, int64(101), mock.Anything, mock.Anything, mock.Anything).
		Return(invService.ErrInsufficientInventory)

	req := validRequest()
	req.Equipment = []EquipmentItem{{Type: "wheelbarrow", Quantity: 40}}

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInsufficientInventory)
	f.pay.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestCreateBooking_SlotNotAvailable(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	f.availability.On("GetRulesByService", mock.Anything, int64(1)).Return(allWeekOpen(), nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(1), dropOff, pickup).
		Return([]*domain.DateBlackout{{Date: dropOff, ServiceID: nil}}, nil)

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_VerificationRequired(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(2)).Return(trailerService(), nil)

	req := validRequest()
	req.ServiceID = 2

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrVerificationRequired)
}

func TestCreateBooking_SkipReasonRoutesToReview(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(2)).Return(trailerService(), nil)
	f.availability.On("GetRulesByService", mock.Anything, int64(2)).Return([]*domain.WeeklyAvailabilityRule{
		{ServiceID: 2, Weekday: 1, IsAvailable: true, DayStart: tsPtr("07:00"), DayEnd: tsPtr("19:00")},
		{ServiceID: 2, Weekday: 2, IsAvailable: true, DayStart: tsPtr("07:00"), DayEnd: tsPtr("19:00")},
		{ServiceID: 2, Weekday: 3, IsAvailable: true, DayStart: tsPtr("07:00"), DayEnd: tsPtr("19:00")},
		{ServiceID: 2, Weekday: 4, IsAvailable: true, DayStart: tsPtr("07:00"), DayEnd: tsPtr("19:00")},
		{ServiceID: 2, Weekday: 5, IsAvailable: true, DayStart: tsPtr("07:00"), DayEnd: tsPtr("19:00")},
	}, nil)
	f.availability.On("GetBlackouts", mock.Anything, int64(2), dropOff, pickup).Return([]*domain.DateBlackout{}, nil)

	created := &domain.Booking{ID: 102, CustomerID: 7, ServiceID: 2, Status: domain.StatusPendingPayment, TotalPrice: decimal.RequireFromString("285.00")}
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Verification.SkipReason != nil && *b.Verification.SkipReason == "no trailer hitch photo yet"
	})).Return(created, nil)
	f.pay.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&payservice.CheckoutSession{SessionID: "sess_3"}, nil)
	f.repo.On("SetPaymentSession", mock.Anything, int64(102), "sess_3").Return(nil)

	skip := "no trailer hitch photo yet"
	req := validRequest()
	req.ServiceID = 2
	req.DropOffSlot = "07:00-19:00"
	req.PickupSlot = "07:00-19:00"
	req.Verification = VerificationInput{SkipReason: &skip}

	_, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestCreateBooking_PaymentSessionFailed(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	stubOpenSchedule(f)
	stubCreated(f)
	f.pay.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	_, err := f.uc.Execute(context.Background(), validRequest())

	// Бронирование уже создано и удерживает слот в pending_payment
	assert.ErrorIs(t, err, ErrPaymentSessionFailed)
	f.repo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_DistanceSurcharge(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	stubOpenSchedule(f)
	f.geo.On("ResolveDistanceWithGracefulDegradation", mock.Anything, mock.MatchedBy(func(r *geoservice.DistanceRequest) bool {
		return r.City == "Springfield"
	})).Return(&geoservice.DistanceResult{Miles: 40, InArea: true}, nil)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		// 325 + 2*25 + 8.00 надбавки за 10 миль сверх радиуса
		return b.Distance != nil && b.TotalPrice.Equal(decimal.RequireFromString("383.00"))
	})).Return(&domain.Booking{ID: 103, Status: domain.StatusPendingPayment, TotalPrice: decimal.RequireFromString("383.00")}, nil)
	f.pay.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&payservice.CheckoutSession{SessionID: "sess_4"}, nil)
	f.repo.On("SetPaymentSession", mock.Anything, int64(103), "sess_4").Return(nil)

	req := validRequest()
	req.Address = &Address{Street: "10 Main St", City: "Springfield", ZipCode: "01101"}

	_, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	f.repo.AssertExpectations(t)
}

func TestCreateBooking_GeoDegradedStillBooks(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	stubOpenSchedule(f)
	f.geo.On("ResolveDistanceWithGracefulDegradation", mock.Anything, mock.Anything).
		Return(nil, geoservice.ErrServiceDegraded)
	f.repo.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Distance == nil
	})).Return(&domain.Booking{ID: 104, Status: domain.StatusPendingPayment, TotalPrice: decimal.RequireFromString("375.00")}, nil)
	f.pay.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&payservice.CheckoutSession{SessionID: "sess_5"}, nil)
	f.repo.On("SetPaymentSession", mock.Anything, int64(104), "sess_5").Return(nil)

	req := validRequest()
	req.Address = &Address{Street: "10 Main St", City: "Springfield", ZipCode: "01101"}

	res, err := f.uc.Execute(context.Background(), req)

	require.NoError(t, err)
	assert.True(t, res.Degraded)
}

func TestCreateBooking_OutOfServiceArea(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	f.geo.On("ResolveDistanceWithGracefulDegradation", mock.Anything, mock.Anything).
		Return(nil, geoservice.ErrOutOfServiceArea)

	req := validRequest()
	req.Address = &Address{Street: "1 Far Away Rd", City: "Nowhere", ZipCode: "99999"}

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrOutOfServiceArea)
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_UnknownService(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(999)).Return(nil, catalog.ErrServiceNotFound)

	req := validRequest()
	req.ServiceID = 999

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreateBooking_UnknownEquipment(t *testing.T) {
	f := newFixture()
	f.catalog.On("GetService", int64(1)).Return(dumpsterService(), nil)
	f.catalog.On("GetEquipmentType", "jackhammer").Return(nil, catalog.ErrEquipmentNotFound)

	req := validRequest()
	req.Equipment = []EquipmentItem{{Type: "jackhammer", Quantity: 1}}

	_, err := f.uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrEquipmentNotFound)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture()

	t.Run("PastDropOff", func(t *testing.T) {
		req := validRequest()
		req.DropOffDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		req.PickupDate = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("PickupBeforeDropOff", func(t *testing.T) {
		req := validRequest()
		req.PickupDate = dropOff.AddDate(0, 0, -1)
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("MalformedSlot", func(t *testing.T) {
		req := validRequest()
		req.DropOffSlot = "8am-10am"
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("EquipmentQuantityOutOfRange", func(t *testing.T) {
		req := validRequest()
		req.Equipment = []EquipmentItem{{Type: "wheelbarrow", Quantity: domain.MaxEquipmentQuantity + 1}}
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func tsPtr(s string) *types.TimeString {
	v := types.TimeString(s)
	return &v
}
