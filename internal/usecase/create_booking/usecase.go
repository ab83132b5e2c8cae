package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	geoClient "github.com/bindrop/BDR-RentalService/internal/integrations/geoservice"
	"github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
	bookingModels "github.com/bindrop/BDR-RentalService/internal/service/bookings/models"
	"github.com/bindrop/BDR-RentalService/internal/service/catalog"
	invService "github.com/bindrop/BDR-RentalService/internal/service/inventory"
	invModels "github.com/bindrop/BDR-RentalService/internal/service/inventory/models"
	"github.com/bindrop/BDR-RentalService/pkg/ptr"
)

// CheckoutURLs адреса возврата после оплаты
type CheckoutURLs struct {
	SuccessURL string
	CancelURL  string
}

// UseCase use case создания бронирования
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	inventory        InventoryService
	catalog          Catalog
	payClient        PayServiceClient
	geoClient        GeoServiceClient
	txManager        TransactionManager
	checkout         CheckoutURLs
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	inventory InventoryService,
	catalog Catalog,
	payClient PayServiceClient,
	geoClient GeoServiceClient,
	txManager TransactionManager,
	checkout CheckoutURLs,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		inventory:        inventory,
		catalog:          catalog,
		payClient:        payClient,
		geoClient:        geoClient,
		txManager:        txManager,
		checkout:         checkout,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования
// Удержание оборудования и вставка бронирования выполняются в одной
// сериализуемой транзакции: из двух конкурентных запросов на последние
// единицы преуспеет ровно один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, service=%d, dropoff=%s, pickup=%s",
		req.CustomerID, req.ServiceID,
		req.DropOffDate.Format(domain.DateFormat), req.PickupDate.Format(domain.DateFormat))

	// 1. Получаем текущее время
	now := uc.timeProvider.Now()

	// 2. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем услугу из каталога
	svc, err := uc.catalog.GetService(req.ServiceID)
	if err != nil {
		if errors.Is(err, catalog.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	// 4. Проверяем артефакты верификации для самовывоза
	verification := toDomainVerification(req.Verification)
	if err := validateVerification(svc, verification); err != nil {
		uc.logger.Warn("CreateBooking: verification check failed for customer=%d: %v", req.CustomerID, err)
		return nil, err
	}

	// 5. Собираем выбранное оборудование
	addons, holdItems, err := uc.buildAddons(req)
	if err != nil {
		return nil, err
	}

	// 6. Считаем надбавку за расстояние (только доставка персоналом)
	distance, degraded, err := uc.resolveDistance(ctx, svc, req.Address)
	if err != nil {
		return nil, err
	}

	// 7. Считаем итоговую цену
	dropOffSlot, _ := domain.ParseSlotKey(req.DropOffSlot)
	pickupSlot, _ := domain.ParseSlotKey(req.PickupSlot)
	quote := domain.ComputeQuote(svc, req.DropOffDate, req.PickupDate, addons, distance)
	if quote.Fallback {
		// Валидация выше исключает этот случай, но цена-заглушка
		// не должна попасть в платежную сессию
		return nil, fmt.Errorf("%w: quote fell back to base price", ErrInvalidDate)
	}

	var created *domain.Booking

	// 8. Сериализуемая транзакция: перепроверка слотов, вставка,
	// удержание оборудования
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Перепроверяем доступность обеих дат внутри транзакции:
		// расписание могло измениться после предпросмотра
		if err := uc.checkSlots(txCtx, svc, req, now, dropOffSlot, pickupSlot); err != nil {
			return err
		}

		// 8.2. Создаем бронирование в статусе pending_payment
		booking := &domain.Booking{
			CustomerID:        req.CustomerID,
			ServiceID:         req.ServiceID,
			DropOffDate:       domain.DateOnly(req.DropOffDate),
			DropOffSlot:       dropOffSlot,
			PickupDate:        domain.DateOnly(req.PickupDate),
			PickupSlot:        pickupSlot,
			TotalPrice:        quote.Total,
			InsuranceAccepted: addons.Insurance && svc.InsuranceEligible,
			DrivewayBoards:    addons.DrivewayBoards && svc.DrivewayEligible,
			Notes:             req.Notes,
			Distance:          distance,
			Status:            domain.StatusPendingPayment,
			Verification:      verification,
		}

		created, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 8.3. Удерживаем оборудование на интервал аренды
		if len(holdItems) > 0 {
			if err := uc.inventory.HoldInTx(txCtx, created.ID, holdItems, created.DropOffDate, created.PickupDate); err != nil {
				if errors.Is(err, invService.ErrInsufficientInventory) {
					uc.logger.Warn("CreateBooking: insufficient inventory for customer=%d: %v", req.CustomerID, err)
					return fmt.Errorf("%w: %v", ErrInsufficientInventory, err)
				}
				uc.logger.Error("CreateBooking: equipment hold failed: %v", err)
				return fmt.Errorf("%w: equipment hold failed: %v", ErrInternal, err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: created booking id=%d total=%s", created.ID, created.TotalPrice.StringFixed(2))

	// 9. Создаем платежную сессию; бронирование уже удерживает слот
	// и оборудование в статусе pending_payment
	session, err := uc.payClient.CreateCheckoutSession(ctx, &payservice.CheckoutSessionRequest{
		Amount:      created.TotalPrice,
		CustomerRef: created.CustomerID,
		SuccessURL:  uc.checkout.SuccessURL,
		CancelURL:   uc.checkout.CancelURL,
		BookingRef:  fmt.Sprintf("booking-%d", created.ID),
	})
	if err != nil {
		uc.logger.Error("CreateBooking: checkout session failed for booking id=%d: %v", created.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentSessionFailed, err)
	}

	// 10. Сохраняем идентификатор сессии
	if err := uc.bookingRepo.SetPaymentSession(ctx, created.ID, session.SessionID); err != nil {
		uc.logger.Error("CreateBooking: failed to persist session for booking id=%d: %v", created.ID, err)
		return nil, fmt.Errorf("%w: failed to persist payment session: %v", ErrInternal, err)
	}
	created.PaymentSessionID = ptr.Ptr(session.SessionID)

	uc.logger.Info("CreateBooking: booking id=%d awaiting payment, session=%s", created.ID, session.SessionID)

	return &Response{
		Booking:   bookingModels.FromDomainBooking(created),
		SessionID: session.SessionID,
		Degraded:  degraded,
	}, nil
}

// checkSlots перепроверяет, что обе даты открыты и запрошенные окна
// входят в расписание
func (uc *UseCase) checkSlots(ctx context.Context, svc *domain.Service, req *Request, now time.Time, dropOffSlot, pickupSlot domain.TimeWindow) error {
	rules, err := uc.availabilityRepo.GetRulesByService(ctx, svc.ID)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get rules for service id=%d: %v", svc.ID, err)
		return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}
	rulesByWeekday := domain.RulesByWeekday(rules)

	blackouts, err := uc.availabilityRepo.GetBlackouts(ctx, svc.ID, req.DropOffDate, req.PickupDate)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get blackouts for service id=%d: %v", svc.ID, err)
		return fmt.Errorf("%w: failed to get blackouts: %v", ErrInternal, err)
	}

	dropOffDay := domain.ResolveDay(svc, req.DropOffDate, now, rulesByWeekday, blackouts)
	if !dropOffDay.Available || !dropOffDay.HasSlot(dropOffSlot) {
		uc.logger.Warn("CreateBooking: drop-off slot %s not available on %s for service=%d",
			req.DropOffSlot, req.DropOffDate.Format(domain.DateFormat), svc.ID)
		return fmt.Errorf("%w: drop-off slot", ErrSlotNotAvailable)
	}

	pickupDay := domain.ResolveDay(svc, req.PickupDate, now, rulesByWeekday, blackouts)
	if !pickupDay.Available || !pickupDay.HasSlot(pickupSlot) {
		uc.logger.Warn("CreateBooking: pickup slot %s not available on %s for service=%d",
			req.PickupSlot, req.PickupDate.Format(domain.DateFormat), svc.ID)
		return fmt.Errorf("%w: pickup slot", ErrSlotNotAvailable)
	}

	return nil
}

// buildAddons конвертирует позиции запроса в выбор дополнений
// и позиции удержания инвентаря
func (uc *UseCase) buildAddons(req *Request) (domain.AddOnSelection, []invModels.HoldItem, error) {
	addons := domain.AddOnSelection{
		Insurance:      req.Insurance,
		DrivewayBoards: req.DrivewayBoards,
	}
	var holdItems []invModels.HoldItem

	for _, item := range req.Equipment {
		eq, err := uc.catalog.GetEquipmentType(item.Type)
		if err != nil {
			uc.logger.Warn("CreateBooking: unknown equipment type %q", item.Type)
			return addons, nil, fmt.Errorf("%w: %s", ErrEquipmentNotFound, item.Type)
		}
		addons.Equipment = append(addons.Equipment, domain.EquipmentSelection{
			Type:     *eq,
			Quantity: item.Quantity,
		})
		holdItems = append(holdItems, invModels.HoldItem{
			EquipmentType: eq.Code,
			Quantity:      item.Quantity,
		})
	}

	return addons, holdItems, nil
}

// resolveDistance рассчитывает надбавку за расстояние доставки
// Недоступность геосервиса не срывает оформление: надбавка
// пропускается, ответ помечается как деградировавший
func (uc *UseCase) resolveDistance(ctx context.Context, svc *domain.Service, addr *Address) (*domain.DistanceSurcharge, bool, error) {
	if addr == nil || svc.RentalModel != domain.RentalStaffDelivered {
		return nil, false, nil
	}

	result, err := uc.geoClient.ResolveDistanceWithGracefulDegradation(ctx, &geoClient.DistanceRequest{
		Address: addr.Street,
		City:    addr.City,
		ZipCode: addr.ZipCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, geoClient.ErrAddressNotFound):
			return nil, false, ErrAddressNotFound
		case errors.Is(err, geoClient.ErrOutOfServiceArea):
			return nil, false, ErrOutOfServiceArea
		case errors.Is(err, geoClient.ErrServiceDegraded):
			uc.logger.Warn("CreateBooking: geoservice degraded, skipping distance surcharge: %v", err)
			return nil, true, nil
		default:
			uc.logger.Error("CreateBooking: distance resolution failed: %v", err)
			return nil, false, fmt.Errorf("%w: distance resolution failed: %v", ErrInternal, err)
		}
	}

	miles := decimal.NewFromFloat(result.Miles)
	return &domain.DistanceSurcharge{
		Miles: miles,
		Fee:   domain.DistanceFee(miles),
	}, false, nil
}
