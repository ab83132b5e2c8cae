package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	addCustomerNoteHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/add_customer_note"
	adjustInventoryHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/adjust_inventory"
	approveBookingHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/approve_booking"
	cancelBookingHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/cancel_booking"
	confirmPaymentHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/confirm_payment"
	createBlackoutHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/create_blackout"
	createBookingHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/create_booking"
	deleteBlackoutHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/delete_blackout"
	deleteBookingHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/delete_booking"
	extendBookingHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/extend_booking"
	getAvailabilityHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/get_booking"
	getCustomerBookingsHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/get_customer_bookings"
	getCustomerNotesHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/get_customer_notes"
	getReturnIssuesHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/get_return_issues"
	getScheduleHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/get_schedule"
	listBlackoutsHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/list_blackouts"
	listInventoryHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/list_inventory"
	listServicesHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/list_services"
	markDeliveredHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/mark_delivered"
	markPickedUpHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/mark_picked_up"
	markReturnedHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/mark_returned"
	quotePriceHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/quote_price"
	resolveFlaggedHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/resolve_flagged"
	uploadVerificationHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/upload_verification"
	upsertRuleHandler "github.com/bindrop/BDR-RentalService/internal/api/handlers/upsert_rule"
	"github.com/bindrop/BDR-RentalService/internal/api/middleware"
	"github.com/bindrop/BDR-RentalService/internal/config"
	availabilityRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/availability"
	bookingRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/booking"
	customerNoteRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/customernote"
	inventoryRepo "github.com/bindrop/BDR-RentalService/internal/infra/storage/inventory"
	fileServiceClient "github.com/bindrop/BDR-RentalService/internal/integrations/fileservice"
	geoServiceClient "github.com/bindrop/BDR-RentalService/internal/integrations/geoservice"
	notifyServiceClient "github.com/bindrop/BDR-RentalService/internal/integrations/notifyservice"
	payServiceClient "github.com/bindrop/BDR-RentalService/internal/integrations/payservice"
	"github.com/bindrop/BDR-RentalService/internal/jobs"
	bookingsService "github.com/bindrop/BDR-RentalService/internal/service/bookings"
	catalogService "github.com/bindrop/BDR-RentalService/internal/service/catalog"
	customersService "github.com/bindrop/BDR-RentalService/internal/service/customers"
	inventoryService "github.com/bindrop/BDR-RentalService/internal/service/inventory"
	scheduleService "github.com/bindrop/BDR-RentalService/internal/service/schedule"
	cancelBookingUC "github.com/bindrop/BDR-RentalService/internal/usecase/cancel_booking"
	confirmPaymentUC "github.com/bindrop/BDR-RentalService/internal/usecase/confirm_payment"
	createBookingUC "github.com/bindrop/BDR-RentalService/internal/usecase/create_booking"
	extendBookingUC "github.com/bindrop/BDR-RentalService/internal/usecase/extend_booking"
	getAvailabilityUC "github.com/bindrop/BDR-RentalService/internal/usecase/get_availability"
	quotePriceUC "github.com/bindrop/BDR-RentalService/internal/usecase/quote_price"
	"github.com/bindrop/BDR-RentalService/pkg/dbmetrics"
	"github.com/bindrop/BDR-RentalService/pkg/logger"
	"github.com/bindrop/BDR-RentalService/pkg/metrics"
	"github.com/bindrop/BDR-RentalService/pkg/simpletxmanager"
	"github.com/bindrop/BDR-RentalService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting BDR-RentalService...")
	log.Info("Configuration loaded from config.toml")

	// Собираем каталог услуг из конфига
	services, equipment, err := cfg.Catalog.BuildCatalog()
	if err != nil {
		log.Fatal("Failed to build catalog from config: %v", err)
	}
	log.Info("Catalog loaded: %d services, %d equipment types", len(services), len(equipment))

	// Метрики регистрируются всегда, endpoint и обёртка БД - по флагу
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	payClient := payServiceClient.NewClient(
		cfg.Payments.URL,
		time.Duration(cfg.Payments.Timeout)*time.Second,
		payServiceClient.ConfirmPolicy{
			MaxAttempts: cfg.Payments.ConfirmMaxAttempts,
			Backoff:     time.Duration(cfg.Payments.ConfirmBackoffSeconds) * time.Second,
		},
		log,
	)
	geoClient := geoServiceClient.NewClient(
		cfg.Geo.URL,
		time.Duration(cfg.Geo.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.Notify.URL,
		time.Duration(cfg.Notify.Timeout)*time.Second,
		log,
	)
	fileClient := fileServiceClient.NewClient(
		cfg.Files.URL,
		time.Duration(cfg.Files.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (PayService=%s, GeoService=%s, NotifyService=%s, FileService=%s)",
		cfg.Payments.URL, cfg.Geo.URL, cfg.Notify.URL, cfg.Files.URL)

	// Инициализируем репозитории и transaction manager
	// (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
		inventoryRepository    *inventoryRepo.Repository
		noteRepository         *customerNoteRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		inventoryRepository = inventoryRepo.NewRepository(wrappedDB)
		noteRepository = customerNoteRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		inventoryRepository = inventoryRepo.NewRepository(db)
		noteRepository = customerNoteRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	timeProvider := &jobs.RealTimeProvider{}

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(services, equipment, availabilityRepository, log)
	scheduleSvc := scheduleService.NewService(availabilityRepository, catalogSvc, log)
	inventorySvc := inventoryService.NewService(inventoryRepository, txMgr, log)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		inventorySvc,
		catalogSvc,
		payClient,
		notifyClient,
		metricsCollector,
		timeProvider,
		log,
	)
	customerSvc := customersService.NewService(noteRepository, log)

	// Инициализируем use cases
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(availabilityRepository, catalogSvc, log)
	quotePriceUseCase := quotePriceUC.NewUseCase(catalogSvc, geoClient, log)
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		inventorySvc,
		catalogSvc,
		payClient,
		geoClient,
		txMgr,
		createBookingUC.CheckoutURLs{
			SuccessURL: cfg.Checkout.SuccessURL,
			CancelURL:  cfg.Checkout.CancelURL,
		},
		log,
	)
	confirmPaymentUseCase := confirmPaymentUC.NewUseCase(
		bookingRepository,
		catalogSvc,
		payClient,
		notifyClient,
		metricsCollector,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		inventorySvc,
		payClient,
		notifyClient,
		metricsCollector,
		log,
	)
	extendBookingUseCase := extendBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		catalogSvc,
		payClient,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	quotePrice := quotePriceHandler.NewHandler(quotePriceUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	confirmPayment := confirmPaymentHandler.NewHandler(confirmPaymentUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	extendBooking := extendBookingHandler.NewHandler(extendBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getCustomerBookings := getCustomerBookingsHandler.NewHandler(bookingSvc, log)
	approveBooking := approveBookingHandler.NewHandler(bookingSvc, log)
	markDelivered := markDeliveredHandler.NewHandler(bookingSvc, log)
	markPickedUp := markPickedUpHandler.NewHandler(bookingSvc, log)
	markReturned := markReturnedHandler.NewHandler(bookingSvc, log)
	resolveFlagged := resolveFlaggedHandler.NewHandler(bookingSvc, log)
	getReturnIssues := getReturnIssuesHandler.NewHandler(bookingSvc, log)
	deleteBooking := deleteBookingHandler.NewHandler(bookingSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	upsertRule := upsertRuleHandler.NewHandler(scheduleSvc, log)
	listBlackouts := listBlackoutsHandler.NewHandler(scheduleSvc, log)
	createBlackout := createBlackoutHandler.NewHandler(scheduleSvc, log)
	deleteBlackout := deleteBlackoutHandler.NewHandler(scheduleSvc, log)
	listInventory := listInventoryHandler.NewHandler(inventorySvc, log)
	adjustInventory := adjustInventoryHandler.NewHandler(inventorySvc, log)
	addCustomerNote := addCustomerNoteHandler.NewHandler(customerSvc, log)
	getCustomerNotes := getCustomerNotesHandler.NewHandler(customerSvc, log)
	uploadVerification := uploadVerificationHandler.NewHandler(fileClient, log)

	// Фоновый свип зависших бронирований
	sweeper := jobs.NewRetentionSweeper(
		bookingRepository,
		metricsCollector,
		timeProvider,
		log,
		cfg.Retention.PendingPaymentHours,
	)
	scheduler, err := jobs.NewScheduler(sweeper, cfg.Retention.CronSpec, log)
	if err != nil {
		log.Fatal("Failed to create jobs scheduler: %v", err)
	}
	scheduler.Start()

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Каталог услуг и оборудования
	api.HandleFunc("/services", listServices.Handle).Methods(http.MethodGet)

	// Доступность услуги на диапазон дат
	api.HandleFunc("/services/{serviceId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Недельное расписание услуги
	api.HandleFunc("/services/{serviceId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Предпросмотр цены
	api.HandleFunc("/quotes", quotePrice.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/confirm-payment", confirmPayment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/extend", extendBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/customers/{customerId}/bookings", getCustomerBookings.Handle).Methods(http.MethodGet)

	// Загрузка фотографий верификации
	protected.HandleFunc("/verification/photos", uploadVerification.Handle).Methods(http.MethodPost)

	// --- Административные операции (X-Admin: true) ---
	protected.HandleFunc("/bookings/{bookingId}", deleteBooking.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/bookings/{bookingId}/approve", approveBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/delivered", markDelivered.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/picked-up", markPickedUp.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/returned", markReturned.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/resolve", resolveFlagged.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/return-issues", getReturnIssues.Handle).Methods(http.MethodGet)

	protected.HandleFunc("/services/{serviceId}/schedule", upsertRule.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/blackouts", listBlackouts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/blackouts", createBlackout.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/blackouts/{blackoutId}", deleteBlackout.Handle).Methods(http.MethodDelete)

	protected.HandleFunc("/inventory", listInventory.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/inventory/{equipmentType}", adjustInventory.Handle).Methods(http.MethodPut)

	protected.HandleFunc("/customers/{customerId}/notes", addCustomerNote.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/customers/{customerId}/notes", getCustomerNotes.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	scheduler.Stop()

	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
