package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrEquipmentNotFound возвращается, когда тип оборудования не найден
	ErrEquipmentNotFound = errors.New("create_booking: equipment type not found")

	// ErrSlotNotAvailable возвращается, когда запрошенный слот недоступен
	// (дата закрыта, заблокирована или окно не входит в расписание)
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInsufficientInventory возвращается, когда оборудования не хватает
	// на запрошенный интервал; конфликт устраним повторной попыткой
	ErrInsufficientInventory = errors.New("create_booking: insufficient inventory")

	// ErrVerificationRequired возвращается, когда для самовывоза не переданы
	// ни артефакты верификации, ни причина их отсутствия
	ErrVerificationRequired = errors.New("create_booking: verification artifacts or skip reason required")

	// ErrAddressNotFound возвращается, когда адрес доставки не распознан
	ErrAddressNotFound = errors.New("create_booking: delivery address not found")

	// ErrOutOfServiceArea возвращается, когда адрес вне зоны обслуживания
	ErrOutOfServiceArea = errors.New("create_booking: address is out of service area")

	// ErrPaymentSessionFailed возвращается, когда платежная сессия
	// не создана; бронирование остаётся в pending_payment
	ErrPaymentSessionFailed = errors.New("create_booking: failed to create payment session")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
