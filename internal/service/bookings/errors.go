package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrIllegalTransition возвращается при недопустимом переходе статуса
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrStaleState возвращается, когда статус изменился между чтением
	// и условной записью; операцию следует повторить с актуальным статусом
	ErrStaleState = errors.New("booking state is stale")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrChargeFailed возвращается, когда списание за проблему возврата
	// не прошло; проблема фиксируется, списание повторяет оператор
	ErrChargeFailed = errors.New("fee charge failed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
