package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("cancel_booking: access denied")

	// ErrCannotCancel возвращается для терминальных бронирований
	ErrCannotCancel = errors.New("cancel_booking: booking cannot be cancelled")

	// ErrRefundFailed возвращается, когда внешний возврат денег не прошел;
	// состояние бронирования не менялось, операцию можно повторить
	ErrRefundFailed = errors.New("cancel_booking: refund failed")

	// ErrReconciliation возвращается, когда деньги возвращены, но запись
	// отмены не удалась; требуется ручная сверка, автоповтор запрещен
	ErrReconciliation = errors.New("cancel_booking: refund succeeded but state write failed, manual reconciliation required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("cancel_booking: internal error")
)
