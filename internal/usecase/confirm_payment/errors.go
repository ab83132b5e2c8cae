package confirm_payment

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_payment: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("confirm_payment: access denied")

	// ErrNoPaymentSession возвращается, когда у бронирования нет
	// платежной сессии
	ErrNoPaymentSession = errors.New("confirm_payment: booking has no payment session")

	// ErrPaymentDeclined возвращается, когда платеж отклонен
	ErrPaymentDeclined = errors.New("confirm_payment: payment declined")

	// ErrConfirmTimeout возвращается, когда платеж не подтвердился
	// за отведенное число попыток; операцию можно повторить
	ErrConfirmTimeout = errors.New("confirm_payment: confirmation timed out")

	// ErrIllegalTransition возвращается, когда бронирование не ожидает оплаты
	ErrIllegalTransition = errors.New("confirm_payment: booking is not awaiting payment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_payment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_payment: internal error")
)
