package payservice

import "errors"

var (
	// ErrSessionNotFound возвращается, когда платежная сессия не найдена
	ErrSessionNotFound = errors.New("payservice client: session not found")

	// ErrPaymentDeclined возвращается, когда платеж отклонен провайдером
	ErrPaymentDeclined = errors.New("payservice client: payment declined")

	// ErrConfirmTimeout возвращается, когда поллинг статуса сессии
	// исчерпал лимит попыток, а платеж так и не завершился
	ErrConfirmTimeout = errors.New("payservice client: payment confirmation timed out")

	// ErrUnknownOutcome возвращается при сбое денежной операции
	// (charge/refund), когда нельзя считать, что деньги не двигались;
	// вызывающий обязан сверяться через запрос статуса, а не повторять
	ErrUnknownOutcome = errors.New("payservice client: operation outcome unknown")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("payservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("payservice client: invalid response")
)
