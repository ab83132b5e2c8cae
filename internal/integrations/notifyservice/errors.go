package notifyservice

import "errors"

var (
	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("notifyservice.client: internal error")
	// ErrInvalidResponse некорректный ответ от сервиса
	ErrInvalidResponse = errors.New("notifyservice.client: invalid response")
)
