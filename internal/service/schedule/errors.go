package schedule

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrBlackoutNotFound возвращается, когда блокировка даты не найдена
	ErrBlackoutNotFound = errors.New("blackout not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidWindows возвращается, когда окна пересекаются
	// или идут не в хронологическом порядке
	ErrInvalidWindows = errors.New("invalid time windows")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
