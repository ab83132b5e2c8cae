package quote_price

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("quote_price: service not found")

	// ErrEquipmentNotFound возвращается, когда тип оборудования не найден
	ErrEquipmentNotFound = errors.New("quote_price: equipment type not found")

	// ErrAddressNotFound возвращается, когда адрес доставки не распознан
	ErrAddressNotFound = errors.New("quote_price: delivery address not found")

	// ErrOutOfServiceArea возвращается, когда адрес вне зоны обслуживания
	ErrOutOfServiceArea = errors.New("quote_price: address is out of service area")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("quote_price: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("quote_price: internal error")
)
