package inventory

import "errors"

var (
	// ErrItemNotFound возвращается, когда тип оборудования не найден в инвентаре
	ErrItemNotFound = errors.New("inventory item not found")

	// ErrInsufficientInventory возвращается, когда запрошенное количество
	// превышает доступное; количество никогда не урезается молча
	ErrInsufficientInventory = errors.New("insufficient inventory")

	// ErrLinkNotFound возвращается, когда удержание оборудования не найдено
	ErrLinkNotFound = errors.New("equipment link not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
