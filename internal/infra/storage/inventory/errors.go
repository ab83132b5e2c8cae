package inventory

import "errors"

var (
	// ErrItemNotFound возвращается, когда тип оборудования не найден
	ErrItemNotFound = errors.New("inventory.repository: equipment type not found")

	// ErrLinkNotFound возвращается, когда удержание не найдено
	ErrLinkNotFound = errors.New("inventory.repository: equipment link not found")

	// ErrInsufficientUnits возвращается, когда запрошенное количество
	// превышает свободный остаток; запрос отклоняется, а не урезается
	ErrInsufficientUnits = errors.New("inventory.repository: insufficient units available")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("inventory.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("inventory.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("inventory.repository: failed to scan row")
)
