package availability

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило расписания не найдено
	ErrRuleNotFound = errors.New("availability.repository: weekly rule not found")

	// ErrBlackoutNotFound возвращается, когда блокировка даты не найдена
	ErrBlackoutNotFound = errors.New("availability.repository: blackout not found")

	// ErrDuplicateRule возвращается при попытке создать второе правило
	// на ту же пару (service, weekday)
	ErrDuplicateRule = errors.New("availability.repository: rule already exists for this weekday")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
