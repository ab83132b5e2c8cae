package extend_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("extend_booking: booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("extend_booking: access denied")

	// ErrCannotExtend возвращается, когда аренда не идет
	// (продлевать можно только confirmed, delivered и waiting_to_be_returned)
	ErrCannotExtend = errors.New("extend_booking: booking cannot be extended")

	// ErrSlotNotAvailable возвращается, когда окно возврата недоступно
	// на новую дату
	ErrSlotNotAvailable = errors.New("extend_booking: pickup slot is not available on the new date")

	// ErrChargeFailed возвращается, когда списание за продление не прошло;
	// дата возврата не менялась, операцию можно повторить
	ErrChargeFailed = errors.New("extend_booking: extension charge failed")

	// ErrChargedButNotExtended возвращается, когда деньги списаны, но
	// запись новой даты не удалась; требуется ручная сверка,
	// автоповтор запрещен
	ErrChargedButNotExtended = errors.New("extend_booking: charge succeeded but date write failed, manual reconciliation required")

	// ErrInvalidDate возвращается при некорректной новой дате возврата
	ErrInvalidDate = errors.New("extend_booking: invalid new pickup date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("extend_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("extend_booking: internal error")
)
