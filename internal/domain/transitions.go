package domain

// transitionTable полная таблица допустимых переходов статусов
// Переходы монотонны; единственный путь назад - отмена с возвратом,
// разрешённая из любого нетерминального статуса
var transitionTable = map[BookingStatus][]BookingStatus{
	StatusPendingPayment: {StatusConfirmed, StatusPendingReview, StatusCancelled},
	StatusPendingReview:  {StatusConfirmed, StatusCancelled},
	StatusConfirmed:      {StatusDelivered, StatusWaitingReturn, StatusCancelled},
	StatusDelivered:      {StatusCompleted, StatusFlagged, StatusCancelled},
	StatusWaitingReturn:  {StatusCompleted, StatusFlagged, StatusCancelled},
	StatusFlagged:        {StatusCompleted, StatusCancelled},
	StatusCompleted:      {},
	StatusCancelled:      {},
}

// CanTransition проверяет допустимость перехода from -> to
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range transitionTable[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsValidStatus проверяет, что статус входит в перечисление
func IsValidStatus(s BookingStatus) bool {
	_, ok := transitionTable[s]
	return ok
}

// IsTerminalStatus возвращает true для терминальных статусов
func IsTerminalStatus(s BookingStatus) bool {
	allowed, ok := transitionTable[s]
	return ok && len(allowed) == 0
}
