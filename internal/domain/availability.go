package domain

import (
	"time"

	"github.com/bindrop/BDR-RentalService/pkg/types"
)

// TimeWindow временное окно в пределах одного дня
type TimeWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// IsValid проверяет, что окно непустое и начало раньше конца
func (w TimeWindow) IsValid() bool {
	return w.Start.Validate() == nil && w.End.Validate() == nil && w.Start.IsBefore(w.End)
}

// WeeklyAvailabilityRule правило недельного расписания услуги
// Инвариант: не более одного правила на пару (service, weekday);
// окна внутри дня не пересекаются и упорядочены хронологически
type WeeklyAvailabilityRule struct {
	ID          int64
	ServiceID   int64
	Weekday     int // 0 = воскресенье ... 6 = суббота, как time.Weekday
	IsAvailable bool

	// Для услуг с SlotFullDay: границы рабочего дня
	DayStart *types.TimeString
	DayEnd   *types.TimeString

	// Для услуг с SlotTimeWindow: дискретные окна
	Windows []TimeWindow

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateWindows проверяет инвариант окон: все валидны, упорядочены
// и не пересекаются
func (r *WeeklyAvailabilityRule) ValidateWindows() bool {
	for i, w := range r.Windows {
		if !w.IsValid() {
			return false
		}
		if i > 0 && r.Windows[i-1].End.IsAfter(w.Start) {
			return false
		}
	}
	return true
}

// DateBlackout разовая блокировка даты
// ServiceID == nil означает блокировку всех услуг на эту дату
type DateBlackout struct {
	ID        int64
	Date      time.Time
	ServiceID *int64
	Reason    *string
	CreatedAt time.Time
}

// AppliesTo возвращает true, если блокировка действует на услугу
func (b *DateBlackout) AppliesTo(serviceID int64) bool {
	return b.ServiceID == nil || *b.ServiceID == serviceID
}

// DayAvailability ответ резолвера по одной дате
type DayAvailability struct {
	Date         time.Time
	Available    bool
	UsesWindows  bool
	DropOffSlots []TimeWindow
	PickupSlots  []TimeWindow
}

// Weekday возвращает день недели даты в нумерации правил (0-6)
func Weekday(date time.Time) int {
	return int(date.Weekday())
}

// DateOnly обнуляет время до локальной полуночи
// Вся календарная арифметика ядра работает на таких значениях,
// чтобы исключить ошибки на границах суток
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsDateInPast проверяет, что дата раньше сегодняшнего дня
func IsDateInPast(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}

// IsSameDay проверяет, что две даты относятся к одному дню
func IsSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
