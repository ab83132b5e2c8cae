package get_availability

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// Request модель запроса доступности услуги на диапазон дат
type Request struct {
	ServiceID int64     // ID услуги
	StartDate time.Time // Начало диапазона (включительно)
	EndDate   time.Time // Конец диапазона (включительно)
}

// Slot временное окно в ответе
type Slot struct {
	Start string `json:"start"` // "08:00"
	End   string `json:"end"`   // "12:00"
}

// Day доступность услуги на одну дату
type Day struct {
	Date         string `json:"date"` // "2026-07-10"
	Available    bool   `json:"available"`
	UsesWindows  bool   `json:"usesWindows"`
	DropOffSlots []Slot `json:"dropOffSlots"`
	PickupSlots  []Slot `json:"pickupSlots"`
}

// Response модель ответа резолвера доступности
type Response struct {
	ServiceID int64 `json:"serviceId"`
	Days      []Day `json:"days"`

	// TemporarilyUnavailable поднимается, когда недельное расписание
	// услуги полностью закрыто: фронт показывает баннер вместо календаря
	TemporarilyUnavailable bool `json:"temporarilyUnavailable"`
}

func slotsFromWindows(windows []domain.TimeWindow) []Slot {
	slots := make([]Slot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, Slot{Start: w.Start.String(), End: w.End.String()})
	}
	return slots
}
