package domain

import "time"

// InventoryItem тип арендуемого оборудования с общим количеством единиц
type InventoryItem struct {
	EquipmentType string
	TotalOwned    int
	UpdatedAt     time.Time
}

// EquipmentLink удержание инвентаря конкретным бронированием
// Действует с даты доставки до даты возврата бронирования;
// снимается проставлением ReturnedAt
type EquipmentLink struct {
	ID            int64
	BookingID     int64
	EquipmentType string
	Quantity      int
	ReturnedAt    *time.Time
	CreatedAt     time.Time
}

// IsHeld возвращает true, пока оборудование не возвращено
func (l *EquipmentLink) IsHeld() bool {
	return l.ReturnedAt == nil
}
