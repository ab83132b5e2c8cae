package models

import "github.com/bindrop/BDR-RentalService/internal/domain"

// Request модели

// HoldItem позиция удержания оборудования
type HoldItem struct {
	EquipmentType string `json:"equipmentType"`
	Quantity      int    `json:"quantity"`
}

// AdjustTotalRequest запрос на изменение общего количества единиц
type AdjustTotalRequest struct {
	TotalOwned int `json:"totalOwned"`
}

// Response модели

// ItemResponse состояние позиции инвентаря
type ItemResponse struct {
	EquipmentType string `json:"equipmentType"`
	TotalOwned    int    `json:"totalOwned"`
	Held          int    `json:"held"`
	Available     int    `json:"available"`
}

// ItemListResponse список позиций инвентаря
type ItemListResponse struct {
	Items []*ItemResponse `json:"items"`
}

// FromDomainItem конвертирует позицию инвентаря в ответ
func FromDomainItem(item *domain.InventoryItem, held int) *ItemResponse {
	return &ItemResponse{
		EquipmentType: item.EquipmentType,
		TotalOwned:    item.TotalOwned,
		Held:          held,
		Available:     item.TotalOwned - held,
	}
}
