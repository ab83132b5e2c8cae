package quote_price

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
	quotePrice "github.com/bindrop/BDR-RentalService/internal/usecase/quote_price"
)

// EquipmentItemRequest позиция дополнительного оборудования
type EquipmentItemRequest struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// AddressRequest адрес доставки
type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// QuoteRequest HTTP request model
// Даты опциональны: предпросмотр работает и с частично
// заполненной формой
type QuoteRequest struct {
	ServiceID      int64                  `json:"serviceId"`
	DropOffDate    string                 `json:"dropOffDate,omitempty"` // "2026-07-10"
	PickupDate     string                 `json:"pickupDate,omitempty"`
	Insurance      bool                   `json:"insurance"`
	DrivewayBoards bool                   `json:"drivewayBoards"`
	Equipment      []EquipmentItemRequest `json:"equipment,omitempty"`
	Address        *AddressRequest        `json:"address,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case.
// Нечитаемая дата не ошибка: остается нулевой, use case вернет
// базовую цену с флагом fallback
func (r *QuoteRequest) ToUseCaseRequest() *quotePrice.Request {
	req := &quotePrice.Request{
		ServiceID:      r.ServiceID,
		Insurance:      r.Insurance,
		DrivewayBoards: r.DrivewayBoards,
	}

	if d, err := time.Parse(domain.DateFormat, r.DropOffDate); err == nil {
		req.DropOffDate = d
	}
	if d, err := time.Parse(domain.DateFormat, r.PickupDate); err == nil {
		req.PickupDate = d
	}

	for _, item := range r.Equipment {
		req.Equipment = append(req.Equipment, quotePrice.EquipmentItem{
			Type:     item.Type,
			Quantity: item.Quantity,
		})
	}

	if r.Address != nil {
		req.Address = &quotePrice.Address{
			Street:  r.Address.Street,
			City:    r.Address.City,
			ZipCode: r.Address.ZipCode,
		}
	}

	return req
}
