package quote_price

import (
	"time"

	"github.com/bindrop/BDR-RentalService/internal/domain"
)

// EquipmentItem позиция дополнительного оборудования в запросе
type EquipmentItem struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

// Address адрес доставки для расчёта надбавки за расстояние
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	ZipCode string `json:"zipCode"`
}

// Request модель запроса предпросмотра цены
// Даты могут отсутствовать или быть некорректными: предпросмотр
// работает, пока пользователь ещё вводит данные
type Request struct {
	ServiceID      int64
	DropOffDate    time.Time // нулевое значение - дата ещё не введена
	PickupDate     time.Time
	Insurance      bool
	DrivewayBoards bool
	Equipment      []EquipmentItem
	Address        *Address
}

// Line строка детализации цены
type Line struct {
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// Response модель ответа с ценой
type Response struct {
	Lines        []Line `json:"lines"`
	Total        string `json:"total"`
	DurationDays int    `json:"durationDays"`

	// Fallback true, когда пара дат некорректна и цена
	// деградировала до базовой
	Fallback bool `json:"fallback"`

	// Degraded true, когда геосервис недоступен и надбавка
	// за расстояние не рассчитана
	Degraded bool `json:"degraded,omitempty"`
}

func fromDomainQuote(q domain.Quote, degraded bool) *Response {
	resp := &Response{
		Total:        q.Total.StringFixed(2),
		DurationDays: q.DurationDays,
		Fallback:     q.Fallback,
		Degraded:     degraded,
	}
	for _, line := range q.Lines {
		resp.Lines = append(resp.Lines, Line{Label: line.Label, Amount: line.Amount.StringFixed(2)})
	}
	return resp
}
