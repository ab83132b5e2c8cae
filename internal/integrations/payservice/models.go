package payservice

import "github.com/shopspring/decimal"

// PaymentStatus статус платежной сессии
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusPaid     PaymentStatus = "paid"
	StatusDeclined PaymentStatus = "declined"
	StatusExpired  PaymentStatus = "expired"
)

// CheckoutSessionRequest запрос на создание платежной сессии
type CheckoutSessionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	CustomerRef int64           `json:"customer_ref"`
	SuccessURL  string          `json:"success_url"`
	CancelURL   string          `json:"cancel_url"`
	BookingRef  string          `json:"booking_ref"`
}

// CheckoutSession платежная сессия
type CheckoutSession struct {
	SessionID     string        `json:"session_id"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	ChargeID      string        `json:"charge_id,omitempty"`
}

// ChargeRequest запрос на списание с сохраненного способа оплаты
type ChargeRequest struct {
	CustomerRef    int64           `json:"customer_ref"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// Charge результат списания
type Charge struct {
	ChargeID string `json:"charge_id"`
}

// RefundRequest запрос на возврат денег
type RefundRequest struct {
	ChargeID       string          `json:"charge_id"`
	Amount         decimal.Decimal `json:"amount"`
	Reason         string          `json:"reason"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// Refund результат возврата
type Refund struct {
	RefundID string `json:"refund_id"`
}

// ErrorResponse модель ошибки от платежного сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
