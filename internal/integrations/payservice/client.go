package payservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ConfirmPolicy политика поллинга подтверждения платежа
// Ретраи с фиксированным бэкоффом инкапсулированы в клиенте:
// ядро видит одну блокирующую операцию с ограниченным временем
type ConfirmPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// Client клиент платежного сервиса
type Client struct {
	baseURL    string
	httpClient *http.Client
	confirm    ConfirmPolicy
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного сервиса
func NewClient(baseURL string, timeout time.Duration, confirm ConfirmPolicy, log Logger) *Client {
	if confirm.MaxAttempts <= 0 {
		confirm.MaxAttempts = 5
	}
	if confirm.Backoff <= 0 {
		confirm.Backoff = 2 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		confirm: confirm,
		log:     log,
	}
}

// CreateCheckoutSession создает платежную сессию для бронирования
func (c *Client) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	var session CheckoutSession
	if err := c.post(ctx, "/internal/checkout/sessions", req, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// GetSessionStatus получает статус платежной сессии
func (c *Client) GetSessionStatus(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	url := fmt.Sprintf("%s/internal/checkout/sessions/%s", c.baseURL, sessionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrSessionNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &session, nil
}

// ConfirmPayment опрашивает статус сессии до финального исхода
// Ограниченный поллинг: MaxAttempts попыток с фиксированным бэкоффом
// Возвращает сессию при статусе paid, ErrPaymentDeclined при отказе,
// ErrConfirmTimeout при исчерпании попыток
func (c *Client) ConfirmPayment(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	for attempt := 1; attempt <= c.confirm.MaxAttempts; attempt++ {
		session, err := c.GetSessionStatus(ctx, sessionID)
		if err != nil {
			c.log.Warn("ConfirmPayment: attempt %d/%d failed for session=%s: %v",
				attempt, c.confirm.MaxAttempts, sessionID, err)
		} else {
			switch session.PaymentStatus {
			case StatusPaid:
				c.log.Info("ConfirmPayment: session=%s paid on attempt %d", sessionID, attempt)
				return session, nil
			case StatusDeclined, StatusExpired:
				c.log.Warn("ConfirmPayment: session=%s finished with status=%s", sessionID, session.PaymentStatus)
				return nil, ErrPaymentDeclined
			}
		}

		if attempt == c.confirm.MaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrConfirmTimeout, ctx.Err())
		case <-time.After(c.confirm.Backoff):
		}
	}

	return nil, ErrConfirmTimeout
}

// ChargeStoredMethod списывает сумму с сохраненного способа оплаты
// Сбой НЕ означает, что деньги не двигались: возвращается
// ErrUnknownOutcome, вызывающий сверяется, а не повторяет списание
func (c *Client) ChargeStoredMethod(ctx context.Context, customerRef int64, amount decimal.Decimal, description string) (*Charge, error) {
	req := &ChargeRequest{
		CustomerRef:    customerRef,
		Amount:         amount,
		Description:    description,
		IdempotencyKey: uuid.NewString(),
	}

	var charge Charge
	if err := c.post(ctx, "/internal/charges", req, &charge); err != nil {
		c.log.Error("ChargeStoredMethod: customer=%d amount=%s failed: %v", customerRef, amount, err)
		return nil, fmt.Errorf("%w: %v", ErrUnknownOutcome, err)
	}

	c.log.Info("ChargeStoredMethod: customer=%d amount=%s charge_id=%s", customerRef, amount, charge.ChargeID)
	return &charge, nil
}

// RefundCharge возвращает часть суммы платежа
// Сбой трактуется как неизвестный исход (ErrUnknownOutcome)
func (c *Client) RefundCharge(ctx context.Context, chargeID string, amount decimal.Decimal, reason string) (*Refund, error) {
	req := &RefundRequest{
		ChargeID:       chargeID,
		Amount:         amount,
		Reason:         reason,
		IdempotencyKey: uuid.NewString(),
	}

	var refund Refund
	if err := c.post(ctx, "/internal/refunds", req, &refund); err != nil {
		c.log.Error("RefundCharge: charge=%s amount=%s failed: %v", chargeID, amount, err)
		return nil, fmt.Errorf("%w: %v", ErrUnknownOutcome, err)
	}

	c.log.Info("RefundCharge: charge=%s amount=%s refund_id=%s", chargeID, amount, refund.RefundID)
	return &refund, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return ErrPaymentDeclined
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
