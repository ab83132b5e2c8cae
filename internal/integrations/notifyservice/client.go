package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Notification уведомление клиенту или администратору
type Notification struct {
	Recipient string `json:"recipient"`
	Kind      string `json:"kind"`
	BookingID int64  `json:"booking_id"`
	Message   string `json:"message"`
}

// Виды уведомлений
const (
	KindBookingConfirmed = "booking_confirmed"
	KindBookingFlagged   = "booking_flagged"
	KindBookingCancelled = "booking_cancelled"
	KindReviewRequired   = "review_required"
)

// Client клиент для работы с NotifyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет уведомление
func (c *Client) Send(ctx context.Context, n *Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
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
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}
}

// SendAsync отправляет уведомление в фоне, не блокируя основной поток
// Ошибки доставки только логируются: уведомления не влияют на исход брони
func (c *Client) SendAsync(n *Notification) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := c.Send(ctx, n); err != nil {
			c.log.Error("SendAsync: failed to deliver %s notification for booking=%d: %v", n.Kind, n.BookingID, err)
			return
		}
		c.log.Info("SendAsync: delivered %s notification for booking=%d", n.Kind, n.BookingID)
	}()
}
