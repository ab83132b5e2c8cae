package geoservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с GeoService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента GeoService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ResolveDistance рассчитывает расстояние от базы до адреса доставки
func (c *Client) ResolveDistance(ctx context.Context, dreq *DistanceRequest) (*DistanceResult, error) {
	payload, err := json.Marshal(dreq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/distance", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrAddressNotFound
	case http.StatusUnprocessableEntity:
		return nil, ErrOutOfServiceArea
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var result DistanceResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !result.InArea {
		return nil, ErrOutOfServiceArea
	}

	return &result, nil
}

// ResolveDistanceWithGracefulDegradation рассчитывает расстояние с graceful degradation
// При недоступности GeoService возвращает ErrServiceDegraded, что позволяет
// оформить бронирование без надбавки за расстояние
func (c *Client) ResolveDistanceWithGracefulDegradation(ctx context.Context, dreq *DistanceRequest) (*DistanceResult, error) {
	c.log.Info("Resolving distance for address=%q city=%q", dreq.Address, dreq.City)

	result, err := c.ResolveDistance(ctx, dreq)
	if err != nil {
		// Бизнес-ошибки (адрес не найден, вне зоны обслуживания)
		// пробрасываем дальше: их должен увидеть клиент
		if errors.Is(err, ErrAddressNotFound) || errors.Is(err, ErrOutOfServiceArea) {
			c.log.Warn("Distance resolution rejected for address=%q: %v", dreq.Address, err)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout, ошибки парсинга и т.д.)
		// применяем graceful degradation - возвращаем ErrServiceDegraded с контекстом
		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("GeoService unavailable, applying graceful degradation for address=%q: %v", dreq.Address, err)
		return nil, fmt.Errorf("%w: address=%q, error=%v", ErrServiceDegraded, dreq.Address, err)
	}

	c.log.Info("Distance resolved for address=%q: %.1f miles", dreq.Address, result.Miles)
	return result, nil
}
